package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swim/emu"
	"github.com/sarchlab/swim/insts"
)

var _ = Describe("LoadStoreUnit", func() {
	var engine *emu.Engine

	BeforeEach(func() {
		engine = emu.NewEngine()
	})

	run := func(inst insts.Instruction, ops emu.Operands) emu.Effect {
		effect, err := engine.Execute(inst, ops)
		Expect(err).NotTo(HaveOccurred())
		return effect
	}

	It("should compute a load address from base and offset", func() {
		effect := run(insts.IType{Op: insts.OpLW, RS: 29, RT: 8, Immediate: 4}, emu.Operands{RS: 0x100})

		Expect(effect.MemRead).To(BeTrue())
		Expect(effect.RegWrite).To(BeTrue())
		Expect(effect.Dest).To(Equal(emu.T0))
		Expect(effect.Address).To(Equal(uint64(0x104)))
	})

	It("should sign-extend negative offsets", func() {
		effect := run(insts.IType{Op: insts.OpLW, RS: 29, RT: 8, Immediate: 0xFFFC}, emu.Operands{RS: 0x100})

		Expect(effect.Address).To(Equal(uint64(0xFC)))
	})

	It("should store the low word of rt", func() {
		effect := run(insts.IType{Op: insts.OpSW, RS: 0, RT: 8, Immediate: 8},
			emu.Operands{RT: 0xAAAA_BBBB_CCCC_DDDD})

		Expect(effect.MemWrite).To(BeTrue())
		Expect(effect.RegWrite).To(BeFalse())
		Expect(effect.Address).To(Equal(uint64(8)))
		Expect(effect.StoreValue).To(Equal(uint32(0xCCCC_DDDD)))
	})

	It("should load into a floating-point register", func() {
		effect := run(insts.FpuIType{Op: insts.OpLWC1, Base: 0, FT: 5, Offset: 0x10}, emu.Operands{})

		Expect(effect.Dest).To(Equal(emu.F5))
		Expect(effect.Address).To(Equal(uint64(0x10)))
	})

	It("should cut a double down to its low word on swc1", func() {
		effect := run(insts.FpuIType{Op: insts.OpSWC1, Base: 0, FT: 2, Offset: 8},
			emu.Operands{FT: math.Float64bits(9853114.625)})

		Expect(effect.StoreValue).To(Equal(uint32(0x5400_0000)))
	})
})
