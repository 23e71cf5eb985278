package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swim/emu"
	"github.com/sarchlab/swim/insts"
)

var _ = Describe("BranchUnit", func() {
	var engine *emu.Engine

	BeforeEach(func() {
		engine = emu.NewEngine()
	})

	run := func(inst insts.Instruction, ops emu.Operands) emu.Effect {
		effect, err := engine.Execute(inst, ops)
		Expect(err).NotTo(HaveOccurred())
		return effect
	}

	It("should compute relative targets from the next instruction", func() {
		Expect(emu.RelativeTarget(0x10, 3)).To(Equal(uint64(0x20)))
		Expect(emu.RelativeTarget(0x10, 0xFFFF)).To(Equal(uint64(0x10)))
	})

	It("should keep the upper bits of pc + 4 for jumps", func() {
		Expect(emu.JumpTarget(0, 0x10)).To(Equal(uint64(0x40)))
		Expect(emu.JumpTarget(0x1000_0000, 0x10)).To(Equal(uint64(0x1000_0040)))
	})

	DescribeTable("beq and bne",
		func(op uint8, rs, rt uint64, taken bool) {
			effect := run(insts.IType{Op: op, RS: 8, RT: 9, Immediate: 2}, emu.Operands{PC: 8, RS: rs, RT: rt})

			Expect(effect.Taken).To(Equal(taken))
			Expect(effect.Target).To(Equal(uint64(20)))
			Expect(effect.RegWrite).To(BeFalse())
		},
		Entry("beq equal", uint8(insts.OpBEQ), uint64(4), uint64(4), true),
		Entry("beq different", uint8(insts.OpBEQ), uint64(4), uint64(5), false),
		Entry("bne equal", uint8(insts.OpBNE), uint64(4), uint64(4), false),
		Entry("bne different", uint8(insts.OpBNE), uint64(4), uint64(5), true),
	)

	It("should jump without linking", func() {
		effect := run(insts.JType{Op: insts.OpJ, Addr: 0x10}, emu.Operands{PC: 8})

		Expect(effect.Taken).To(BeTrue())
		Expect(effect.Target).To(Equal(uint64(0x40)))
		Expect(effect.RegWrite).To(BeFalse())
	})

	It("should link the return address on jal", func() {
		effect := run(insts.JType{Op: insts.OpJAL, Addr: 0x10}, emu.Operands{PC: 8})

		Expect(effect.RegWrite).To(BeTrue())
		Expect(effect.Dest).To(Equal(emu.RA))
		Expect(effect.Value).To(Equal(uint64(12)))
	})

	It("should jump to rs and link into rd on jalr", func() {
		inst := insts.RTypeSpecial{Op: insts.OpSpecial, RS: 8, RD: 31, Funct: insts.FunctJALR}
		effect := run(inst, emu.Operands{PC: 0x20, RS: 0x100})

		Expect(effect.Target).To(Equal(uint64(0x100)))
		Expect(effect.Dest).To(Equal(emu.RA))
		Expect(effect.Value).To(Equal(uint64(0x24)))
	})

	DescribeTable("bc1t and bc1f",
		func(tf uint8, cc uint64, taken bool) {
			inst := insts.FpuBranchType{Op: insts.OpCOP1, BCC1: insts.SubBC, CC: 1, TF: tf, Offset: 5}
			effect := run(inst, emu.Operands{PC: 0, CC: cc})

			Expect(effect.Taken).To(Equal(taken))
			Expect(effect.Target).To(Equal(uint64(24)))
		},
		Entry("bc1t set", uint8(1), uint64(0x2), true),
		Entry("bc1t clear", uint8(1), uint64(0x1), false),
		Entry("bc1f set", uint8(0), uint64(0x2), false),
		Entry("bc1f clear", uint8(0), uint64(0x0), true),
	)

	It("should halt on syscall", func() {
		effect := run(insts.SyscallType{Op: insts.OpSpecial, Funct: insts.FunctSYSCALL}, emu.Operands{})

		Expect(effect.Halt).To(BeTrue())
	})
})
