package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swim/emu"
	"github.com/sarchlab/swim/insts"
)

func single(v float32) uint64 {
	return uint64(math.Float32bits(v))
}

func double(v float64) uint64 {
	return math.Float64bits(v)
}

var _ = Describe("FPU", func() {
	var engine *emu.Engine

	BeforeEach(func() {
		engine = emu.NewEngine()
	})

	run := func(inst insts.Instruction, ops emu.Operands) emu.Effect {
		effect, err := engine.Execute(inst, ops)
		Expect(err).NotTo(HaveOccurred())
		return effect
	}

	arith := func(fmt, function uint8) insts.FpuRType {
		return insts.FpuRType{Op: insts.OpCOP1, Fmt: fmt, FT: 2, FS: 1, FD: 0, Function: function}
	}

	compare := func(fmt, function, cc uint8) insts.FpuCompareType {
		return insts.FpuCompareType{Op: insts.OpCOP1, Fmt: fmt, FT: 2, FS: 1, CC: cc, Function: function}
	}

	DescribeTable("single-precision arithmetic",
		func(function uint8, a, b, want float32) {
			effect := run(arith(insts.FmtS, function), emu.Operands{FS: single(a), FT: single(b)})

			Expect(effect.Dest).To(Equal(emu.F0))
			Expect(effect.Value).To(Equal(single(want)))
		},
		Entry("add.s", uint8(insts.FpuFunctADD), float32(0.25), float32(0.5), float32(0.75)),
		Entry("sub.s", uint8(insts.FpuFunctSUB), float32(5.5), float32(2.25), float32(3.25)),
		Entry("mul.s", uint8(insts.FpuFunctMUL), float32(1.5), float32(4), float32(6)),
		Entry("div.s", uint8(insts.FpuFunctDIV), float32(3), float32(4), float32(0.75)),
	)

	DescribeTable("double-precision arithmetic",
		func(function uint8, a, b, want float64) {
			effect := run(arith(insts.FmtD, function), emu.Operands{FS: double(a), FT: double(b)})

			Expect(effect.Value).To(Equal(double(want)))
		},
		Entry("add.d", uint8(insts.FpuFunctADD), 123.125, 0.5, 123.625),
		Entry("sub.d", uint8(insts.FpuFunctSUB), 0.75, 0.5, 0.25),
		Entry("mul.d", uint8(insts.FpuFunctMUL), 2.5, -3.0, -7.5),
		Entry("div.d", uint8(insts.FpuFunctDIV), 1.0, 8.0, 0.125),
	)

	It("should ignore the upper bits of single-precision operands", func() {
		effect := run(arith(insts.FmtS, insts.FpuFunctADD),
			emu.Operands{FS: 0xDEAD_0000_0000_0000 | single(1), FT: single(2)})

		Expect(effect.Value).To(Equal(single(3)))
	})

	Describe("compares", func() {
		It("should set the selected condition bit", func() {
			effect := run(compare(insts.FmtS, insts.FpuFunctCLT, 2),
				emu.Operands{FS: single(1), FT: single(2), CC: 0x1})

			Expect(effect.Dest).To(Equal(emu.CC))
			Expect(effect.Value).To(Equal(uint64(0x5)))
			Expect(effect.ALUResult).To(Equal(uint64(1)))
		})

		It("should clear the selected condition bit", func() {
			effect := run(compare(insts.FmtD, insts.FpuFunctCEQ, 0),
				emu.Operands{FS: double(1), FT: double(2), CC: 0x3})

			Expect(effect.Value).To(Equal(uint64(0x2)))
		})

		DescribeTable("conditions",
			func(function uint8, a, b float64, want bool) {
				effect := run(compare(insts.FmtD, function, 0), emu.Operands{FS: double(a), FT: double(b)})

				Expect(effect.Value == 1).To(Equal(want))
			},
			Entry("c.eq equal", uint8(insts.FpuFunctCEQ), 2.0, 2.0, true),
			Entry("c.lt less", uint8(insts.FpuFunctCLT), 1.0, 2.0, true),
			Entry("c.lt equal", uint8(insts.FpuFunctCLT), 2.0, 2.0, false),
			Entry("c.le equal", uint8(insts.FpuFunctCLE), 2.0, 2.0, true),
			Entry("c.ngt less", uint8(insts.FpuFunctCNGT), 1.0, 2.0, true),
			Entry("c.ngt greater", uint8(insts.FpuFunctCNGT), 3.0, 2.0, false),
			Entry("c.nge less", uint8(insts.FpuFunctCNGE), 1.0, 2.0, true),
			Entry("c.nge equal", uint8(insts.FpuFunctCNGE), 2.0, 2.0, false),
			Entry("c.nge unordered", uint8(insts.FpuFunctCNGE), math.NaN(), 2.0, true),
		)
	})

	Describe("moves", func() {
		move := func(sub uint8) insts.FpuRegImmType {
			return insts.FpuRegImmType{Op: insts.OpCOP1, Sub: sub, RT: 8, FS: 3}
		}

		It("should move the low word to a floating-point register", func() {
			effect := run(move(insts.SubMT), emu.Operands{RT: 0xFFFF_FFFF_1234_5678})

			Expect(effect.Dest).To(Equal(emu.F3))
			Expect(effect.Value).To(Equal(uint64(0x1234_5678)))
		})

		It("should move a doubleword to a floating-point register", func() {
			effect := run(move(insts.SubDMT), emu.Operands{RT: 0xFFFF_FFFF_1234_5678})

			Expect(effect.Value).To(Equal(uint64(0xFFFF_FFFF_1234_5678)))
		})

		It("should sign-extend the low word into a general-purpose register", func() {
			effect := run(move(insts.SubMF), emu.Operands{FS: 0x1_8000_0000})

			Expect(effect.Dest).To(Equal(emu.T0))
			Expect(effect.Value).To(Equal(uint64(0xFFFF_FFFF_8000_0000)))
		})

		It("should move a doubleword to a general-purpose register", func() {
			effect := run(move(insts.SubDMF), emu.Operands{FS: double(-1.5)})

			Expect(effect.Value).To(Equal(double(-1.5)))
		})
	})
})
