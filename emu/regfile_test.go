package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swim/emu"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	It("should start zeroed", func() {
		regFile.Each(func(_ emu.Register, value uint64) {
			Expect(value).To(BeZero())
		})
	})

	It("should discard writes to the zero register", func() {
		for _, v := range []uint64{1, 0xFFFF_FFFF_FFFF_FFFF, 1 << 63} {
			regFile.Write(emu.Zero, v)
			regFile.WriteGPR(0, v)
			Expect(regFile.Read(emu.Zero)).To(BeZero())
			Expect(regFile.ReadGPR(0)).To(BeZero())
		}
	})

	It("should share storage between index and name access", func() {
		regFile.WriteGPR(16, 42)
		Expect(regFile.Read(emu.S0)).To(Equal(uint64(42)))

		v, err := regFile.ReadByName("$S0")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint64(42)))

		Expect(regFile.WriteByName("t1", 7)).To(Succeed())
		Expect(regFile.ReadGPR(9)).To(Equal(uint64(7)))
	})

	It("should keep floating-point registers separate from general-purpose ones", func() {
		regFile.WriteFPR(3, 0x3F80_0000)
		Expect(regFile.ReadGPR(3)).To(BeZero())
		Expect(regFile.Read(emu.F3)).To(Equal(uint64(0x3F80_0000)))

		v, err := regFile.ReadByName("F3")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint64(0x3F80_0000)))
	})

	It("should address pc and cc by name", func() {
		Expect(regFile.WriteByName("PC", 0x40)).To(Succeed())
		Expect(regFile.PC()).To(Equal(uint64(0x40)))

		Expect(regFile.WriteByName("cc", 0b101)).To(Succeed())
		Expect(regFile.CC()).To(Equal(uint64(0b101)))
	})

	It("should reject unknown names", func() {
		_, err := regFile.ReadByName("$s9")
		Expect(errors.Is(err, emu.ErrUnknownRegister)).To(BeTrue())

		err = regFile.WriteByName("x0", 1)
		Expect(errors.Is(err, emu.ErrUnknownRegister)).To(BeTrue())
	})

	It("should traverse registers in index order", func() {
		var order []emu.Register
		regFile.Each(func(reg emu.Register, _ uint64) {
			order = append(order, reg)
		})

		Expect(order).To(HaveLen(int(emu.NumRegisters)))
		Expect(order[0]).To(Equal(emu.Zero))
		Expect(order[31]).To(Equal(emu.RA))
		Expect(order[32]).To(Equal(emu.CC))
		Expect(order[33]).To(Equal(emu.PC))
		Expect(order[34]).To(Equal(emu.F0))
	})

	It("should dump every register", func() {
		regFile.Write(emu.T0, 0xAB)
		dump := regFile.Dump()

		Expect(dump).To(ContainSubstring("$t0   = 0x00000000000000ab"))
		Expect(dump).To(ContainSubstring("$f31"))
		Expect(dump).To(ContainSubstring("$pc"))
	})

	It("should name registers", func() {
		Expect(emu.SP.String()).To(Equal("sp"))
		Expect(emu.F12.String()).To(Equal("f12"))
		Expect(emu.GPR(31)).To(Equal(emu.RA))
		Expect(emu.FPR(2)).To(Equal(emu.F2))
		Expect(emu.F2.IsFPR()).To(BeTrue())
		Expect(emu.CC.IsGPR()).To(BeFalse())
	})

	It("should zero everything on reset", func() {
		regFile.WriteGPR(16, 1)
		regFile.WriteFPR(1, 1)
		regFile.SetPC(8)

		regFile.Reset()

		regFile.Each(func(_ emu.Register, value uint64) {
			Expect(value).To(BeZero())
		})
	})
})
