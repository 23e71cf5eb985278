package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swim/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder()
		Expect(decoder).ToNot(BeNil())
	})

	It("should name every format", func() {
		Expect(insts.RType{}.Format()).To(Equal("RType"))
		Expect(insts.FpuBranchType{}.Format()).To(Equal("FpuBranchType"))
	})

	It("should sign-extend 16-bit immediates", func() {
		Expect(insts.SignExtend16(0x7FFF)).To(Equal(uint64(0x7FFF)))
		Expect(insts.SignExtend16(0x8000)).To(Equal(uint64(0xFFFF_FFFF_FFFF_8000)))
	})

	It("should sign-extend 32-bit values", func() {
		Expect(insts.SignExtend32(0x1_7FFF_FFFF)).To(Equal(uint64(0x7FFF_FFFF)))
		Expect(insts.SignExtend32(0x8000_0000)).To(Equal(uint64(0xFFFF_FFFF_8000_0000)))
	})

	It("should name general-purpose registers by convention", func() {
		Expect(insts.GPRNames[0]).To(Equal("zero"))
		Expect(insts.GPRNames[29]).To(Equal("sp"))
		Expect(insts.GPRNames[31]).To(Equal("ra"))
	})
})
