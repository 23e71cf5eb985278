package insts_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("SPECIAL", func() {
		// add $t1, $t1, $t1 -> 0x01294820
		It("should decode add as RType", func() {
			inst, err := decoder.Decode(0x01294820)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.RType{
				Op: insts.OpSpecial, RS: 9, RT: 9, RD: 9, Shamt: 0, Funct: insts.FunctADD,
			}))
		})

		// sub $s2, $s3, $s2 -> 0x02729022
		It("should decode sub", func() {
			inst, err := decoder.Decode(0x02729022)

			Expect(err).NotTo(HaveOccurred())
			r := inst.(insts.RType)
			Expect(r.RS).To(Equal(uint8(19)))
			Expect(r.RT).To(Equal(uint8(18)))
			Expect(r.RD).To(Equal(uint8(18)))
			Expect(r.Funct).To(Equal(uint8(insts.FunctSUB)))
		})

		// mul $t0, $t1, $t2 -> 0x012A4098 (SOP30, shamt 2)
		It("should decode mul with its shamt", func() {
			inst, err := decoder.Decode(0x012A4098)

			Expect(err).NotTo(HaveOccurred())
			r := inst.(insts.RType)
			Expect(r.Shamt).To(Equal(uint8(insts.ShamtMulDiv)))
			Expect(r.Funct).To(Equal(uint8(insts.FunctSOP30)))
		})

		It("should decode syscall as SyscallType", func() {
			inst, err := decoder.Decode(0x0000000C)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.SyscallType{Op: 0, Code: 0, Funct: insts.FunctSYSCALL}))
		})

		It("should extract the syscall code", func() {
			inst, err := decoder.Decode(0x03FFFFCC)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.(insts.SyscallType).Code).To(Equal(uint32(0xFFFFF)))
		})

		// jalr $ra, $t0 -> 0x0100F809
		It("should decode jalr as RTypeSpecial", func() {
			inst, err := decoder.Decode(0x0100F809)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.RTypeSpecial{
				Op: 0, RS: 8, RT: 0, RD: 31, Shamt: 0, Funct: insts.FunctJALR,
			}))
		})

		It("should reject an unsupported function", func() {
			_, err := decoder.Decode(0x00000001)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("function"))
			Expect(errors.Is(err, insts.ErrUnsupported)).To(BeTrue())
		})

		It("should reject muh (SOP30 with shamt 3)", func() {
			_, err := decoder.Decode(0x012A40D8)

			var decodeErr *insts.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.Field).To(Equal("shamt"))
			Expect(decodeErr.Value).To(Equal(uint32(3)))
		})
	})

	Describe("Immediate formats", func() {
		// addi $t0, $t1, -1 -> 0x2128FFFF
		It("should decode addi", func() {
			inst, err := decoder.Decode(0x2128FFFF)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.IType{
				Op: insts.OpADDI, RS: 9, RT: 8, Immediate: 0xFFFF,
			}))
		})

		// lui $t0, 0xaaaa -> 0x3C08AAAA
		It("should decode lui as aui with rs zero", func() {
			inst, err := decoder.Decode(0x3C08AAAA)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.IType{
				Op: insts.OpAUI, RS: 0, RT: 8, Immediate: 0xAAAA,
			}))
		})

		// lw $t0, 4($sp) -> 0x8FA80004
		It("should decode lw", func() {
			inst, err := decoder.Decode(0x8FA80004)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.IType{
				Op: insts.OpLW, RS: 29, RT: 8, Immediate: 4,
			}))
		})

		// dahi $a0, 1 -> 0x04860001
		It("should decode dahi from REGIMM", func() {
			inst, err := decoder.Decode(0x04860001)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.IType{
				Op: insts.OpRegImm, RS: 4, RT: insts.RegImmDAHI, Immediate: 1,
			}))
		})

		It("should reject an unsupported REGIMM sub code", func() {
			_, err := decoder.Decode(0x04000000)

			Expect(err).To(MatchError(ContainSubstring("REGIMM sub code")))
		})
	})

	Describe("Jumps", func() {
		It("should decode j", func() {
			inst, err := decoder.Decode(0x08000010)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.JType{Op: insts.OpJ, Addr: 0x10}))
		})

		It("should decode jal with a full 26-bit target", func() {
			inst, err := decoder.Decode(0x0FFFFFFF)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.JType{Op: insts.OpJAL, Addr: 0x03FFFFFF}))
		})
	})

	Describe("COP1", func() {
		// add.s $f0, $f1, $f2 -> 0x46020800
		It("should decode add.s as FpuRType", func() {
			inst, err := decoder.Decode(0x46020800)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.FpuRType{
				Op: insts.OpCOP1, Fmt: insts.FmtS, FT: 2, FS: 1, FD: 0, Function: insts.FpuFunctADD,
			}))
		})

		// add.d $f4, $f6, $f8 -> 0x46283100
		It("should decode add.d", func() {
			inst, err := decoder.Decode(0x46283100)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.FpuRType{
				Op: insts.OpCOP1, Fmt: insts.FmtD, FT: 8, FS: 6, FD: 4, Function: insts.FpuFunctADD,
			}))
		})

		// c.lt.s 2, $f1, $f2 -> 0x46020A3C
		It("should decode a compare with its condition code", func() {
			inst, err := decoder.Decode(0x46020A3C)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.FpuCompareType{
				Op: insts.OpCOP1, Fmt: insts.FmtS, FT: 2, FS: 1, CC: 2, Function: insts.FpuFunctCLT,
			}))
		})

		// mtc1 $t0, $f1 -> 0x44880800
		It("should decode mtc1 as FpuRegImmType", func() {
			inst, err := decoder.Decode(0x44880800)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.FpuRegImmType{
				Op: insts.OpCOP1, Sub: insts.SubMT, RT: 8, FS: 1,
			}))
		})

		// bc1t 5 -> 0x45010005
		It("should decode bc1t as FpuBranchType", func() {
			inst, err := decoder.Decode(0x45010005)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.FpuBranchType{
				Op: insts.OpCOP1, BCC1: insts.SubBC, CC: 0, ND: 0, TF: 1, Offset: 5,
			}))
		})

		// swc1 $f2, 8($zero) -> 0xE4020008
		It("should decode swc1 as FpuIType", func() {
			inst, err := decoder.Decode(0xE4020008)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.FpuIType{
				Op: insts.OpSWC1, Base: 0, FT: 2, Offset: 8,
			}))
		})

		It("should reject an unsupported sub code", func() {
			_, err := decoder.Decode(0x44400000)

			Expect(err).To(MatchError(ContainSubstring("sub code")))
		})

		It("should reject an unsupported function", func() {
			_, err := decoder.Decode(0x46000005)

			Expect(err).To(MatchError(ContainSubstring("function")))
		})
	})

	Describe("Unsupported opcodes", func() {
		It("should name the opcode", func() {
			inst, err := decoder.Decode(0xFC000000)

			Expect(inst).To(BeNil())
			Expect(err).To(MatchError("decode 0xfc000000: unsupported opcode 0x3f"))
		})

		It("should never panic on arbitrary words", func() {
			for word := uint32(0); word < 0xFFFFFFFF-0x00FFFFFF; word += 0x00FFFFFF {
				Expect(func() { _, _ = decoder.Decode(word) }).NotTo(Panic())
			}
		})
	})
})
