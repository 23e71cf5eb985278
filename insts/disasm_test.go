package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swim/insts"
)

var _ = Describe("Disassemble", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	DescribeTable("should render assembly text",
		func(word uint32, text string) {
			inst, err := decoder.Decode(word)
			Expect(err).NotTo(HaveOccurred())
			Expect(insts.Disassemble(inst)).To(Equal(text))
		},
		Entry("nop", uint32(0x00000000), "nop"),
		Entry("add", uint32(0x01294820), "add $t1, $t1, $t1"),
		Entry("sub", uint32(0x02729022), "sub $s2, $s3, $s2"),
		Entry("mul", uint32(0x012A4098), "mul $t0, $t1, $t2"),
		Entry("syscall", uint32(0x0000000C), "syscall"),
		Entry("jalr", uint32(0x0100F809), "jalr $ra, $t0"),
		Entry("addi", uint32(0x2128FFFF), "addi $t0, $t1, -1"),
		Entry("lui", uint32(0x3C08AAAA), "lui $t0, 0xaaaa"),
		Entry("lw", uint32(0x8FA80004), "lw $t0, 4($sp)"),
		Entry("dahi", uint32(0x04860001), "dahi $a0, 1"),
		Entry("j", uint32(0x08000010), "j 0x40"),
		Entry("add.s", uint32(0x46020800), "add.s $f0, $f1, $f2"),
		Entry("add.d", uint32(0x46283100), "add.d $f4, $f6, $f8"),
		Entry("c.lt.s", uint32(0x46020A3C), "c.lt.s 2, $f1, $f2"),
		Entry("mtc1", uint32(0x44880800), "mtc1 $t0, $f1"),
		Entry("bc1t", uint32(0x45010005), "bc1t 5"),
		Entry("swc1", uint32(0xE4020008), "swc1 $f2, 8($zero)"),
	)

	It("should report unknown for field combinations outside the set", func() {
		Expect(insts.Mnemonic(insts.RType{Funct: 0x3F})).To(Equal("unknown"))
	})

	It("should distinguish aui from lui", func() {
		inst := insts.IType{Op: insts.OpAUI, RS: 9, RT: 8, Immediate: 0x10}
		Expect(insts.Disassemble(inst)).To(Equal("aui $t0, $t1, 0x10"))
	})
})
