package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swim/insts"
	"github.com/sarchlab/swim/timing/latency"
)

var _ = Describe("Latency", func() {
	var (
		table   *latency.Table
		decoder *insts.Decoder
	)

	decode := func(word uint32) insts.Instruction {
		inst, err := decoder.Decode(word)
		Expect(err).NotTo(HaveOccurred())
		return inst
	}

	BeforeEach(func() {
		table = latency.NewTable()
		decoder = insts.NewDecoder()
	})

	Describe("Default Timing Values", func() {
		It("should have correct ALU latency", func() {
			Expect(table.Config().ALULatency).To(Equal(uint64(1)))
		})

		It("should have correct load latency", func() {
			Expect(table.Config().LoadLatency).To(Equal(uint64(2)))
		})

		It("should have correct divide latency range", func() {
			Expect(table.Config().DivideLatencyMin).To(Equal(uint64(20)))
			Expect(table.Config().DivideLatencyMax).To(Equal(uint64(36)))
		})
	})

	DescribeTable("instruction latencies",
		func(word uint32, class latency.Class, cycles uint64) {
			inst := decode(word)

			Expect(latency.Classify(inst)).To(Equal(class))
			Expect(table.GetLatency(inst)).To(Equal(cycles))
		},
		// add $t1, $t1, $t1
		Entry("add", uint32(0x01294820), latency.ClassALU, uint64(1)),
		// addi $t0, $t1, -1
		Entry("addi", uint32(0x2128FFFF), latency.ClassALU, uint64(1)),
		// mul $t0, $t1, $t2
		Entry("mul", uint32(0x012A4098), latency.ClassMultiply, uint64(5)),
		// div $t0, $t1, $t2
		Entry("div", uint32(0x012A409A), latency.ClassDivide, uint64(20)),
		// ddiv $t0, $t1, $t2
		Entry("ddiv", uint32(0x012A409E), latency.ClassDivideDouble, uint64(36)),
		// lw $t0, 4($sp)
		Entry("lw", uint32(0x8FA80004), latency.ClassLoad, uint64(2)),
		// sw $t0, 4($sp)
		Entry("sw", uint32(0xAFA80004), latency.ClassStore, uint64(1)),
		// swc1 $f2, 8($zero)
		Entry("swc1", uint32(0xE4020008), latency.ClassStore, uint64(1)),
		// j 0x40
		Entry("j", uint32(0x08000010), latency.ClassBranch, uint64(1)),
		// jalr $ra, $t0
		Entry("jalr", uint32(0x0100F809), latency.ClassBranch, uint64(1)),
		// bc1t 5
		Entry("bc1t", uint32(0x45010005), latency.ClassBranch, uint64(1)),
		// add.s $f0, $f1, $f2
		Entry("add.s", uint32(0x46020800), latency.ClassFPAdd, uint64(4)),
		// c.lt.s 2, $f1, $f2
		Entry("c.lt.s", uint32(0x46020A3C), latency.ClassFPAdd, uint64(4)),
		// mul.d $f0, $f1, $f2
		Entry("mul.d", uint32(0x46220802), latency.ClassFPMul, uint64(7)),
		// div.s $f0, $f1, $f2
		Entry("div.s", uint32(0x46020803), latency.ClassFPDiv, uint64(23)),
		// mtc1 $t0, $f1
		Entry("mtc1", uint32(0x44880800), latency.ClassMove, uint64(1)),
		Entry("syscall", uint32(0x0000000C), latency.ClassSyscall, uint64(1)),
	)

	Describe("Variable Latency", func() {
		It("should report the divide range", func() {
			div := decode(0x012A409A)

			Expect(table.GetMinLatency(div)).To(Equal(uint64(20)))
			Expect(table.GetMaxLatency(div)).To(Equal(uint64(36)))
		})

		It("should report fixed latency for other classes", func() {
			add := decode(0x01294820)

			Expect(table.GetMinLatency(add)).To(Equal(uint64(1)))
			Expect(table.GetMaxLatency(add)).To(Equal(uint64(1)))
		})
	})

	Describe("Instruction Type Detection", func() {
		It("should detect memory operations", func() {
			Expect(table.IsMemoryOp(decode(0x8FA80004))).To(BeTrue())
			Expect(table.IsMemoryOp(decode(0xE4020008))).To(BeTrue())
			Expect(table.IsMemoryOp(decode(0x01294820))).To(BeFalse())
		})

		It("should separate loads from stores", func() {
			lw := decode(0x8FA80004)
			sw := decode(0xAFA80004)

			Expect(table.IsLoadOp(lw)).To(BeTrue())
			Expect(table.IsLoadOp(sw)).To(BeFalse())
			Expect(table.IsStoreOp(sw)).To(BeTrue())
			Expect(table.IsStoreOp(lw)).To(BeFalse())
		})

		It("should detect branch operations", func() {
			Expect(table.IsBranchOp(decode(0x08000010))).To(BeTrue())
			Expect(table.IsBranchOp(decode(0x45010005))).To(BeTrue())
			Expect(table.IsBranchOp(decode(0x01294820))).To(BeFalse())
		})
	})

	Describe("Nil Instruction Handling", func() {
		It("should return 1 for nil instruction", func() {
			Expect(latency.Classify(nil)).To(Equal(latency.ClassUnknown))
			Expect(table.GetLatency(nil)).To(Equal(uint64(1)))
		})

		It("should return false for nil instruction memory check", func() {
			Expect(table.IsMemoryOp(nil)).To(BeFalse())
			Expect(table.IsLoadOp(nil)).To(BeFalse())
			Expect(table.IsStoreOp(nil)).To(BeFalse())
			Expect(table.IsBranchOp(nil)).To(BeFalse())
		})
	})

	It("should name classes", func() {
		Expect(latency.ClassFPDiv.String()).To(Equal("fp-div"))
		Expect(latency.Class(200).String()).To(Equal("unknown"))
	})

	Describe("Custom Configuration", func() {
		It("should use custom config values", func() {
			config := latency.DefaultTimingConfig()
			config.ALULatency = 2
			config.BranchLatency = 3
			config.LoadLatency = 8
			customTable := latency.NewTableWithConfig(config)

			Expect(customTable.GetLatency(decode(0x01294820))).To(Equal(uint64(2)))
			Expect(customTable.GetLatency(decode(0x8FA80004))).To(Equal(uint64(8)))
			Expect(customTable.GetLatency(decode(0x08000010))).To(Equal(uint64(3)))
		})
	})
})

var _ = Describe("TimingConfig", func() {
	Describe("Default Config", func() {
		It("should create valid default config", func() {
			config := latency.DefaultTimingConfig()
			Expect(config.Validate()).To(Succeed())
		})
	})

	Describe("Validation", func() {
		It("should reject zero ALU latency", func() {
			config := latency.DefaultTimingConfig()
			config.ALULatency = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("alu_latency")))
		})

		It("should reject zero floating-point latency", func() {
			config := latency.DefaultTimingConfig()
			config.FPDivLatency = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("fp_div_latency")))
		})

		It("should reject zero divide latency", func() {
			config := latency.DefaultTimingConfig()
			config.DivideLatencyMin = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject inverted divide latency range", func() {
			config := latency.DefaultTimingConfig()
			config.DivideLatencyMin = 40
			config.DivideLatencyMax = 10
			Expect(config.Validate()).To(HaveOccurred())
		})
	})

	Describe("Clone", func() {
		It("should create independent copy", func() {
			original := latency.DefaultTimingConfig()
			clone := original.Clone()

			clone.ALULatency = 100

			Expect(original.ALULatency).To(Equal(uint64(1)))
			Expect(clone.ALULatency).To(Equal(uint64(100)))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "latency-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := latency.DefaultTimingConfig()
			original.ALULatency = 5
			original.LoadLatency = 10

			path := filepath.Join(tempDir, "timing.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.ALULatency).To(Equal(uint64(5)))
			Expect(loaded.LoadLatency).To(Equal(uint64(10)))
		})

		It("should keep defaults for fields missing from the file", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"multiply_latency": 9}`), 0644)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.MultiplyLatency).To(Equal(uint64(9)))
			Expect(loaded.FPAddLatency).To(Equal(uint64(4)))
		})

		It("should return error for non-existent file", func() {
			_, err := latency.LoadConfig("/nonexistent/path/timing.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = latency.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
