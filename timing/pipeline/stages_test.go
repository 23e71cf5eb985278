package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swim/emu"
	"github.com/sarchlab/swim/insts"
	"github.com/sarchlab/swim/timing/pipeline"
)

var _ = Describe("Pipeline Stages", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		state   pipeline.State
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		memory = emu.NewMemory()
		state = pipeline.State{}
	})

	It("should name and order stages", func() {
		Expect(pipeline.InstructionFetch.String()).To(Equal("InstructionFetch"))
		Expect(pipeline.WriteBack.String()).To(Equal("WriteBack"))
		Expect(pipeline.Execute.Next()).To(Equal(pipeline.Memory))
		Expect(pipeline.WriteBack.Next()).To(Equal(pipeline.InstructionFetch))
	})

	Describe("FetchStage", func() {
		It("should fetch the word at pc and start a fresh record", func() {
			Expect(memory.StoreWord(0x10, addT1)).To(Succeed())
			state.ALUResult = 99

			err := pipeline.NewFetchStage(memory).Fetch(0x10, &state)

			Expect(err).NotTo(HaveOccurred())
			Expect(state.Valid).To(BeTrue())
			Expect(state.Instruction).To(Equal(uint32(addT1)))
			Expect(state.PCPlus4).To(Equal(uint64(0x14)))
			Expect(state.ALUResult).To(BeZero())
		})

		It("should fail on unaligned pc", func() {
			err := pipeline.NewFetchStage(memory).Fetch(0x11, &state)

			Expect(err).To(MatchError(emu.ErrMisaligned))
		})
	})

	Describe("DecodeStage", func() {
		It("should split fields and read operands", func() {
			// addi $t0, $t1, -1
			state.Instruction = 0x2128FFFF
			state.PC = 8
			regFile.Write(emu.T1, 40)

			isSyscall, err := pipeline.NewDecodeStage(regFile).Decode(&state)

			Expect(err).NotTo(HaveOccurred())
			Expect(isSyscall).To(BeFalse())
			Expect(state.Inst).To(Equal(insts.IType{Op: insts.OpADDI, RS: 9, RT: 8, Immediate: 0xFFFF}))
			Expect(state.RS).To(Equal(uint8(9)))
			Expect(state.RT).To(Equal(uint8(8)))
			Expect(state.ReadData1).To(Equal(uint64(40)))
			Expect(state.SignExtend).To(Equal(uint64(0xFFFF_FFFF_FFFF_FFFF)))
			Expect(state.RelativePCBranch).To(Equal(uint64(8)))
		})

		It("should flag syscalls", func() {
			state.Instruction = syscallWord

			isSyscall, err := pipeline.NewDecodeStage(regFile).Decode(&state)

			Expect(err).NotTo(HaveOccurred())
			Expect(isSyscall).To(BeTrue())
		})
	})

	Describe("ExecuteStage", func() {
		It("should record the effect and next pc", func() {
			state.PC = 0
			state.PCPlus4 = 4
			state.NewPC = 4
			state.Inst = insts.JType{Op: insts.OpJ, Addr: 0x10}

			Expect(pipeline.NewExecuteStage().Execute(&state)).To(Succeed())

			Expect(state.Effect.Taken).To(BeTrue())
			Expect(state.NewPC).To(Equal(uint64(0x40)))
		})

		It("should report unimplemented instructions", func() {
			state.Inst = insts.RType{Funct: 0x3F}

			Expect(pipeline.NewExecuteStage().Execute(&state)).To(MatchError(emu.ErrUnimplemented))
		})
	})

	Describe("MemoryStage", func() {
		It("should load into the effect value", func() {
			Expect(memory.StoreWord(0x20, 0x1234)).To(Succeed())
			state.Effect = emu.Effect{MemRead: true, Address: 0x20, RegWrite: true, Dest: emu.T0}

			latency, err := pipeline.NewMemoryStage(memory, nil).Access(&state)

			Expect(err).NotTo(HaveOccurred())
			Expect(latency).To(BeZero())
			Expect(state.MemoryData).To(Equal(uint64(0x1234)))
			Expect(state.Effect.Value).To(Equal(uint64(0x1234)))
			Expect(state.DataResult).To(Equal(uint64(0x1234)))
		})

		It("should store the effect's value", func() {
			state.Effect = emu.Effect{MemWrite: true, Address: 0x20, StoreValue: 0xBEEF}

			_, err := pipeline.NewMemoryStage(memory, nil).Access(&state)

			Expect(err).NotTo(HaveOccurred())
			Expect(memory.LoadWord(0x20)).To(Equal(uint32(0xBEEF)))
		})
	})

	Describe("WritebackStage", func() {
		It("should write the destination register", func() {
			state.Effect = emu.Effect{RegWrite: true, Dest: emu.S1, Value: 77}

			pipeline.NewWritebackStage(regFile).Writeback(&state)

			Expect(regFile.Read(emu.S1)).To(Equal(uint64(77)))
			Expect(state.RegisterWriteData).To(Equal(uint64(77)))
		})

		It("should skip suppressed results", func() {
			state.Effect = emu.Effect{Dest: emu.S1, Value: 77, Overflow: true}

			pipeline.NewWritebackStage(regFile).Writeback(&state)

			Expect(regFile.Read(emu.S1)).To(BeZero())
		})
	})
})
