package pipeline

import (
	"github.com/sarchlab/swim/emu"
	"github.com/sarchlab/swim/insts"
)

// State is the scratch record for the instruction in flight. It is rebuilt
// at every instruction fetch; only the stage marker held by the Datapath
// survives between single-stage calls.
type State struct {
	// Valid indicates the record holds a fetched instruction.
	Valid bool

	// PC is the address of the instruction.
	PC uint64

	// Instruction is the raw 32-bit instruction word.
	Instruction uint32

	// Inst is the decoded instruction.
	Inst insts.Instruction

	// Instruction fields as wired out of the instruction register.
	RS      uint8
	RT      uint8
	RD      uint8
	FS      uint8
	Imm     uint16
	Lower26 uint32

	// Ops holds every register value the instruction may read.
	Ops emu.Operands

	// ReadData1 and ReadData2 are the rs and rt values.
	ReadData1 uint64
	ReadData2 uint64

	// Effect is the Execution Engine's output.
	Effect emu.Effect

	// Immediate paths.
	SignExtend             uint64
	SignExtendShiftLeftBy2 uint64
	Lower26ShiftedLeftBy2  uint32

	// PC paths.
	PCPlus4          uint64
	RelativePCBranch uint64
	JumpAddress      uint64
	MemMux1ToMemMux2 uint64
	NewPC            uint64

	// ALUResult is the main ALU output.
	ALUResult uint64

	// MemoryData is the word returned by a load.
	MemoryData uint64

	// WriteData is the value presented to memory on a store.
	WriteData uint64

	// DataResult is the value selected for write-back, and
	// RegisterWriteData the value actually written.
	DataResult        uint64
	RegisterWriteData uint64

	// Cycles charged to the instruction so far.
	Cycles uint64
}

// Clear resets the record to its empty state.
func (s *State) Clear() {
	*s = State{}
}
