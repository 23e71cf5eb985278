// Package pipeline implements the MIPS64 datapath state machine. Each
// instruction moves through fetch, decode, execute, memory and write-back;
// callers advance it a whole instruction or a single stage at a time.
package pipeline

import (
	"fmt"

	"github.com/sarchlab/swim/emu"
	"github.com/sarchlab/swim/insts"
	"github.com/sarchlab/swim/timing/cache"
)

// Stage names one step of the datapath.
type Stage uint8

// Datapath stages, in execution order.
const (
	InstructionFetch Stage = iota
	InstructionDecode
	Execute
	Memory
	WriteBack
)

var stageNames = [...]string{
	InstructionFetch:  "InstructionFetch",
	InstructionDecode: "InstructionDecode",
	Execute:           "Execute",
	Memory:            "Memory",
	WriteBack:         "WriteBack",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// Next returns the stage that follows s. WriteBack wraps to
// InstructionFetch.
func (s Stage) Next() Stage {
	if s >= WriteBack {
		return InstructionFetch
	}
	return s + 1
}

// FetchStage handles instruction fetch from memory.
type FetchStage struct {
	memory *emu.Memory
}

// NewFetchStage creates a new fetch stage.
func NewFetchStage(memory *emu.Memory) *FetchStage {
	return &FetchStage{memory: memory}
}

// Fetch reads the instruction at pc and starts a fresh scratch record.
func (s *FetchStage) Fetch(pc uint64, state *State) error {
	word, err := s.memory.LoadWord(pc)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	state.Clear()
	state.Valid = true
	state.PC = pc
	state.Instruction = word
	state.PCPlus4 = pc + 4
	state.NewPC = state.PCPlus4
	state.MemMux1ToMemMux2 = state.PCPlus4

	return nil
}

// DecodeStage handles instruction decode and register read.
type DecodeStage struct {
	regFile *emu.RegFile
	decoder *insts.Decoder
}

// NewDecodeStage creates a new decode stage.
func NewDecodeStage(regFile *emu.RegFile) *DecodeStage {
	return &DecodeStage{
		regFile: regFile,
		decoder: insts.NewDecoder(),
	}
}

// Decode decodes the fetched word and reads its operands. It reports
// whether the instruction is a syscall, which halts the datapath.
func (s *DecodeStage) Decode(state *State) (bool, error) {
	word := state.Instruction

	inst, err := s.decoder.Decode(word)
	if err != nil {
		return false, err
	}
	state.Inst = inst

	state.RS = uint8(word>>21) & 0x1F
	state.RT = uint8(word>>16) & 0x1F
	state.RD = uint8(word>>11) & 0x1F
	state.FS = state.RD
	state.Imm = uint16(word)
	state.Lower26 = word & 0x03FF_FFFF

	state.SignExtend = insts.SignExtend16(state.Imm)
	state.SignExtendShiftLeftBy2 = state.SignExtend << 2
	state.Lower26ShiftedLeftBy2 = state.Lower26 << 2
	state.RelativePCBranch = emu.RelativeTarget(state.PC, state.Imm)
	state.JumpAddress = emu.JumpTarget(state.PC, state.Lower26)

	// Register ports are wired to fixed fields; the ft field shares the
	// rt position.
	state.Ops = emu.Operands{
		PC: state.PC,
		RS: s.regFile.ReadGPR(state.RS),
		RT: s.regFile.ReadGPR(state.RT),
		FS: s.regFile.ReadFPR(state.FS),
		FT: s.regFile.ReadFPR(state.RT),
		CC: s.regFile.CC(),
	}
	state.ReadData1 = state.Ops.RS
	state.ReadData2 = state.Ops.RT

	_, isSyscall := inst.(insts.SyscallType)
	return isSyscall, nil
}

// ExecuteStage runs the Execution Engine and resolves the next PC.
type ExecuteStage struct {
	engine *emu.Engine
}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{engine: emu.NewEngine()}
}

// Execute computes the instruction's effect.
func (s *ExecuteStage) Execute(state *State) error {
	effect, err := s.engine.Execute(state.Inst, state.Ops)
	if err != nil {
		return err
	}

	state.Effect = effect
	state.ALUResult = effect.ALUResult
	state.WriteData = uint64(effect.StoreValue)

	if effect.Taken {
		state.NewPC = effect.Target
		if effect.Target == state.RelativePCBranch {
			state.MemMux1ToMemMux2 = state.RelativePCBranch
		}
	}

	return nil
}

// MemoryStage performs loads and stores, optionally through a data cache.
type MemoryStage struct {
	memory *emu.Memory
	dcache *cache.Cache
}

// NewMemoryStage creates a memory stage. dcache may be nil.
func NewMemoryStage(memory *emu.Memory, dcache *cache.Cache) *MemoryStage {
	return &MemoryStage{memory: memory, dcache: dcache}
}

// Access performs the memory operation requested by the effect. It
// returns the cache latency of the access, or 0 when no cache is
// involved.
func (s *MemoryStage) Access(state *State) (uint64, error) {
	var (
		latency uint64
		err     error
	)

	effect := &state.Effect
	switch {
	case effect.MemRead:
		var word uint32
		word, latency, err = s.load(effect.Address)
		if err != nil {
			return 0, err
		}
		state.MemoryData = uint64(word)
		effect.Value = state.MemoryData
	case effect.MemWrite:
		latency, err = s.store(effect.Address, effect.StoreValue)
		if err != nil {
			return 0, err
		}
	}

	state.DataResult = effect.Value

	return latency, nil
}

func (s *MemoryStage) load(addr uint64) (uint32, uint64, error) {
	if s.dcache == nil {
		word, err := s.memory.LoadWord(addr)
		return word, 0, err
	}

	if err := s.memory.CheckWord("load", addr); err != nil {
		return 0, 0, err
	}
	result := s.dcache.Read(addr, 4)
	return uint32(result.Data), result.Latency, nil
}

func (s *MemoryStage) store(addr uint64, value uint32) (uint64, error) {
	if s.dcache == nil {
		return 0, s.memory.StoreWord(addr, value)
	}

	if err := s.memory.CheckWord("store", addr); err != nil {
		return 0, err
	}
	result := s.dcache.Write(addr, 4, uint64(value))
	return result.Latency, nil
}

// CacheStats returns data cache statistics, or empty if no cache is used.
func (s *MemoryStage) CacheStats() cache.Statistics {
	if s.dcache == nil {
		return cache.Statistics{}
	}
	return s.dcache.Stats()
}

// Invalidate drops cached copies of size bytes starting at addr. Ranges
// wider than a word drop every line; the cache is write-through, so
// nothing is lost.
func (s *MemoryStage) Invalidate(addr, size uint64) {
	if s.dcache == nil {
		return
	}
	if size > 4 {
		s.dcache.Flush()
		return
	}
	s.dcache.Invalidate(addr)
}

// Reset invalidates the data cache.
func (s *MemoryStage) Reset() {
	if s.dcache != nil {
		s.dcache.Reset()
	}
}

// WritebackStage commits register results.
type WritebackStage struct {
	regFile *emu.RegFile
}

// NewWritebackStage creates a new writeback stage.
func NewWritebackStage(regFile *emu.RegFile) *WritebackStage {
	return &WritebackStage{regFile: regFile}
}

// Writeback writes the effect's destination register, if any.
func (s *WritebackStage) Writeback(state *State) {
	if !state.Effect.RegWrite {
		return
	}
	s.regFile.Write(state.Effect.Dest, state.Effect.Value)
	state.RegisterWriteData = state.Effect.Value
}
