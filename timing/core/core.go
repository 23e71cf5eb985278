// Package core provides a simulation session: an assembled program loaded
// into a datapath with its register file and memory.
package core

import (
	"fmt"

	"github.com/sarchlab/swim/asm"
	"github.com/sarchlab/swim/emu"
	"github.com/sarchlab/swim/timing/cache"
	"github.com/sarchlab/swim/timing/pipeline"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Loads and Stores count retired memory instructions.
	Loads  uint64
	Stores uint64
	// BranchesTaken counts redirected control transfers.
	BranchesTaken uint64
	// Faults counts suppressed overflows and divisions by zero.
	Faults uint64
	// DataCache holds L1D statistics when a data cache is configured.
	DataCache cache.Statistics
}

// CPI returns cycles per instruction.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Core owns one simulated MIPS64 machine.
type Core struct {
	datapath *pipeline.Datapath

	// Shared resources
	regFile *emu.RegFile
	memory  *emu.Memory

	program *asm.ProgramInfo
}

// NewCore creates a new Core with the given register file and memory.
func NewCore(regFile *emu.RegFile, memory *emu.Memory, opts ...pipeline.Option) *Core {
	return &Core{
		datapath: pipeline.NewDatapath(regFile, memory, opts...),
		regFile:  regFile,
		memory:   memory,
	}
}

// Assemble assembles source without loading it.
func (c *Core) Assemble(source string) (*asm.ProgramInfo, []uint32) {
	return asm.Assemble(source)
}

// Load resets the machine and places words at address 0. info may be nil
// for programs that were not assembled from source; a program with
// outstanding diagnostics is refused.
func (c *Core) Load(info *asm.ProgramInfo, words []uint32) error {
	if info != nil && info.HasErrors() {
		return fmt.Errorf("load: %w", info.Errors())
	}

	if err := c.datapath.Initialize(words); err != nil {
		return err
	}

	c.program = info
	return nil
}

// LoadSource assembles and loads source.
func (c *Core) LoadSource(source string) (*asm.ProgramInfo, error) {
	info, words := c.Assemble(source)
	return info, c.Load(info, words)
}

// Step executes the rest of the current instruction.
func (c *Core) Step() pipeline.StepResult {
	return c.datapath.ExecuteInstruction()
}

// StepStage executes one datapath stage.
func (c *Core) StepStage() pipeline.StepResult {
	return c.datapath.ExecuteStage()
}

// Run executes until halt, fault, or the instruction limit.
func (c *Core) Run() pipeline.StepResult {
	return c.datapath.Run()
}

// Halted returns true once a syscall has been decoded.
func (c *Core) Halted() bool {
	return c.datapath.IsHalted()
}

// PC returns the program counter.
func (c *Core) PC() uint64 {
	return c.regFile.PC()
}

// Program returns the loaded program, or nil when it was not assembled
// from source.
func (c *Core) Program() *asm.ProgramInfo {
	return c.program
}

// SourceLine returns the source line of the instruction at the PC.
func (c *Core) SourceLine() (int, bool) {
	if c.program == nil {
		return 0, false
	}
	return c.program.LineForAddress(c.regFile.PC())
}

// Datapath returns the underlying datapath.
func (c *Core) Datapath() *pipeline.Datapath {
	return c.datapath
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	s := c.datapath.Stats()
	return Stats{
		Cycles:        s.Cycles,
		Instructions:  s.Instructions,
		Loads:         s.Loads,
		Stores:        s.Stores,
		BranchesTaken: s.BranchesTaken,
		Faults:        s.Overflows + s.DivideByZeros,
		DataCache:     s.DataCache,
	}
}

// Reset clears the machine and forgets the loaded program.
func (c *Core) Reset() {
	c.datapath.Reset()
	c.program = nil
}
