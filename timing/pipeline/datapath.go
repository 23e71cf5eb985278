package pipeline

import (
	"errors"
	"fmt"

	"github.com/sarchlab/swim/emu"
	"github.com/sarchlab/swim/insts"
	"github.com/sarchlab/swim/timing/cache"
	"github.com/sarchlab/swim/timing/latency"
	"github.com/sarchlab/swim/translate"
)

var f = translate.From

// ErrInstructionLimit is returned by Run when the configured instruction
// limit is reached before the program halts.
var ErrInstructionLimit = errors.New(f("instruction limit reached"))

// Statistics holds datapath performance statistics.
type Statistics struct {
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Cycles is the estimated cycle count from the latency table and the
	// data cache.
	Cycles uint64
	// Overflows counts signed arithmetic results suppressed by overflow.
	Overflows uint64
	// DivideByZeros counts divisions by zero.
	DivideByZeros uint64
	// Loads and Stores count memory accesses.
	Loads  uint64
	Stores uint64
	// BranchesTaken counts branches and jumps that redirected the PC.
	BranchesTaken uint64
	// DataCache holds data cache statistics when a cache is configured.
	DataCache cache.Statistics
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// StepResult reports the outcome of ExecuteStage, ExecuteInstruction or
// Run.
type StepResult struct {
	// Stage is the last stage executed.
	Stage Stage
	// PC is the address of the instruction in flight.
	PC uint64
	// Inst is the decoded instruction, nil before decode.
	Inst insts.Instruction
	// Completed is true when the instruction retired.
	Completed bool
	// Cycles charged to the instruction when it retired.
	Cycles uint64
	// Halted is true once a syscall has been decoded.
	Halted bool
	// Err is a fetch, decode, execution or memory fault.
	Err error
}

// Option is a functional option for configuring the Datapath.
type Option func(*Datapath)

// WithLatencyTable sets the latency table used for cycle estimates.
func WithLatencyTable(table *latency.Table) Option {
	return func(d *Datapath) {
		d.latencyTable = table
	}
}

// WithDataCache places an L1 data cache in front of memory. The cache is
// forced to write-through so memory always holds the architectural state.
// Words written to memory outside the datapath invalidate the cached copy.
func WithDataCache(config cache.Config) Option {
	return func(d *Datapath) {
		config.WriteThrough = true
		backing := cache.NewMemoryBacking(d.memory)
		d.memoryStage = NewMemoryStage(d.memory, cache.New(config, backing))
		d.memory.Observe(d.memoryStage.Invalidate)
	}
}

// WithMaxInstructions bounds Run. Zero means no limit.
func WithMaxInstructions(n uint64) Option {
	return func(d *Datapath) {
		d.maxInstructions = n
	}
}

// Datapath executes MIPS64 instructions one stage at a time.
type Datapath struct {
	regFile *emu.RegFile
	memory  *emu.Memory

	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage

	latencyTable    *latency.Table
	maxInstructions uint64

	state  State
	stage  Stage
	halted bool
	stats  Statistics
}

// NewDatapath creates a datapath over the given register file and memory.
func NewDatapath(regFile *emu.RegFile, memory *emu.Memory, opts ...Option) *Datapath {
	d := &Datapath{
		regFile:        regFile,
		memory:         memory,
		fetchStage:     NewFetchStage(memory),
		decodeStage:    NewDecodeStage(regFile),
		executeStage:   NewExecuteStage(),
		memoryStage:    NewMemoryStage(memory, nil),
		writebackStage: NewWritebackStage(regFile),
		latencyTable:   latency.NewTable(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Initialize resets the datapath and loads words into memory from address
// 0. The PC starts at 0.
func (d *Datapath) Initialize(words []uint32) error {
	d.Reset()
	if err := d.memory.StoreWords(words); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}

// Reset zeroes the register file, memory, scratch state and statistics,
// and returns to InstructionFetch.
func (d *Datapath) Reset() {
	d.regFile.Reset()
	d.memory.Reset()
	d.memoryStage.Reset()
	d.state.Clear()
	d.stage = InstructionFetch
	d.halted = false
	d.stats = Statistics{}
}

// IsHalted returns true once a syscall has been decoded.
func (d *Datapath) IsHalted() bool {
	return d.halted
}

// CurrentStage returns the stage the next ExecuteStage call will run.
func (d *Datapath) CurrentStage() Stage {
	return d.stage
}

// State returns the scratch record of the instruction in flight.
func (d *Datapath) State() State {
	return d.state
}

// RegFile returns the register file.
func (d *Datapath) RegFile() *emu.RegFile {
	return d.regFile
}

// Memory returns the data memory.
func (d *Datapath) Memory() *emu.Memory {
	return d.memory
}

// Stats returns datapath statistics.
func (d *Datapath) Stats() Statistics {
	stats := d.stats
	stats.DataCache = d.memoryStage.CacheStats()
	return stats
}

// LatencyTable returns the latency table.
func (d *Datapath) LatencyTable() *latency.Table {
	return d.latencyTable
}

// ExecuteStage runs the current stage and advances the stage marker. Once
// halted it does nothing and reports Halted.
func (d *Datapath) ExecuteStage() StepResult {
	if d.halted {
		return StepResult{Stage: d.stage, PC: d.state.PC, Inst: d.state.Inst, Halted: true}
	}

	stage := d.stage
	err := d.runStage(stage)

	result := StepResult{Stage: stage, PC: d.state.PC, Inst: d.state.Inst}
	switch {
	case err != nil:
		if stage == InstructionFetch {
			result.PC, result.Inst = d.regFile.PC(), nil
		}
		d.abort(stage)
		result.Err = err
	case d.halted:
		result.Halted = true
		result.Completed = true
		result.Cycles = d.state.Cycles
	case stage == WriteBack:
		d.retire()
		d.stage = InstructionFetch
		result.Completed = true
		result.Cycles = d.state.Cycles
	default:
		d.stage = stage.Next()
	}

	return result
}

// ExecuteInstruction runs the remaining stages of the current instruction.
func (d *Datapath) ExecuteInstruction() StepResult {
	for {
		result := d.ExecuteStage()
		if result.Err != nil || result.Halted || result.Completed {
			return result
		}
	}
}

// Run executes instructions until the program halts, faults, or reaches
// the instruction limit.
func (d *Datapath) Run() StepResult {
	var result StepResult
	for !d.halted {
		if d.maxInstructions > 0 && d.stats.Instructions >= d.maxInstructions {
			result.Err = fmt.Errorf("%w: %v", ErrInstructionLimit, d.maxInstructions)
			return result
		}

		result = d.ExecuteInstruction()
		if result.Err != nil {
			return result
		}
	}

	result.Halted = true
	return result
}

func (d *Datapath) runStage(stage Stage) error {
	switch stage {
	case InstructionFetch:
		if err := d.fetchStage.Fetch(d.regFile.PC(), &d.state); err != nil {
			return err
		}
		d.regFile.SetPC(d.state.PCPlus4)
	case InstructionDecode:
		isSyscall, err := d.decodeStage.Decode(&d.state)
		if err != nil {
			return err
		}
		if isSyscall {
			d.halt()
		}
	case Execute:
		if err := d.executeStage.Execute(&d.state); err != nil {
			return err
		}
		d.state.Cycles = d.latencyTable.GetLatency(d.state.Inst)
	case Memory:
		cycles, err := d.memoryStage.Access(&d.state)
		if err != nil {
			return err
		}
		if cycles > 0 {
			d.state.Cycles = cycles
		}
		if d.state.Effect.Taken {
			d.regFile.SetPC(d.state.NewPC)
		}
	case WriteBack:
		d.writebackStage.Writeback(&d.state)
	}
	return nil
}

// halt retires the syscall and enters the absorbing halted state.
func (d *Datapath) halt() {
	d.halted = true
	d.state.Cycles = d.latencyTable.GetLatency(d.state.Inst)
	d.retire()
	d.stage = InstructionFetch
}

// abort abandons the instruction in flight. The PC is restored so the
// faulting instruction is fetched again on the next call.
func (d *Datapath) abort(stage Stage) {
	if stage != InstructionFetch {
		d.regFile.SetPC(d.state.PC)
	}
	d.stage = InstructionFetch
}

func (d *Datapath) retire() {
	effect := d.state.Effect

	d.stats.Instructions++
	d.stats.Cycles += d.state.Cycles
	if effect.Overflow {
		d.stats.Overflows++
	}
	if effect.DivideByZero {
		d.stats.DivideByZeros++
	}
	if effect.MemRead {
		d.stats.Loads++
	}
	if effect.MemWrite {
		d.stats.Stores++
	}
	if effect.Taken {
		d.stats.BranchesTaken++
	}
}
