// Package latency provides per-instruction-class cycle latencies used to
// estimate the cost of a simulated program.
//
// The values are configurable via TimingConfig.
package latency

import (
	"github.com/sarchlab/swim/insts"
)

// Class groups instructions that share an execution latency.
type Class uint8

// Instruction classes.
const (
	ClassUnknown Class = iota
	ClassALU
	ClassMultiply
	ClassDivide
	ClassDivideDouble
	ClassLoad
	ClassStore
	ClassBranch
	ClassFPAdd
	ClassFPMul
	ClassFPDiv
	ClassMove
	ClassSyscall
)

var classNames = [...]string{
	ClassUnknown:      "unknown",
	ClassALU:          "alu",
	ClassMultiply:     "multiply",
	ClassDivide:       "divide",
	ClassDivideDouble: "divide-double",
	ClassLoad:         "load",
	ClassStore:        "store",
	ClassBranch:       "branch",
	ClassFPAdd:        "fp-add",
	ClassFPMul:        "fp-mul",
	ClassFPDiv:        "fp-div",
	ClassMove:         "move",
	ClassSyscall:      "syscall",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// Classify returns the latency class of inst.
func Classify(inst insts.Instruction) Class {
	switch i := inst.(type) {
	case insts.RType:
		switch i.Funct {
		case insts.FunctSOP30, insts.FunctSOP34:
			return ClassMultiply
		case insts.FunctSOP32:
			return ClassDivide
		case insts.FunctSOP36:
			return ClassDivideDouble
		}
		return ClassALU
	case insts.RTypeSpecial, insts.JType, insts.FpuBranchType:
		return ClassBranch
	case insts.IType:
		switch i.Op {
		case insts.OpBEQ, insts.OpBNE:
			return ClassBranch
		case insts.OpLW:
			return ClassLoad
		case insts.OpSW:
			return ClassStore
		}
		return ClassALU
	case insts.SyscallType:
		return ClassSyscall
	case insts.FpuRType:
		switch i.Function {
		case insts.FpuFunctMUL:
			return ClassFPMul
		case insts.FpuFunctDIV:
			return ClassFPDiv
		}
		return ClassFPAdd
	case insts.FpuCompareType:
		return ClassFPAdd
	case insts.FpuIType:
		if i.Op == insts.OpLWC1 {
			return ClassLoad
		}
		return ClassStore
	case insts.FpuRegImmType:
		return ClassMove
	}
	return ClassUnknown
}

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given instruction.
func (t *Table) GetLatency(inst insts.Instruction) uint64 {
	return t.ClassLatency(Classify(inst))
}

// ClassLatency returns the latency in cycles of an instruction class.
func (t *Table) ClassLatency(class Class) uint64 {
	switch class {
	case ClassALU:
		return t.config.ALULatency
	case ClassMultiply:
		return t.config.MultiplyLatency
	case ClassDivide:
		return t.config.DivideLatencyMin
	case ClassDivideDouble:
		return t.config.DivideLatencyMax
	case ClassLoad:
		return t.config.LoadLatency
	case ClassStore:
		return t.config.StoreLatency
	case ClassBranch:
		return t.config.BranchLatency
	case ClassFPAdd:
		return t.config.FPAddLatency
	case ClassFPMul:
		return t.config.FPMulLatency
	case ClassFPDiv:
		return t.config.FPDivLatency
	case ClassMove:
		return t.config.MoveLatency
	case ClassSyscall:
		return t.config.SyscallLatency
	default:
		return 1
	}
}

// GetMinLatency returns the minimum execution latency for variable-latency operations.
func (t *Table) GetMinLatency(inst insts.Instruction) uint64 {
	switch Classify(inst) {
	case ClassDivide, ClassDivideDouble:
		return t.config.DivideLatencyMin
	}
	return t.GetLatency(inst)
}

// GetMaxLatency returns the maximum execution latency for variable-latency operations.
func (t *Table) GetMaxLatency(inst insts.Instruction) uint64 {
	switch Classify(inst) {
	case ClassDivide, ClassDivideDouble:
		return t.config.DivideLatencyMax
	}
	return t.GetLatency(inst)
}

// IsMemoryOp returns true if the instruction accesses memory.
func (t *Table) IsMemoryOp(inst insts.Instruction) bool {
	return t.IsLoadOp(inst) || t.IsStoreOp(inst)
}

// IsLoadOp returns true if the instruction is a load operation.
func (t *Table) IsLoadOp(inst insts.Instruction) bool {
	return Classify(inst) == ClassLoad
}

// IsStoreOp returns true if the instruction is a store operation.
func (t *Table) IsStoreOp(inst insts.Instruction) bool {
	return Classify(inst) == ClassStore
}

// IsBranchOp returns true if the instruction is a branch or jump.
func (t *Table) IsBranchOp(inst insts.Instruction) bool {
	return Classify(inst) == ClassBranch
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
