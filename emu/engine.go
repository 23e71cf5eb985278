package emu

import (
	"fmt"

	"github.com/sarchlab/swim/insts"
)

// Operands holds the register values an instruction reads.
type Operands struct {
	// PC is the address of the instruction.
	PC uint64

	// RS and RT are the general-purpose source operands. For
	// floating-point loads and stores RS holds the base register.
	RS uint64
	RT uint64

	// FS and FT are the floating-point source operands.
	FS uint64
	FT uint64

	// CC is the condition-code word.
	CC uint64
}

// Effect describes the architectural changes one instruction produces.
// The Execution Engine computes it; the datapath applies it.
type Effect struct {
	// ALUResult is the main ALU output: the arithmetic result, the
	// effective address of a memory access, or a jump target.
	ALUResult uint64

	// RegWrite requests Dest <- Value in the write-back stage.
	RegWrite bool
	Dest     Register
	Value    uint64

	// MemRead loads the word at Address into Dest. MemWrite stores
	// StoreValue at Address.
	MemRead    bool
	MemWrite   bool
	Address    uint64
	StoreValue uint32

	// Taken redirects the program counter to Target.
	Taken  bool
	Target uint64

	// Halt stops the datapath.
	Halt bool

	// Overflow and DivideByZero flag signed-arithmetic faults that were
	// suppressed by leaving the destination unmodified.
	Overflow     bool
	DivideByZero bool
}

// Engine computes instruction semantics without touching architectural
// state.
type Engine struct {
	alu        *ALU
	fpu        *FPU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit
}

// NewEngine creates an Execution Engine.
func NewEngine() *Engine {
	return &Engine{
		alu:        NewALU(),
		fpu:        NewFPU(),
		lsu:        NewLoadStoreUnit(),
		branchUnit: NewBranchUnit(),
	}
}

// Execute computes the effect of inst given its operand values.
func (e *Engine) Execute(inst insts.Instruction, ops Operands) (Effect, error) {
	var (
		effect Effect
		ok     bool
	)

	switch i := inst.(type) {
	case insts.RType:
		effect, ok = e.alu.ExecuteR(i, ops)
	case insts.RTypeSpecial:
		effect, ok = e.branchUnit.JALR(i, ops)
	case insts.IType:
		switch i.Op {
		case insts.OpBEQ, insts.OpBNE:
			effect, ok = e.branchUnit.Branch(i, ops)
		case insts.OpLW, insts.OpSW:
			effect, ok = e.lsu.Word(i, ops)
		default:
			effect, ok = e.alu.ExecuteI(i, ops)
		}
	case insts.JType:
		effect, ok = e.branchUnit.Jump(i, ops)
	case insts.SyscallType:
		effect, ok = Effect{Halt: true}, true
	case insts.FpuRType:
		effect, ok = e.fpu.Arithmetic(i, ops)
	case insts.FpuIType:
		effect, ok = e.lsu.Float(i, ops)
	case insts.FpuRegImmType:
		effect, ok = e.fpu.Move(i, ops)
	case insts.FpuCompareType:
		effect, ok = e.fpu.Compare(i, ops)
	case insts.FpuBranchType:
		effect, ok = e.branchUnit.FloatBranch(i, ops)
	}

	if !ok {
		return Effect{}, fmt.Errorf("%w: %v", ErrUnimplemented, describe(inst))
	}

	return effect, nil
}

func describe(inst insts.Instruction) string {
	if inst == nil {
		return "nil"
	}
	return fmt.Sprintf("%s %+v", inst.Format(), inst)
}
