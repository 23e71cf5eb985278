package emu

import (
	"math"

	"github.com/sarchlab/swim/insts"
)

// ALU implements MIPS64 integer arithmetic and logic.
//
// 32-bit operations use the low 32 bits of their operands and sign-extend
// the result. Signed forms that overflow, and divisions by zero, leave the
// destination unmodified and flag the fault in the Effect.
type ALU struct{}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// ExecuteR computes a register-register SPECIAL instruction. The
// destination is rd.
func (a *ALU) ExecuteR(inst insts.RType, ops Operands) (Effect, bool) {
	var (
		result uint64
		status fault
	)

	switch inst.Funct {
	case insts.FunctSLL:
		result = insts.SignExtend32(uint64(uint32(ops.RT) << inst.Shamt))
	case insts.FunctADD:
		result, status = add32(ops.RS, ops.RT)
	case insts.FunctADDU:
		result = insts.SignExtend32(ops.RS + ops.RT)
	case insts.FunctSUB:
		result, status = sub32(ops.RS, ops.RT)
	case insts.FunctSUBU:
		result = insts.SignExtend32(ops.RS - ops.RT)
	case insts.FunctSOP30:
		result, status = mul32(ops.RS, ops.RT)
	case insts.FunctSOP32:
		result, status = div32(ops.RS, ops.RT)
	case insts.FunctSOP34:
		result, status = mul64(ops.RS, ops.RT)
	case insts.FunctSOP36:
		result, status = div64(ops.RS, ops.RT)
	case insts.FunctAND:
		result = ops.RS & ops.RT
	case insts.FunctOR:
		result = ops.RS | ops.RT
	case insts.FunctSLT:
		result = boolToWord(int64(ops.RS) < int64(ops.RT))
	case insts.FunctSLTU:
		result = boolToWord(ops.RS < ops.RT)
	case insts.FunctDADD:
		result, status = add64(ops.RS, ops.RT)
	case insts.FunctDADDU:
		result = ops.RS + ops.RT
	case insts.FunctDSUB:
		result, status = sub64(ops.RS, ops.RT)
	case insts.FunctDSUBU:
		result = ops.RS - ops.RT
	default:
		return Effect{}, false
	}

	return status.apply(Effect{ALUResult: result, Dest: GPR(inst.RD), Value: result}), true
}

// ExecuteI computes an immediate-form ALU instruction. The destination is
// rt, except for dahi and dati which update rs in place.
func (a *ALU) ExecuteI(inst insts.IType, ops Operands) (Effect, bool) {
	var (
		result uint64
		status fault
		dest   = GPR(inst.RT)
		simm   = insts.SignExtend16(inst.Immediate)
	)

	switch inst.Op {
	case insts.OpADDI:
		result, status = add32(ops.RS, simm)
	case insts.OpADDIU:
		result = insts.SignExtend32(ops.RS + simm)
	case insts.OpDADDI:
		result, status = add64(ops.RS, simm)
	case insts.OpDADDIU:
		result = ops.RS + simm
	case insts.OpANDI:
		result = ops.RS & uint64(inst.Immediate)
	case insts.OpORI:
		result = ops.RS | uint64(inst.Immediate)
	case insts.OpAUI:
		result = insts.SignExtend32(ops.RS + uint64(inst.Immediate)<<16)
	case insts.OpRegImm:
		dest = GPR(inst.RS)
		switch inst.RT {
		case insts.RegImmDAHI:
			result = ops.RS + simm<<32
		case insts.RegImmDATI:
			result = ops.RS + simm<<48
		default:
			return Effect{}, false
		}
	default:
		return Effect{}, false
	}

	return status.apply(Effect{ALUResult: result, Dest: dest, Value: result}), true
}

type fault uint8

const (
	noFault fault = iota
	overflowFault
	divideByZeroFault
)

// apply marks the effect as a register write unless a fault suppresses it.
func (s fault) apply(e Effect) Effect {
	switch s {
	case overflowFault:
		e.Overflow = true
	case divideByZeroFault:
		e.DivideByZero = true
	default:
		e.RegWrite = true
	}
	return e
}

func boolToWord(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func fits32(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// add32 adds the low 32 bits of a and b as signed values.
func add32(a, b uint64) (uint64, fault) {
	sum := int64(int32(a)) + int64(int32(b))
	if !fits32(sum) {
		return 0, overflowFault
	}
	return uint64(sum), noFault
}

// sub32 subtracts the low 32 bits of b from a as signed values.
func sub32(a, b uint64) (uint64, fault) {
	diff := int64(int32(a)) - int64(int32(b))
	if !fits32(diff) {
		return 0, overflowFault
	}
	return uint64(diff), noFault
}

// mul32 multiplies the low 32 bits of a and b as signed values.
func mul32(a, b uint64) (uint64, fault) {
	prod := int64(int32(a)) * int64(int32(b))
	if !fits32(prod) {
		return 0, overflowFault
	}
	return uint64(prod), noFault
}

// div32 divides the low 32 bits of a by b, truncating toward zero.
func div32(a, b uint64) (uint64, fault) {
	x, y := int32(a), int32(b)
	switch {
	case y == 0:
		return 0, divideByZeroFault
	case x == math.MinInt32 && y == -1:
		return 0, overflowFault
	}
	return uint64(int64(x / y)), noFault
}

// add64 adds a and b as signed 64-bit values.
func add64(a, b uint64) (uint64, fault) {
	sum := a + b
	// Overflow when both operands share a sign the result lacks.
	if (a^sum)&(b^sum)>>63 != 0 {
		return 0, overflowFault
	}
	return sum, noFault
}

// sub64 subtracts b from a as signed 64-bit values.
func sub64(a, b uint64) (uint64, fault) {
	diff := a - b
	if (a^b)&(a^diff)>>63 != 0 {
		return 0, overflowFault
	}
	return diff, noFault
}

// mul64 multiplies a and b as signed 64-bit values.
func mul64(a, b uint64) (uint64, fault) {
	x, y := int64(a), int64(b)
	prod := x * y
	if x != 0 && (prod/x != y || (x == -1 && y == math.MinInt64)) {
		return 0, overflowFault
	}
	return uint64(prod), noFault
}

// div64 divides a by b as signed 64-bit values, truncating toward zero.
func div64(a, b uint64) (uint64, fault) {
	x, y := int64(a), int64(b)
	switch {
	case y == 0:
		return 0, divideByZeroFault
	case x == math.MinInt64 && y == -1:
		return 0, overflowFault
	}
	return uint64(x / y), noFault
}
