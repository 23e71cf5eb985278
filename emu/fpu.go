package emu

import (
	"math"

	"github.com/sarchlab/swim/insts"
)

// FPU implements coprocessor 1 arithmetic, compares and register moves.
// Single-precision values occupy the low 32 bits of a register.
type FPU struct{}

// NewFPU creates a new FPU.
func NewFPU() *FPU {
	return &FPU{}
}

// Arithmetic computes add, sub, mul and div in single or double precision.
func (u *FPU) Arithmetic(inst insts.FpuRType, ops Operands) (Effect, bool) {
	var result uint64

	switch inst.Fmt {
	case insts.FmtS:
		a := math.Float32frombits(uint32(ops.FS))
		b := math.Float32frombits(uint32(ops.FT))
		r, ok := arith32(inst.Function, a, b)
		if !ok {
			return Effect{}, false
		}
		result = uint64(math.Float32bits(r))
	case insts.FmtD:
		a := math.Float64frombits(ops.FS)
		b := math.Float64frombits(ops.FT)
		r, ok := arith64(inst.Function, a, b)
		if !ok {
			return Effect{}, false
		}
		result = math.Float64bits(r)
	default:
		return Effect{}, false
	}

	return Effect{
		ALUResult: result,
		RegWrite:  true,
		Dest:      FPR(inst.FD),
		Value:     result,
	}, true
}

func arith32(function uint8, a, b float32) (float32, bool) {
	switch function {
	case insts.FpuFunctADD:
		return a + b, true
	case insts.FpuFunctSUB:
		return a - b, true
	case insts.FpuFunctMUL:
		return a * b, true
	case insts.FpuFunctDIV:
		return a / b, true
	}
	return 0, false
}

func arith64(function uint8, a, b float64) (float64, bool) {
	switch function {
	case insts.FpuFunctADD:
		return a + b, true
	case insts.FpuFunctSUB:
		return a - b, true
	case insts.FpuFunctMUL:
		return a * b, true
	case insts.FpuFunctDIV:
		return a / b, true
	}
	return 0, false
}

// Compare evaluates fs <cond> ft and sets or clears condition code cc.
func (u *FPU) Compare(inst insts.FpuCompareType, ops Operands) (Effect, bool) {
	var a, b float64

	switch inst.Fmt {
	case insts.FmtS:
		a = float64(math.Float32frombits(uint32(ops.FS)))
		b = float64(math.Float32frombits(uint32(ops.FT)))
	case insts.FmtD:
		a = math.Float64frombits(ops.FS)
		b = math.Float64frombits(ops.FT)
	default:
		return Effect{}, false
	}

	var cond bool
	switch inst.Function {
	case insts.FpuFunctCEQ:
		cond = a == b
	case insts.FpuFunctCLT:
		cond = a < b
	case insts.FpuFunctCLE:
		cond = a <= b
	case insts.FpuFunctCNGE:
		cond = !(a >= b)
	case insts.FpuFunctCNGT:
		cond = !(a > b)
	default:
		return Effect{}, false
	}

	bit := uint64(1) << (inst.CC & 0x7)
	cc := ops.CC &^ bit
	if cond {
		cc |= bit
	}

	return Effect{
		ALUResult: boolToWord(cond),
		RegWrite:  true,
		Dest:      CC,
		Value:     cc,
	}, true
}

// Move transfers bits between the general-purpose and floating-point
// banks. mtc1 and mfc1 move the low 32 bits; mfc1 sign-extends them.
func (u *FPU) Move(inst insts.FpuRegImmType, ops Operands) (Effect, bool) {
	var (
		dest  Register
		value uint64
	)

	switch inst.Sub {
	case insts.SubMT:
		dest, value = FPR(inst.FS), uint64(uint32(ops.RT))
	case insts.SubDMT:
		dest, value = FPR(inst.FS), ops.RT
	case insts.SubMF:
		dest, value = GPR(inst.RT), insts.SignExtend32(ops.FS)
	case insts.SubDMF:
		dest, value = GPR(inst.RT), ops.FS
	default:
		return Effect{}, false
	}

	return Effect{ALUResult: value, RegWrite: true, Dest: dest, Value: value}, true
}
