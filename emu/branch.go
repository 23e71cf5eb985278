package emu

import "github.com/sarchlab/swim/insts"

// BranchUnit computes branch and jump targets.
type BranchUnit struct{}

// NewBranchUnit creates a new BranchUnit.
func NewBranchUnit() *BranchUnit {
	return &BranchUnit{}
}

// RelativeTarget returns pc + 4 + (sext(offset) << 2).
func RelativeTarget(pc uint64, offset uint16) uint64 {
	return pc + 4 + insts.SignExtend16(offset)<<2
}

// JumpTarget combines the upper bits of pc + 4 with a 26-bit word target.
func JumpTarget(pc uint64, addr uint32) uint64 {
	return (pc+4)&^0x0FFF_FFFF | uint64(addr&0x03FF_FFFF)<<2
}

// Branch evaluates beq and bne.
func (b *BranchUnit) Branch(inst insts.IType, ops Operands) (Effect, bool) {
	var taken bool

	switch inst.Op {
	case insts.OpBEQ:
		taken = ops.RS == ops.RT
	case insts.OpBNE:
		taken = ops.RS != ops.RT
	default:
		return Effect{}, false
	}

	return Effect{
		ALUResult: ops.RS - ops.RT,
		Taken:     taken,
		Target:    RelativeTarget(ops.PC, inst.Immediate),
	}, true
}

// Jump evaluates j and jal. jal links the return address into $ra.
func (b *BranchUnit) Jump(inst insts.JType, ops Operands) (Effect, bool) {
	target := JumpTarget(ops.PC, inst.Addr)
	effect := Effect{ALUResult: target, Taken: true, Target: target}

	switch inst.Op {
	case insts.OpJ:
	case insts.OpJAL:
		effect.RegWrite = true
		effect.Dest = RA
		effect.Value = ops.PC + 4
	default:
		return Effect{}, false
	}

	return effect, true
}

// JALR jumps to rs and links the return address into rd.
func (b *BranchUnit) JALR(inst insts.RTypeSpecial, ops Operands) (Effect, bool) {
	if inst.Funct != insts.FunctJALR {
		return Effect{}, false
	}

	return Effect{
		ALUResult: ops.RS,
		Taken:     true,
		Target:    ops.RS,
		RegWrite:  true,
		Dest:      GPR(inst.RD),
		Value:     ops.PC + 4,
	}, true
}

// FloatBranch evaluates bc1t and bc1f against condition code cc.
func (b *BranchUnit) FloatBranch(inst insts.FpuBranchType, ops Operands) (Effect, bool) {
	if inst.BCC1 != insts.SubBC {
		return Effect{}, false
	}

	bit := (ops.CC >> (inst.CC & 0x7)) & 1

	return Effect{
		ALUResult: bit,
		Taken:     bit == uint64(inst.TF),
		Target:    RelativeTarget(ops.PC, inst.Offset),
	}, true
}
