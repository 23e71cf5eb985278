package emu

import "github.com/sarchlab/swim/insts"

// LoadStoreUnit computes effective addresses and data for lw, sw, lwc1 and
// swc1. The access itself happens in the memory stage.
type LoadStoreUnit struct{}

// NewLoadStoreUnit creates a new LoadStoreUnit.
func NewLoadStoreUnit() *LoadStoreUnit {
	return &LoadStoreUnit{}
}

// Word handles lw (zero-extending) and sw: address = rs + sext(offset).
func (lsu *LoadStoreUnit) Word(inst insts.IType, ops Operands) (Effect, bool) {
	addr := ops.RS + insts.SignExtend16(inst.Immediate)

	switch inst.Op {
	case insts.OpLW:
		return Effect{
			ALUResult: addr,
			Address:   addr,
			MemRead:   true,
			RegWrite:  true,
			Dest:      GPR(inst.RT),
		}, true
	case insts.OpSW:
		return Effect{
			ALUResult:  addr,
			Address:    addr,
			MemWrite:   true,
			StoreValue: uint32(ops.RT),
		}, true
	}

	return Effect{}, false
}

// Float handles lwc1 and swc1. Only the low 32 bits of ft are transferred.
func (lsu *LoadStoreUnit) Float(inst insts.FpuIType, ops Operands) (Effect, bool) {
	addr := ops.RS + insts.SignExtend16(inst.Offset)

	switch inst.Op {
	case insts.OpLWC1:
		return Effect{
			ALUResult: addr,
			Address:   addr,
			MemRead:   true,
			RegWrite:  true,
			Dest:      FPR(inst.FT),
		}, true
	case insts.OpSWC1:
		return Effect{
			ALUResult:  addr,
			Address:    addr,
			MemWrite:   true,
			StoreValue: uint32(ops.FT),
		}, true
	}

	return Effect{}, false
}
