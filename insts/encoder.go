package insts

// Encode assembles an instruction back into its 32-bit machine word. It is
// the inverse of Decode for every supported instruction.
func Encode(inst Instruction) uint32 {
	switch i := inst.(type) {
	case RType:
		return encodeR(i.Op, i.RS, i.RT, i.RD, i.Shamt, i.Funct)
	case RTypeSpecial:
		return encodeR(i.Op, i.RS, i.RT, i.RD, i.Shamt, i.Funct)
	case IType:
		return encodeI(i.Op, i.RS, i.RT, i.Immediate)
	case JType:
		return uint32(i.Op)<<26 | i.Addr&0x03FFFFFF
	case SyscallType:
		return uint32(i.Op)<<26 | (i.Code&0xFFFFF)<<6 | uint32(i.Funct&0x3F)
	case FpuRType:
		return encodeR(i.Op, i.Fmt, i.FT, i.FS, i.FD, i.Function)
	case FpuIType:
		return encodeI(i.Op, i.Base, i.FT, i.Offset)
	case FpuRegImmType:
		return encodeR(i.Op, i.Sub, i.RT, i.FS, 0, 0)
	case FpuCompareType:
		return uint32(i.Op)<<26 |
			uint32(i.Fmt&0x1F)<<21 |
			uint32(i.FT&0x1F)<<16 |
			uint32(i.FS&0x1F)<<11 |
			uint32(i.CC&0x7)<<8 |
			uint32(i.Function&0x3F)
	case FpuBranchType:
		return uint32(i.Op)<<26 |
			uint32(i.BCC1&0x1F)<<21 |
			uint32(i.CC&0x7)<<18 |
			uint32(i.ND&0x1)<<17 |
			uint32(i.TF&0x1)<<16 |
			uint32(i.Offset)
	}

	return 0
}

func encodeR(op, rs, rt, rd, shamt, funct uint8) uint32 {
	return uint32(op)<<26 |
		uint32(rs&0x1F)<<21 |
		uint32(rt&0x1F)<<16 |
		uint32(rd&0x1F)<<11 |
		uint32(shamt&0x1F)<<6 |
		uint32(funct&0x3F)
}

func encodeI(op, rs, rt uint8, imm uint16) uint32 {
	return uint32(op)<<26 |
		uint32(rs&0x1F)<<21 |
		uint32(rt&0x1F)<<16 |
		uint32(imm)
}
