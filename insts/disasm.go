package insts

import "fmt"

var rTypeMnemonics = map[uint8]string{
	FunctSLL:   "sll",
	FunctSOP30: "mul",
	FunctSOP32: "div",
	FunctSOP34: "dmul",
	FunctSOP36: "ddiv",
	FunctADD:   "add",
	FunctADDU:  "addu",
	FunctSUB:   "sub",
	FunctSUBU:  "subu",
	FunctAND:   "and",
	FunctOR:    "or",
	FunctSLT:   "slt",
	FunctSLTU:  "sltu",
	FunctDADD:  "dadd",
	FunctDADDU: "daddu",
	FunctDSUB:  "dsub",
	FunctDSUBU: "dsubu",
}

var iTypeMnemonics = map[uint8]string{
	OpBEQ:    "beq",
	OpBNE:    "bne",
	OpADDI:   "addi",
	OpADDIU:  "addiu",
	OpANDI:   "andi",
	OpORI:    "ori",
	OpAUI:    "aui",
	OpDADDI:  "daddi",
	OpDADDIU: "daddiu",
	OpLW:     "lw",
	OpSW:     "sw",
}

var fpuMnemonics = map[uint8]string{
	FpuFunctADD:  "add",
	FpuFunctSUB:  "sub",
	FpuFunctMUL:  "mul",
	FpuFunctDIV:  "div",
	FpuFunctCEQ:  "c.eq",
	FpuFunctCLT:  "c.lt",
	FpuFunctCNGE: "c.nge",
	FpuFunctCLE:  "c.le",
	FpuFunctCNGT: "c.ngt",
}

var moveMnemonics = map[uint8]string{
	SubMF:  "mfc1",
	SubDMF: "dmfc1",
	SubMT:  "mtc1",
	SubDMT: "dmtc1",
}

// Mnemonic returns the assembly mnemonic of an instruction, or "unknown"
// for field combinations the decoder would reject.
func Mnemonic(inst Instruction) string {
	var name string
	var ok bool

	switch i := inst.(type) {
	case RType:
		name, ok = rTypeMnemonics[i.Funct]
	case RTypeSpecial:
		name, ok = "jalr", i.Funct == FunctJALR
	case IType:
		name, ok = iTypeMnemonics[i.Op]
		switch {
		case i.Op == OpAUI && i.RS == 0:
			name = "lui"
		case i.Op == OpRegImm && i.RT == RegImmDAHI:
			name, ok = "dahi", true
		case i.Op == OpRegImm && i.RT == RegImmDATI:
			name, ok = "dati", true
		}
	case JType:
		name, ok = "j", true
		if i.Op == OpJAL {
			name = "jal"
		}
	case SyscallType:
		name, ok = "syscall", true
	case FpuRType:
		name, ok = fpuMnemonics[i.Function]
		name += fmtSuffix(i.Fmt)
	case FpuIType:
		name, ok = "lwc1", true
		if i.Op == OpSWC1 {
			name = "swc1"
		}
	case FpuRegImmType:
		name, ok = moveMnemonics[i.Sub]
	case FpuCompareType:
		name, ok = fpuMnemonics[i.Function]
		name += fmtSuffix(i.Fmt)
	case FpuBranchType:
		name, ok = "bc1f", true
		if i.TF == 1 {
			name = "bc1t"
		}
	}

	if !ok {
		return "unknown"
	}

	return name
}

func fmtSuffix(format uint8) string {
	if format == FmtD {
		return ".d"
	}
	return ".s"
}

func gpr(reg uint8) string {
	return "$" + GPRNames[reg&0x1F]
}

func fpr(reg uint8) string {
	return fmt.Sprintf("$f%d", reg&0x1F)
}

// Disassemble renders an instruction as assembly text accepted by the
// assembler.
func Disassemble(inst Instruction) string {
	name := Mnemonic(inst)

	switch i := inst.(type) {
	case RType:
		if i.Funct == FunctSLL {
			if i == (RType{}) {
				return "nop"
			}
			return fmt.Sprintf("%s %s, %s, %d", name, gpr(i.RD), gpr(i.RT), i.Shamt)
		}
		return fmt.Sprintf("%s %s, %s, %s", name, gpr(i.RD), gpr(i.RS), gpr(i.RT))
	case RTypeSpecial:
		return fmt.Sprintf("%s %s, %s", name, gpr(i.RD), gpr(i.RS))
	case IType:
		return disassembleIType(name, i)
	case JType:
		return fmt.Sprintf("%s 0x%x", name, i.Addr<<2)
	case SyscallType:
		return name
	case FpuRType:
		return fmt.Sprintf("%s %s, %s, %s", name, fpr(i.FD), fpr(i.FS), fpr(i.FT))
	case FpuIType:
		return fmt.Sprintf("%s %s, %d(%s)", name, fpr(i.FT), int16(i.Offset), gpr(i.Base))
	case FpuRegImmType:
		return fmt.Sprintf("%s %s, %s", name, gpr(i.RT), fpr(i.FS))
	case FpuCompareType:
		if i.CC != 0 {
			return fmt.Sprintf("%s %d, %s, %s", name, i.CC, fpr(i.FS), fpr(i.FT))
		}
		return fmt.Sprintf("%s %s, %s", name, fpr(i.FS), fpr(i.FT))
	case FpuBranchType:
		if i.CC != 0 {
			return fmt.Sprintf("%s %d, %d", name, i.CC, int16(i.Offset))
		}
		return fmt.Sprintf("%s %d", name, int16(i.Offset))
	}

	return name
}

func disassembleIType(name string, i IType) string {
	switch i.Op {
	case OpBEQ, OpBNE:
		return fmt.Sprintf("%s %s, %s, %d", name, gpr(i.RS), gpr(i.RT), int16(i.Immediate))
	case OpANDI, OpORI:
		return fmt.Sprintf("%s %s, %s, 0x%x", name, gpr(i.RT), gpr(i.RS), i.Immediate)
	case OpAUI:
		if i.RS == 0 {
			return fmt.Sprintf("%s %s, 0x%x", name, gpr(i.RT), i.Immediate)
		}
		return fmt.Sprintf("%s %s, %s, 0x%x", name, gpr(i.RT), gpr(i.RS), i.Immediate)
	case OpLW, OpSW:
		return fmt.Sprintf("%s %s, %d(%s)", name, gpr(i.RT), int16(i.Immediate), gpr(i.RS))
	case OpRegImm:
		return fmt.Sprintf("%s %s, %d", name, gpr(i.RS), int16(i.Immediate))
	}

	return fmt.Sprintf("%s %s, %s, %d", name, gpr(i.RT), gpr(i.RS), int16(i.Immediate))
}
