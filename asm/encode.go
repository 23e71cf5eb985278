package asm

import "github.com/sarchlab/swim/insts"

// operandKind is the syntactic class of one instruction operand.
type operandKind uint8

const (
	gpr operandKind = iota
	fpr
	signed16   // -32768 .. 32767
	unsigned16 // 0 .. 65535
	half16     // either signed or unsigned 16-bit
	shift5     // 0 .. 31
	condCode   // 0 .. 7
	mem        // offset(base) or label
	branch     // label or 16-bit word offset
	jump       // label or 26-bit word index
)

// operand is a parsed operand: a register number, an immediate, or for
// memory operands the base register and the offset.
type operand struct {
	reg uint8
	imm int64
}

// form is one accepted operand layout of a mnemonic.
type form struct {
	kinds []operandKind
	build func(o []operand) insts.Instruction
}

// mnemonics lists the supported instructions in suggestion order.
var mnemonics = []string{
	"add", "sub", "mul", "div", "lw", "sw", "lui", "aui", "andi", "ori",
	"addi", "dadd", "dsub", "dmul", "ddiv", "or", "and", "add.s", "add.d",
	"sub.s", "sub.d", "mul.s", "mul.d", "div.s", "div.d", "dahi", "dati",
	"daddiu", "slt", "sltu", "swc1", "lwc1", "mtc1", "dmtc1", "mfc1",
	"dmfc1", "j", "beq", "bne", "c.eq.s", "c.eq.d", "c.lt.s", "c.le.s",
	"c.le.d", "c.ngt.s", "c.ngt.d", "c.nge.s", "c.nge.d", "bc1t", "bc1f",
	"c.lt.d", "addu", "addiu", "subu", "daddu", "daddi", "dsubu", "sll",
	"jal", "jalr", "syscall", "li", "move", "nop", "b", "jr",
}

// unsupportedMnemonics are valid MIPS64 instructions this assembler does
// not implement.
var unsupportedMnemonics = map[string]bool{
	"lb": true, "lbu": true, "lh": true, "lhu": true, "lwu": true,
	"sb": true, "sh": true, "ld": true, "sd": true, "ldc1": true,
	"sdc1": true, "mult": true, "multu": true, "divu": true, "mfhi": true,
	"mflo": true, "srl": true, "sra": true, "sllv": true, "srlv": true,
	"xor": true, "nor": true, "xori": true, "slti": true, "sltiu": true,
	"bgtz": true, "blez": true, "bltz": true, "bgez": true, "beqz": true,
	"bnez": true, "dsll": true, "dsrl": true, "dsra": true, "mov.s": true,
	"mov.d": true, "abs.s": true, "abs.d": true, "neg.s": true,
	"neg.d": true, "sqrt.s": true, "sqrt.d": true, "cvt.s.d": true,
	"cvt.d.s": true, "la": true,
}

var forms = buildForms()

func buildForms() map[string][]form {
	table := map[string][]form{}

	rType := func(name string, funct, shamt uint8) {
		table[name] = []form{{
			kinds: []operandKind{gpr, gpr, gpr},
			build: func(o []operand) insts.Instruction {
				return insts.RType{
					Op: insts.OpSpecial, RS: o[1].reg, RT: o[2].reg, RD: o[0].reg,
					Shamt: shamt, Funct: funct,
				}
			},
		}}
	}
	rType("add", insts.FunctADD, 0)
	rType("addu", insts.FunctADDU, 0)
	rType("sub", insts.FunctSUB, 0)
	rType("subu", insts.FunctSUBU, 0)
	rType("mul", insts.FunctSOP30, insts.ShamtMulDiv)
	rType("div", insts.FunctSOP32, insts.ShamtMulDiv)
	rType("dmul", insts.FunctSOP34, insts.ShamtMulDiv)
	rType("ddiv", insts.FunctSOP36, insts.ShamtMulDiv)
	rType("and", insts.FunctAND, 0)
	rType("or", insts.FunctOR, 0)
	rType("slt", insts.FunctSLT, 0)
	rType("sltu", insts.FunctSLTU, 0)
	rType("dadd", insts.FunctDADD, 0)
	rType("daddu", insts.FunctDADDU, 0)
	rType("dsub", insts.FunctDSUB, 0)
	rType("dsubu", insts.FunctDSUBU, 0)

	table["sll"] = []form{{
		kinds: []operandKind{gpr, gpr, shift5},
		build: func(o []operand) insts.Instruction {
			return insts.RType{
				Op: insts.OpSpecial, RT: o[1].reg, RD: o[0].reg,
				Shamt: uint8(o[2].imm), Funct: insts.FunctSLL,
			}
		},
	}}

	table["jalr"] = []form{
		{
			kinds: []operandKind{gpr},
			build: func(o []operand) insts.Instruction {
				return insts.RTypeSpecial{Op: insts.OpSpecial, RS: o[0].reg, RD: 31, Funct: insts.FunctJALR}
			},
		},
		{
			kinds: []operandKind{gpr, gpr},
			build: func(o []operand) insts.Instruction {
				return insts.RTypeSpecial{Op: insts.OpSpecial, RS: o[1].reg, RD: o[0].reg, Funct: insts.FunctJALR}
			},
		},
	}

	iType := func(name string, op uint8, imm operandKind) {
		table[name] = []form{{
			kinds: []operandKind{gpr, gpr, imm},
			build: func(o []operand) insts.Instruction {
				return insts.IType{Op: op, RS: o[1].reg, RT: o[0].reg, Immediate: uint16(o[2].imm)}
			},
		}}
	}
	iType("addi", insts.OpADDI, signed16)
	iType("addiu", insts.OpADDIU, signed16)
	iType("daddi", insts.OpDADDI, signed16)
	iType("daddiu", insts.OpDADDIU, signed16)
	iType("andi", insts.OpANDI, unsigned16)
	iType("ori", insts.OpORI, unsigned16)
	iType("aui", insts.OpAUI, half16)

	table["lui"] = []form{{
		kinds: []operandKind{gpr, half16},
		build: func(o []operand) insts.Instruction {
			return insts.IType{Op: insts.OpAUI, RT: o[0].reg, Immediate: uint16(o[1].imm)}
		},
	}}

	regImm := func(name string, sub uint8) {
		table[name] = []form{{
			kinds: []operandKind{gpr, half16},
			build: func(o []operand) insts.Instruction {
				return insts.IType{Op: insts.OpRegImm, RS: o[0].reg, RT: sub, Immediate: uint16(o[1].imm)}
			},
		}}
	}
	regImm("dahi", insts.RegImmDAHI)
	regImm("dati", insts.RegImmDATI)

	loadStore := func(name string, op uint8) {
		table[name] = []form{{
			kinds: []operandKind{gpr, mem},
			build: func(o []operand) insts.Instruction {
				return insts.IType{Op: op, RS: o[1].reg, RT: o[0].reg, Immediate: uint16(o[1].imm)}
			},
		}}
	}
	loadStore("lw", insts.OpLW)
	loadStore("sw", insts.OpSW)

	fpLoadStore := func(name string, op uint8) {
		table[name] = []form{{
			kinds: []operandKind{fpr, mem},
			build: func(o []operand) insts.Instruction {
				return insts.FpuIType{Op: op, Base: o[1].reg, FT: o[0].reg, Offset: uint16(o[1].imm)}
			},
		}}
	}
	fpLoadStore("lwc1", insts.OpLWC1)
	fpLoadStore("swc1", insts.OpSWC1)

	condBranch := func(name string, op uint8) {
		table[name] = []form{{
			kinds: []operandKind{gpr, gpr, branch},
			build: func(o []operand) insts.Instruction {
				return insts.IType{Op: op, RS: o[0].reg, RT: o[1].reg, Immediate: uint16(o[2].imm)}
			},
		}}
	}
	condBranch("beq", insts.OpBEQ)
	condBranch("bne", insts.OpBNE)

	jumpOp := func(name string, op uint8) {
		table[name] = []form{{
			kinds: []operandKind{jump},
			build: func(o []operand) insts.Instruction {
				return insts.JType{Op: op, Addr: uint32(o[0].imm)}
			},
		}}
	}
	jumpOp("j", insts.OpJ)
	jumpOp("jal", insts.OpJAL)

	table["syscall"] = []form{{
		build: func([]operand) insts.Instruction {
			return insts.SyscallType{Op: insts.OpSpecial, Funct: insts.FunctSYSCALL}
		},
	}}

	fpFormats := map[string]uint8{"s": insts.FmtS, "d": insts.FmtD}
	fpArith := map[string]uint8{
		"add": insts.FpuFunctADD, "sub": insts.FpuFunctSUB,
		"mul": insts.FpuFunctMUL, "div": insts.FpuFunctDIV,
	}
	fpCompare := map[string]uint8{
		"c.eq": insts.FpuFunctCEQ, "c.lt": insts.FpuFunctCLT,
		"c.nge": insts.FpuFunctCNGE, "c.le": insts.FpuFunctCLE,
		"c.ngt": insts.FpuFunctCNGT,
	}

	for suffix, fmtCode := range fpFormats {
		for name, function := range fpArith {
			table[name+"."+suffix] = []form{{
				kinds: []operandKind{fpr, fpr, fpr},
				build: func(o []operand) insts.Instruction {
					return insts.FpuRType{
						Op: insts.OpCOP1, Fmt: fmtCode, FT: o[2].reg, FS: o[1].reg, FD: o[0].reg,
						Function: function,
					}
				},
			}}
		}

		for name, function := range fpCompare {
			compare := func(cc, fs, ft uint8) insts.Instruction {
				return insts.FpuCompareType{
					Op: insts.OpCOP1, Fmt: fmtCode, FT: ft, FS: fs, CC: cc, Function: function,
				}
			}
			table[name+"."+suffix] = []form{
				{
					kinds: []operandKind{fpr, fpr},
					build: func(o []operand) insts.Instruction { return compare(0, o[0].reg, o[1].reg) },
				},
				{
					kinds: []operandKind{condCode, fpr, fpr},
					build: func(o []operand) insts.Instruction {
						return compare(uint8(o[0].imm), o[1].reg, o[2].reg)
					},
				},
			}
		}
	}

	fpBranch := func(name string, tf uint8) {
		bc := func(cc uint8, offset int64) insts.Instruction {
			return insts.FpuBranchType{
				Op: insts.OpCOP1, BCC1: insts.SubBC, CC: cc, TF: tf, Offset: uint16(offset),
			}
		}
		table[name] = []form{
			{
				kinds: []operandKind{branch},
				build: func(o []operand) insts.Instruction { return bc(0, o[0].imm) },
			},
			{
				kinds: []operandKind{condCode, branch},
				build: func(o []operand) insts.Instruction { return bc(uint8(o[0].imm), o[1].imm) },
			},
		}
	}
	fpBranch("bc1t", 1)
	fpBranch("bc1f", 0)

	move := func(name string, sub uint8) {
		table[name] = []form{{
			kinds: []operandKind{gpr, fpr},
			build: func(o []operand) insts.Instruction {
				return insts.FpuRegImmType{Op: insts.OpCOP1, Sub: sub, RT: o[0].reg, FS: o[1].reg}
			},
		}}
	}
	move("mtc1", insts.SubMT)
	move("dmtc1", insts.SubDMT)
	move("mfc1", insts.SubMF)
	move("dmfc1", insts.SubDMF)

	return table
}

// encoder turns parsed instructions into machine words.
type encoder struct {
	operands operandParser
}

// encode fills inst.Binary, recording a diagnostic for each bad operand.
func (e *encoder) encode(inst *Instruction) {
	name := inst.Operator.Text

	candidates, ok := forms[name]
	if !ok {
		switch {
		case unsupportedMnemonics[name]:
			inst.fail(UnsupportedInstruction, noOperand)
		case pseudoInstructions[name].operator != "":
			inst.fail(IncorrectNumberOfOperands, noOperand)
		default:
			inst.fail(UnrecognizedInstruction, noOperand)
		}
		return
	}

	var chosen *form
	for i := range candidates {
		if len(candidates[i].kinds) == len(inst.Operands) {
			chosen = &candidates[i]
			break
		}
	}
	if chosen == nil {
		inst.fail(IncorrectNumberOfOperands, noOperand)
		return
	}

	pc := uint32(inst.Number) << 2
	parsed := make([]operand, len(chosen.kinds))
	valid := true

	for i, kind := range chosen.kinds {
		op, err := e.operand(kind, inst.Operands[i].Text, pc)
		if err != nil {
			d := inst.fail(err.kind, i)
			d.detail = err.detail
			valid = false
			continue
		}
		parsed[i] = op
	}

	if valid {
		inst.Binary = insts.Encode(chosen.build(parsed))
	}
}

func (e *encoder) operand(kind operandKind, text string, pc uint32) (operand, *operandError) {
	p := &e.operands

	switch kind {
	case gpr:
		reg, err := p.gpRegister(text)
		return operand{reg: reg}, err
	case fpr:
		reg, err := p.fpRegister(text)
		return operand{reg: reg}, err
	case signed16:
		v, err := p.boundedInteger(text, -1<<15, 1<<15-1)
		return operand{imm: v}, err
	case unsigned16:
		v, err := p.boundedInteger(text, 0, 1<<16-1)
		return operand{imm: v}, err
	case half16:
		v, err := p.boundedInteger(text, -1<<15, 1<<16-1)
		return operand{imm: v}, err
	case shift5:
		v, err := p.boundedInteger(text, 0, 31)
		return operand{imm: v}, err
	case condCode:
		v, err := p.boundedInteger(text, 0, 7)
		return operand{imm: v}, err
	case mem:
		offset, base, err := p.memory(text)
		return operand{reg: base, imm: offset}, err
	case branch:
		return branchOffset(p, text, pc)
	case jump:
		return jumpIndex(p, text)
	}

	return operand{}, failOperand(UnrecognizedInstruction)
}

// branchOffset converts a label to the word offset from pc + 4.
func branchOffset(p *operandParser, text string, pc uint32) (operand, *operandError) {
	v, isLabel, err := p.target(text)
	if err != nil {
		return operand{}, err
	}

	if isLabel {
		v = (v - int64(pc) - 4) >> 2
	}
	if v < -1<<15 || v > 1<<15-1 {
		return operand{}, failOperand(ImmediateOutOfBounds)
	}

	return operand{imm: v}, nil
}

// jumpIndex converts a label to its 26-bit word index.
func jumpIndex(p *operandParser, text string) (operand, *operandError) {
	v, isLabel, err := p.target(text)
	if err != nil {
		return operand{}, err
	}

	if isLabel {
		v >>= 2
	}
	if v < 0 || v > 1<<26-1 {
		return operand{}, failOperand(ImmediateOutOfBounds)
	}

	return operand{imm: v}, nil
}
