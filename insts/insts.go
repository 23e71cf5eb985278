// Package insts provides MIPS64 instruction definitions, decoding, encoding
// and disassembly.
//
// A decoded instruction is one of a closed set of format types: RType,
// RTypeSpecial, IType, JType, SyscallType, FpuRType, FpuIType,
// FpuRegImmType, FpuCompareType and FpuBranchType. Consumers select on the
// format with a type switch.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode(0x01294820) // add $t1, $t1, $t1
//	if err != nil {
//		return err
//	}
//	fmt.Println(insts.Disassemble(inst))
package insts

// Primary opcodes (bits [31:26]).
const (
	OpSpecial = 0x00
	OpRegImm  = 0x01
	OpJ       = 0x02
	OpJAL     = 0x03
	OpBEQ     = 0x04
	OpBNE     = 0x05
	OpADDI    = 0x08
	OpADDIU   = 0x09
	OpANDI    = 0x0C
	OpORI     = 0x0D
	OpAUI     = 0x0F // lui is aui with rs = 0
	OpCOP1    = 0x11
	OpDADDI   = 0x18
	OpDADDIU  = 0x19
	OpLW      = 0x23
	OpSW      = 0x2B
	OpLWC1    = 0x31
	OpSWC1    = 0x39
)

// SPECIAL function codes (bits [5:0]).
const (
	FunctSLL     = 0x00
	FunctJALR    = 0x09
	FunctSYSCALL = 0x0C
	FunctSOP30   = 0x18 // mul when shamt = 2
	FunctSOP31   = 0x19
	FunctSOP32   = 0x1A // div when shamt = 2
	FunctSOP33   = 0x1B
	FunctSOP34   = 0x1C // dmul when shamt = 2
	FunctSOP35   = 0x1D
	FunctSOP36   = 0x1E // ddiv when shamt = 2
	FunctSOP37   = 0x1F
	FunctADD     = 0x20
	FunctADDU    = 0x21
	FunctSUB     = 0x22
	FunctSUBU    = 0x23
	FunctAND     = 0x24
	FunctOR      = 0x25
	FunctSLT     = 0x2A
	FunctSLTU    = 0x2B
	FunctDADD    = 0x2C
	FunctDADDU   = 0x2D
	FunctDSUB    = 0x2E
	FunctDSUBU   = 0x2F
)

// ShamtMulDiv is the shamt value selecting the low-half result of the
// SOP30-SOP37 multiply and divide groups.
const ShamtMulDiv = 0b00010

// REGIMM sub codes (rt field, bits [20:16]).
const (
	RegImmDAHI = 0x06
	RegImmDATI = 0x1E
)

// COP1 format and sub codes (rs field, bits [25:21]).
const (
	SubMF  = 0x00
	SubDMF = 0x01
	SubMT  = 0x04
	SubDMT = 0x05
	SubBC  = 0x08
	FmtS   = 0x10
	FmtD   = 0x11
)

// COP1 function codes for FmtS and FmtD (bits [5:0]).
const (
	FpuFunctADD  = 0x00
	FpuFunctSUB  = 0x01
	FpuFunctMUL  = 0x02
	FpuFunctDIV  = 0x03
	FpuFunctCEQ  = 0x32
	FpuFunctCLT  = 0x3C
	FpuFunctCNGE = 0x3D
	FpuFunctCLE  = 0x3E
	FpuFunctCNGT = 0x3F
)

// Instruction is a decoded MIPS64 instruction. The set of implementations
// is closed to this package.
type Instruction interface {
	// Format names the encoding format of the instruction.
	Format() string

	isInstruction()
}

// RType is a register-register instruction from the SPECIAL opcode.
type RType struct {
	Op    uint8
	RS    uint8
	RT    uint8
	RD    uint8
	Shamt uint8
	Funct uint8
}

// RTypeSpecial is a SPECIAL-opcode instruction whose fields do not follow
// the plain arithmetic layout (jalr).
type RTypeSpecial struct {
	Op    uint8
	RS    uint8
	RT    uint8
	RD    uint8
	Shamt uint8
	Funct uint8
}

// IType is an instruction with a 16-bit immediate.
type IType struct {
	Op        uint8
	RS        uint8
	RT        uint8
	Immediate uint16
}

// JType is a jump with a 26-bit word target.
type JType struct {
	Op   uint8
	Addr uint32
}

// SyscallType is the syscall instruction.
type SyscallType struct {
	Op    uint8
	Code  uint32
	Funct uint8
}

// FpuRType is a floating-point arithmetic instruction.
type FpuRType struct {
	Op       uint8
	Fmt      uint8
	FT       uint8
	FS       uint8
	FD       uint8
	Function uint8
}

// FpuIType is a floating-point load or store.
type FpuIType struct {
	Op     uint8
	Base   uint8
	FT     uint8
	Offset uint16
}

// FpuRegImmType moves bits between a general-purpose and a floating-point
// register.
type FpuRegImmType struct {
	Op  uint8
	Sub uint8
	RT  uint8
	FS  uint8
}

// FpuCompareType is a floating-point compare that writes a condition code.
type FpuCompareType struct {
	Op       uint8
	Fmt      uint8
	FT       uint8
	FS       uint8
	CC       uint8
	Function uint8
}

// FpuBranchType branches on a floating-point condition code.
type FpuBranchType struct {
	Op     uint8
	BCC1   uint8
	CC     uint8
	ND     uint8
	TF     uint8
	Offset uint16
}

func (RType) isInstruction()          {}
func (RTypeSpecial) isInstruction()   {}
func (IType) isInstruction()          {}
func (JType) isInstruction()          {}
func (SyscallType) isInstruction()    {}
func (FpuRType) isInstruction()       {}
func (FpuIType) isInstruction()       {}
func (FpuRegImmType) isInstruction()  {}
func (FpuCompareType) isInstruction() {}
func (FpuBranchType) isInstruction()  {}

// Format returns "RType".
func (RType) Format() string { return "RType" }

// Format returns "RTypeSpecial".
func (RTypeSpecial) Format() string { return "RTypeSpecial" }

// Format returns "IType".
func (IType) Format() string { return "IType" }

// Format returns "JType".
func (JType) Format() string { return "JType" }

// Format returns "SyscallType".
func (SyscallType) Format() string { return "SyscallType" }

// Format returns "FpuRType".
func (FpuRType) Format() string { return "FpuRType" }

// Format returns "FpuIType".
func (FpuIType) Format() string { return "FpuIType" }

// Format returns "FpuRegImmType".
func (FpuRegImmType) Format() string { return "FpuRegImmType" }

// Format returns "FpuCompareType".
func (FpuCompareType) Format() string { return "FpuCompareType" }

// Format returns "FpuBranchType".
func (FpuBranchType) Format() string { return "FpuBranchType" }

// GPRNames holds the conventional names of the general-purpose registers,
// indexed by register number.
var GPRNames = [32]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// SignExtend16 sign-extends a 16-bit immediate to 64 bits.
func SignExtend16(imm uint16) uint64 {
	return uint64(int64(int16(imm)))
}

// SignExtend32 sign-extends the low 32 bits of v to 64 bits.
func SignExtend32(v uint64) uint64 {
	return uint64(int64(int32(uint32(v))))
}
