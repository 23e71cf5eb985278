package insts

import (
	"errors"

	"github.com/sarchlab/swim/translate"
)

var f = translate.From

// ErrUnsupported is wrapped by every DecodeError.
var ErrUnsupported = errors.New(f("unsupported instruction"))

// DecodeError reports a word whose opcode, function or sub code is not part
// of the supported instruction set.
type DecodeError struct {
	Word  uint32
	Field string // "opcode", "function", "sub code", ...
	Value uint32
}

func (e *DecodeError) Error() string {
	return f("decode 0x%08x: unsupported %v 0x%02x", e.Word, e.Field, e.Value)
}

func (e *DecodeError) Unwrap() error {
	return ErrUnsupported
}

// Decoder decodes MIPS64 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new MIPS64 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word. Words outside the supported
// instruction set yield a *DecodeError.
func (d *Decoder) Decode(word uint32) (Instruction, error) {
	op := uint8(word >> 26) // bits [31:26]

	switch op {
	case OpSpecial:
		return d.decodeSpecial(word)
	case OpRegImm:
		return d.decodeRegImm(word)
	case OpCOP1:
		return d.decodeCOP1(word)
	case OpJ, OpJAL:
		return JType{
			Op:   op,
			Addr: word & 0x03FFFFFF, // bits [25:0]
		}, nil
	case OpBEQ, OpBNE, OpADDI, OpADDIU, OpANDI, OpORI, OpAUI,
		OpDADDI, OpDADDIU, OpLW, OpSW:
		return decodeIType(word), nil
	case OpLWC1, OpSWC1:
		return FpuIType{
			Op:     op,
			Base:   uint8((word >> 21) & 0x1F), // bits [25:21]
			FT:     uint8((word >> 16) & 0x1F), // bits [20:16]
			Offset: uint16(word & 0xFFFF),      // bits [15:0]
		}, nil
	}

	return nil, &DecodeError{Word: word, Field: "opcode", Value: uint32(op)}
}

func decodeIType(word uint32) IType {
	return IType{
		Op:        uint8(word >> 26),
		RS:        uint8((word >> 21) & 0x1F), // bits [25:21]
		RT:        uint8((word >> 16) & 0x1F), // bits [20:16]
		Immediate: uint16(word & 0xFFFF),      // bits [15:0]
	}
}

func (d *Decoder) decodeSpecial(word uint32) (Instruction, error) {
	rs := uint8((word >> 21) & 0x1F)   // bits [25:21]
	rt := uint8((word >> 16) & 0x1F)   // bits [20:16]
	rd := uint8((word >> 11) & 0x1F)   // bits [15:11]
	shamt := uint8((word >> 6) & 0x1F) // bits [10:6]
	funct := uint8(word & 0x3F)        // bits [5:0]

	switch funct {
	case FunctSYSCALL:
		return SyscallType{
			Op:    OpSpecial,
			Code:  (word >> 6) & 0xFFFFF, // bits [25:6]
			Funct: funct,
		}, nil
	case FunctJALR:
		return RTypeSpecial{
			Op: OpSpecial, RS: rs, RT: rt, RD: rd, Shamt: shamt, Funct: funct,
		}, nil
	case FunctSOP30, FunctSOP32, FunctSOP34, FunctSOP36:
		if shamt != ShamtMulDiv {
			return nil, &DecodeError{Word: word, Field: "shamt", Value: uint32(shamt)}
		}
	case FunctSLL, FunctADD, FunctADDU, FunctSUB, FunctSUBU, FunctAND,
		FunctOR, FunctSLT, FunctSLTU, FunctDADD, FunctDADDU, FunctDSUB,
		FunctDSUBU:
	default:
		return nil, &DecodeError{Word: word, Field: "function", Value: uint32(funct)}
	}

	return RType{
		Op: OpSpecial, RS: rs, RT: rt, RD: rd, Shamt: shamt, Funct: funct,
	}, nil
}

func (d *Decoder) decodeRegImm(word uint32) (Instruction, error) {
	inst := decodeIType(word)
	switch inst.RT {
	case RegImmDAHI, RegImmDATI:
		return inst, nil
	}

	return nil, &DecodeError{Word: word, Field: "REGIMM sub code", Value: uint32(inst.RT)}
}

func (d *Decoder) decodeCOP1(word uint32) (Instruction, error) {
	sub := uint8((word >> 21) & 0x1F) // bits [25:21]
	ft := uint8((word >> 16) & 0x1F)  // bits [20:16]
	fs := uint8((word >> 11) & 0x1F)  // bits [15:11]
	fd := uint8((word >> 6) & 0x1F)   // bits [10:6]
	function := uint8(word & 0x3F)    // bits [5:0]

	switch sub {
	case SubMF, SubDMF, SubMT, SubDMT:
		return FpuRegImmType{Op: OpCOP1, Sub: sub, RT: ft, FS: fs}, nil
	case SubBC:
		return FpuBranchType{
			Op:     OpCOP1,
			BCC1:   sub,
			CC:     uint8((word >> 18) & 0x7), // bits [20:18]
			ND:     uint8((word >> 17) & 0x1), // bit 17
			TF:     uint8((word >> 16) & 0x1), // bit 16
			Offset: uint16(word & 0xFFFF),     // bits [15:0]
		}, nil
	case FmtS, FmtD:
	default:
		return nil, &DecodeError{Word: word, Field: "sub code", Value: uint32(sub)}
	}

	switch function {
	case FpuFunctADD, FpuFunctSUB, FpuFunctMUL, FpuFunctDIV:
		return FpuRType{
			Op: OpCOP1, Fmt: sub, FT: ft, FS: fs, FD: fd, Function: function,
		}, nil
	case FpuFunctCEQ, FpuFunctCLT, FpuFunctCNGE, FpuFunctCLE, FpuFunctCNGT:
		return FpuCompareType{
			Op:       OpCOP1,
			Fmt:      sub,
			FT:       ft,
			FS:       fs,
			CC:       uint8((word >> 8) & 0x7), // bits [10:8]
			Function: function,
		}, nil
	}

	return nil, &DecodeError{Word: word, Field: "function", Value: uint32(function)}
}
