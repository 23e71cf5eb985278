package asm

import (
	"errors"
	"slices"
)

// Instruction is one parsed line of the text segment.
type Instruction struct {
	// Label is the label attached to the instruction, if any. A label on a
	// line of its own attaches to the next instruction.
	Label    *Token
	Operator Token
	Operands []Token
	Errors   []*Diagnostic

	// Line is the zero-based source line of the operator.
	Line int

	// Number is the position of the instruction in the text segment. Its
	// address is Number << 2.
	Number int
	Binary uint32

	labelLine int
}

func (inst *Instruction) fail(kind ErrorKind, operand int) *Diagnostic {
	span := inst.Operator.span()
	if operand >= 0 && operand < len(inst.Operands) {
		span = inst.Operands[operand].span()
	}
	return inst.failAt(kind, operand, inst.Line, span)
}

func (inst *Instruction) failAt(kind ErrorKind, operand, line int, span Span) *Diagnostic {
	d := newDiagnostic(kind, operand)
	d.Line = line
	d.Span = span
	inst.Errors = append(inst.Errors, d)
	return d
}

// hasOperator reports whether the entry holds an instruction rather than
// a dangling label.
func (inst *Instruction) hasOperator() bool {
	return inst.Operator.Text != ""
}

// Data is one directive line of the data segment.
type Data struct {
	Label    Token
	DataType Token
	Values   []Token
	Errors   []*Diagnostic
	Line     int

	// Address is where the first byte is placed; Bytes is the encoded
	// big-endian content.
	Address uint32
	Bytes   []byte
}

func (d *Data) fail(kind ErrorKind, value int) *Diagnostic {
	span := d.DataType.span()
	if value >= 0 && value < len(d.Values) {
		span = d.Values[value].span()
	}
	return d.failAt(kind, value, span)
}

func (d *Data) failAt(kind ErrorKind, value int, span Span) *Diagnostic {
	diag := newDiagnostic(kind, value)
	diag.Line = d.Line
	diag.Span = span
	d.Errors = append(d.Errors, diag)
	return diag
}

// LineInfo is the editor feedback for one source line.
type LineInfo struct {
	HoverString string
	ErrorSpans  []Span
}

// ProgramInfo is the result of assembling a program.
type ProgramInfo struct {
	// Lines holds one entry per source line.
	Lines []LineInfo

	// AddressToLineNumber maps instruction number (address >> 2) to its
	// source line.
	AddressToLineNumber []int

	// Labels maps label names to addresses.
	Labels map[string]uint32

	Instructions []*Instruction
	Data         []*Data

	// TextSize is the size of the text segment in bytes. The data
	// segment starts there.
	TextSize uint32

	Diagnostics []*Diagnostic
}

// HasErrors reports whether assembling produced any diagnostic.
func (p *ProgramInfo) HasErrors() bool {
	return len(p.Diagnostics) > 0
}

// Errors joins every diagnostic into one error, or returns nil.
func (p *ProgramInfo) Errors() error {
	errs := make([]error, 0, len(p.Diagnostics))
	for _, d := range p.Diagnostics {
		errs = append(errs, d)
	}
	return errors.Join(errs...)
}

// LineForAddress returns the source line of the instruction at addr.
func (p *ProgramInfo) LineForAddress(addr uint64) (int, bool) {
	if addr%4 != 0 || addr/4 >= uint64(len(p.AddressToLineNumber)) {
		return 0, false
	}
	return p.AddressToLineNumber[addr/4], true
}

func (p *ProgramInfo) collectDiagnostics() {
	p.Diagnostics = p.Diagnostics[:0]
	for _, inst := range p.Instructions {
		p.Diagnostics = append(p.Diagnostics, inst.Errors...)
	}
	for _, d := range p.Data {
		p.Diagnostics = append(p.Diagnostics, d.Errors...)
	}
	slices.SortStableFunc(p.Diagnostics, func(a, b *Diagnostic) int {
		return a.Line - b.Line
	})
}
