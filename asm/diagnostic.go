package asm

import (
	"errors"

	"github.com/sarchlab/swim/translate"
)

var f = translate.From

// ErrAssembly is wrapped by every Diagnostic.
var ErrAssembly = errors.New(f("assembly failed"))

// ErrorKind classifies an assembler diagnostic.
type ErrorKind uint8

// Diagnostic kinds.
const (
	UnsupportedInstruction ErrorKind = iota
	UnrecognizedGPRegister
	UnrecognizedFPRegister
	UnrecognizedInstruction
	UnrecognizedDataType
	IncorrectRegisterTypeGP
	IncorrectRegisterTypeFP
	MissingComma
	ImmediateOutOfBounds
	NonIntImmediate
	NonFloatImmediate
	InvalidMemorySyntax
	IncorrectNumberOfOperands
	LabelMultipleDefinition
	LabelAssignmentError
	LabelNotFound
	ImproperlyFormattedASCII
	ImproperlyFormattedChar
	ImproperlyFormattedLabel
	ImproperlyFormattedData
	InvalidExpression
)

var errorKindNames = [...]string{
	UnsupportedInstruction:    "UnsupportedInstruction",
	UnrecognizedGPRegister:    "UnrecognizedGPRegister",
	UnrecognizedFPRegister:    "UnrecognizedFPRegister",
	UnrecognizedInstruction:   "UnrecognizedInstruction",
	UnrecognizedDataType:      "UnrecognizedDataType",
	IncorrectRegisterTypeGP:   "IncorrectRegisterTypeGP",
	IncorrectRegisterTypeFP:   "IncorrectRegisterTypeFP",
	MissingComma:              "MissingComma",
	ImmediateOutOfBounds:      "ImmediateOutOfBounds",
	NonIntImmediate:           "NonIntImmediate",
	NonFloatImmediate:         "NonFloatImmediate",
	InvalidMemorySyntax:       "InvalidMemorySyntax",
	IncorrectNumberOfOperands: "IncorrectNumberOfOperands",
	LabelMultipleDefinition:   "LabelMultipleDefinition",
	LabelAssignmentError:      "LabelAssignmentError",
	LabelNotFound:             "LabelNotFound",
	ImproperlyFormattedASCII:  "ImproperlyFormattedASCII",
	ImproperlyFormattedChar:   "ImproperlyFormattedChar",
	ImproperlyFormattedLabel:  "ImproperlyFormattedLabel",
	ImproperlyFormattedData:   "ImproperlyFormattedData",
	InvalidExpression:         "InvalidExpression",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "Unknown"
}

// noOperand marks a diagnostic that is not tied to an operand.
const noOperand = -1

// Span is an inclusive column range on a source line.
type Span struct {
	Start int
	End   int
}

// Diagnostic is one problem found while assembling. Message carries the
// correction hint shown to the user.
type Diagnostic struct {
	Kind    ErrorKind
	Line    int
	Span    Span
	Message string

	// operand is the index of the offending operand, or noOperand.
	operand int
	detail  string
}

func (d *Diagnostic) Error() string {
	return f("line %d: %v: %s", d.Line+1, d.Kind, trimNewline(d.Message))
}

func (d *Diagnostic) Unwrap() error {
	return ErrAssembly
}

// Operand returns the index of the offending operand and whether the
// diagnostic refers to one.
func (d *Diagnostic) Operand() (int, bool) {
	return d.operand, d.operand != noOperand
}

func newDiagnostic(kind ErrorKind, operand int) *Diagnostic {
	return &Diagnostic{Kind: kind, operand: operand}
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}
