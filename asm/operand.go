package asm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/sarchlab/swim/insts"
)

// gpRegisterNames lists the accepted general-purpose register spellings in
// suggestion order.
var gpRegisterNames = func() []string {
	names := make([]string, 0, 64)
	for _, name := range insts.GPRNames {
		names = append(names, "$"+name)
	}
	for i := 0; i < 32; i++ {
		names = append(names, fmt.Sprintf("r%d", i))
	}
	return names
}()

var fpRegisterNames = func() []string {
	names := make([]string, 32)
	for i := range names {
		names[i] = fmt.Sprintf("$f%d", i)
	}
	return names
}()

var gpRegisters = func() map[string]uint8 {
	regs := make(map[string]uint8, 96)
	for i, name := range insts.GPRNames {
		regs["$"+name] = uint8(i)
		regs[fmt.Sprintf("$%d", i)] = uint8(i)
		regs[fmt.Sprintf("r%d", i)] = uint8(i)
	}
	return regs
}()

var fpRegisters = func() map[string]uint8 {
	regs := make(map[string]uint8, 32)
	for i, name := range fpRegisterNames {
		regs[name] = uint8(i)
	}
	return regs
}()

var (
	memoryOperand = regexp.MustCompile(`^(.*)\(([^()]+)\)$`)
	identifier    = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
)

// operandError is a failed operand parse. detail, when set, is appended to
// the diagnostic message.
type operandError struct {
	kind   ErrorKind
	detail string
}

func failOperand(kind ErrorKind) *operandError {
	return &operandError{kind: kind}
}

// operandParser resolves operand text against the label map.
type operandParser struct {
	labels map[string]uint32
}

func (p *operandParser) gpRegister(text string) (uint8, *operandError) {
	if reg, ok := gpRegisters[text]; ok {
		return reg, nil
	}
	if _, ok := fpRegisters[text]; ok {
		return 0, failOperand(IncorrectRegisterTypeFP)
	}
	return 0, failOperand(UnrecognizedGPRegister)
}

func (p *operandParser) fpRegister(text string) (uint8, *operandError) {
	if reg, ok := fpRegisters[text]; ok {
		return reg, nil
	}
	if _, ok := gpRegisters[text]; ok {
		return 0, failOperand(IncorrectRegisterTypeGP)
	}
	return 0, failOperand(UnrecognizedFPRegister)
}

// integer parses a decimal, 0x/0o/0b prefixed, negative, character
// literal, label name, or $(expr) immediate.
func (p *operandParser) integer(text string) (int64, *operandError) {
	switch {
	case strings.HasPrefix(text, "$(") && strings.HasSuffix(text, ")"):
		return p.expression(text[2 : len(text)-1])
	case strings.HasPrefix(text, "'"):
		return charLiteral(text)
	}

	if v, err := strconv.ParseInt(text, 0, 64); err == nil {
		return v, nil
	}

	if addr, ok := p.labels[text]; ok {
		return int64(addr), nil
	}

	return 0, failOperand(NonIntImmediate)
}

// boundedInteger parses an integer and checks it against [lo, hi].
func (p *operandParser) boundedInteger(text string, lo, hi int64) (int64, *operandError) {
	v, err := p.integer(text)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, failOperand(ImmediateOutOfBounds)
	}
	return v, nil
}

func charLiteral(text string) (int64, *operandError) {
	if len(text) < 3 || !strings.HasSuffix(text, "'") {
		return 0, failOperand(ImproperlyFormattedChar)
	}

	body := text[1 : len(text)-1]
	if strings.HasPrefix(body, "\\") && len(body) == 2 {
		if r, ok := stringEscapes[rune(body[1])]; ok {
			return int64(r), nil
		}
	}

	runes := []rune(body)
	if len(runes) != 1 {
		return 0, failOperand(ImproperlyFormattedChar)
	}

	return int64(runes[0]), nil
}

// expression evaluates a Starlark expression with every label predeclared
// as an integer.
func (p *operandParser) expression(expr string) (int64, *operandError) {
	thread := &starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}

	predeclared := starlark.StringDict{}
	for name, addr := range p.labels {
		predeclared[name] = starlark.MakeUint64(uint64(addr))
	}

	globals, err := starlark.ExecFileOptions(&opts, thread, "expr", "rc = "+expr+"\n", predeclared)
	if err != nil {
		return 0, &operandError{kind: InvalidExpression, detail: err.Error()}
	}

	rc, ok := globals["rc"].(starlark.Int)
	if !ok {
		return 0, &operandError{kind: InvalidExpression, detail: f("%s is not an integer", expr)}
	}

	v, ok := rc.Int64()
	if !ok {
		return 0, failOperand(ImmediateOutOfBounds)
	}

	return v, nil
}

// memory parses "offset(base)" or a label. A label addresses from $zero.
func (p *operandParser) memory(text string) (offset int64, base uint8, err *operandError) {
	if m := memoryOperand.FindStringSubmatch(text); m != nil {
		base, err = p.gpRegister(m[2])
		if err != nil {
			return 0, 0, err
		}

		if m[1] == "" {
			return 0, base, nil
		}

		offset, err = p.boundedInteger(m[1], -1<<15, 1<<15-1)
		if err != nil && err.kind == NonIntImmediate {
			err = failOperand(InvalidMemorySyntax)
		}
		return offset, base, err
	}

	if identifier.MatchString(text) {
		addr, ok := p.labels[text]
		if !ok {
			return 0, 0, failOperand(LabelNotFound)
		}
		if addr >= 1<<15 {
			return 0, 0, failOperand(ImmediateOutOfBounds)
		}
		return int64(addr), 0, nil
	}

	return 0, 0, failOperand(InvalidMemorySyntax)
}

// target resolves a branch or jump operand to an address, or returns the
// raw field value when the operand is numeric.
func (p *operandParser) target(text string) (value int64, isLabel bool, err *operandError) {
	if addr, ok := p.labels[text]; ok {
		return int64(addr), true, nil
	}

	if identifier.MatchString(text) {
		return 0, false, failOperand(LabelNotFound)
	}

	value, err = p.integer(text)
	return value, false, err
}
