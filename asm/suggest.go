package asm

import (
	"maps"
	"slices"

	"github.com/agnivade/levenshtein"
)

// closest returns the candidate nearest to given by edit distance. Ties go
// to the earliest candidate.
func closest(given string, candidates []string) string {
	best, bestDistance := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(given, c)
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best
}

// describe fills in the message of every diagnostic of the program.
func describe(p *ProgramInfo) {
	labelNames := slices.Sorted(maps.Keys(p.Labels))

	for _, inst := range p.Instructions {
		for _, d := range inst.Errors {
			given := inst.Operator.Text
			if i, ok := d.Operand(); ok && i < len(inst.Operands) {
				given = inst.Operands[i].Text
			}
			d.Message = message(d, given, labelNames)
		}
	}

	for _, data := range p.Data {
		for _, d := range data.Errors {
			given := data.DataType.Text
			if i, ok := d.Operand(); ok && i < len(data.Values) {
				given = data.Values[i].Text
			}
			d.Message = message(d, given, labelNames)
		}
	}
}

// baseRegister returns the register inside an "offset(base)" operand, or
// the text unchanged.
func baseRegister(text string) string {
	if m := memoryOperand.FindStringSubmatch(text); m != nil {
		return m[2]
	}
	return text
}

func message(d *Diagnostic, given string, labelNames []string) string {
	switch d.Kind {
	case UnsupportedInstruction:
		return f("While this is a valid instruction, it is not currently supported by SWIM\n")
	case UnrecognizedGPRegister:
		return f("A valid, similar register is: %s.\n", closest(baseRegister(given), gpRegisterNames))
	case UnrecognizedFPRegister:
		return f("A valid, similar register is: %s.\n", closest(given, fpRegisterNames))
	case UnrecognizedInstruction:
		return f("A valid, similar instruction is: %s.\n", closest(given, mnemonics))
	case UnrecognizedDataType:
		return f("A valid, similar data type is: %s.\n", closest(given, dataTypes))
	case IncorrectRegisterTypeGP:
		return f("Expected FP register but received GP register.\n")
	case IncorrectRegisterTypeFP:
		return f("Expected GP register but received FP register.\n")
	case MissingComma:
		return f("Operand expected to end with a comma but it does not.\n")
	case ImmediateOutOfBounds:
		return f("Immediate value given cannot be expressed in the available number of bits.\n")
	case NonIntImmediate:
		return f("The given string cannot be recognized as an integer.\n")
	case NonFloatImmediate:
		return f("The given string cannot be recognized as a float.\n")
	case InvalidMemorySyntax:
		return f("The given string for memory does not match syntax of \"offset(base)\" or \"label\".\n")
	case IncorrectNumberOfOperands:
		return f("The given number of operands does not match the number expected for the given instruction.\n")
	case LabelMultipleDefinition:
		return f("The given label name is already used elsewhere in the project.\n")
	case LabelAssignmentError:
		return f("A label is specified but it is not followed by data or an instruction committed to memory.\n")
	case LabelNotFound:
		if len(labelNames) == 0 {
			return f("There is no recognized labelled memory.\n")
		}
		return f("A valid, similar label is: %s.\n", closest(given, labelNames))
	case ImproperlyFormattedASCII:
		return f("Token recognized as ASCII does not start and or end with \".\n")
	case ImproperlyFormattedChar:
		return f("Token recognized as a char does not end with ' or is larger than a single char.\n")
	case ImproperlyFormattedLabel:
		return f("Data entries must start with a label ending in a colon.\n")
	case ImproperlyFormattedData:
		return f("Data entries need a label, a data type and at least one value.\n")
	case InvalidExpression:
		return f("The expression could not be evaluated: %s.\n", d.detail)
	}

	return f("Unexpected assembler error %v.\n", d.Kind)
}
