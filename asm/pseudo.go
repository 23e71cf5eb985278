package asm

// pseudoInstruction rewrites a pseudo-instruction into one real
// instruction.
type pseudoInstruction struct {
	operands int
	operator string

	// layout lists the real operands: "%0", "%1" copy the given operands,
	// anything else is inserted literally.
	layout []string
}

var pseudoInstructions = map[string]pseudoInstruction{
	"li":   {2, "ori", []string{"%0", "$zero", "%1"}},
	"move": {2, "or", []string{"%0", "%1", "$zero"}},
	"nop":  {0, "sll", []string{"$zero", "$zero", "0"}},
	"b":    {1, "beq", []string{"$zero", "$zero", "%0"}},
	"jr":   {1, "jalr", []string{"$zero", "%0"}},
}

// expandPseudo rewrites a pseudo-instruction in place. One with the wrong
// operand count is left for the encoder to report.
func expandPseudo(inst *Instruction) {
	pseudo, ok := pseudoInstructions[inst.Operator.Text]
	if !ok || len(inst.Operands) != pseudo.operands {
		return
	}

	operands := make([]Token, 0, len(pseudo.layout))
	for _, slot := range pseudo.layout {
		switch slot {
		case "%0":
			operands = append(operands, inst.Operands[0])
		case "%1":
			operands = append(operands, inst.Operands[1])
		default:
			operands = append(operands, Token{
				Text:  slot,
				Start: inst.Operator.Start,
				End:   inst.Operator.End,
				Kind:  TokenOperand,
			})
		}
	}

	inst.Operator.Text = pseudo.operator
	inst.Operands = operands
}
