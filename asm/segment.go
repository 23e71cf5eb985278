package asm

import "strings"

// separate splits tokenized lines into text-segment instructions and
// data-segment directives. The text segment is active until ".data".
//
// A label ends with ':'. A label alone on a line attaches to the next
// instruction; a second pending label or a label with nothing after it is
// a LabelAssignmentError. Every operand but the last must end with ',',
// which is removed.
func separate(lines []Line) ([]*Instruction, []*Data) {
	var (
		instructions []*Instruction
		data         []*Data
		pending      = &Instruction{}
		inText       = true
	)

	flushPending := func() {
		if pending.Label == nil {
			return
		}
		pending.Line = pending.labelLine
		pending.failAt(LabelAssignmentError, noOperand, pending.Line, pending.Label.span())
		instructions = append(instructions, pending)
		pending = &Instruction{}
	}

	for _, line := range lines {
		tokens := line.Tokens

		switch tokens[0].Text {
		case ".text":
			flushPending()
			inText = true
			continue
		case ".data":
			flushPending()
			inText = false
			continue
		}

		if !inText {
			data = append(data, parseData(line))
			continue
		}

		if isLabel(tokens[0]) {
			label := tokens[0]
			label.Text = strings.TrimSuffix(label.Text, ":")
			label.Kind = TokenLabel

			if pending.Label != nil {
				pending.failAt(LabelAssignmentError, noOperand, line.Number, label.span())
			} else {
				pending.Label = &label
				pending.labelLine = line.Number
			}

			tokens = tokens[1:]
			if len(tokens) == 0 {
				continue
			}
		}

		inst := pending
		pending = &Instruction{}

		inst.Line = line.Number
		inst.Operator = tokens[0]
		inst.Operator.Kind = TokenOperator
		var missing []int
		inst.Operands, missing = confirmCommas(tokens[1:])
		for _, i := range missing {
			inst.fail(MissingComma, i)
		}

		instructions = append(instructions, inst)
	}

	flushPending()

	return instructions, data
}

func isLabel(t Token) bool {
	return len(t.Text) > 1 && strings.HasSuffix(t.Text, ":")
}

// confirmCommas strips the trailing comma of every token but the last and
// returns the indices of the tokens missing one.
func confirmCommas(tokens []Token) ([]Token, []int) {
	var missing []int

	out := make([]Token, len(tokens))
	for i, t := range tokens {
		t.Kind = TokenOperand
		if i < len(tokens)-1 {
			if strings.HasSuffix(t.Text, ",") {
				t.Text = strings.TrimSuffix(t.Text, ",")
			} else {
				missing = append(missing, i)
			}
		}
		out[i] = t
	}

	return out, missing
}

// parseData reads "label: .type value, value, ...".
func parseData(line Line) *Data {
	d := &Data{Line: line.Number}
	tokens := line.Tokens

	if isLabel(tokens[0]) {
		d.Label = tokens[0]
		d.Label.Text = strings.TrimSuffix(d.Label.Text, ":")
		d.Label.Kind = TokenLabel
		tokens = tokens[1:]
	} else if !strings.HasPrefix(tokens[0].Text, ".") {
		d.Label = tokens[0]
		d.Label.Kind = TokenLabel
		d.failAt(ImproperlyFormattedLabel, noOperand, tokens[0].span())
		tokens = tokens[1:]
	} else {
		d.failAt(ImproperlyFormattedLabel, noOperand, tokens[0].span())
	}

	if len(tokens) < 2 {
		span := line.Tokens[0].span()
		if len(tokens) > 0 {
			d.DataType = tokens[0]
			span = tokens[0].span()
		}
		d.failAt(ImproperlyFormattedData, noOperand, span)
		return d
	}

	d.DataType = tokens[0]
	d.DataType.Kind = TokenDataType
	var missing []int
	d.Values, missing = confirmCommas(tokens[1:])
	for i := range d.Values {
		d.Values[i].Kind = TokenValue
	}
	for _, i := range missing {
		d.fail(MissingComma, i)
	}

	return d
}
