// Package asm assembles MIPS64 source into machine words.
//
// Assembling never fails outright. Every problem becomes a Diagnostic on
// the returned ProgramInfo, with a correction hint and the columns it
// covers, so an editor can annotate the source while the user types.
//
//	info, words := asm.Assemble(source)
//	if info.HasErrors() {
//		return info.Errors()
//	}
//	err := datapath.Initialize(words)
package asm

import (
	"encoding/binary"
	"fmt"
)

// Assemble translates source into a program image: the text segment
// followed by the data segment, as big-endian words from address 0.
func Assemble(source string) (*ProgramInfo, []uint32) {
	lines, lineCount := Tokenize(source)
	instructions, data := separate(lines)

	count := 0
	for _, inst := range instructions {
		inst.Number = count
		if inst.hasOperator() {
			expandPseudo(inst)
			count++
		}
	}

	info := &ProgramInfo{
		Lines:        make([]LineInfo, lineCount),
		Instructions: instructions,
		Data:         data,
		TextSize:     uint32(count) << 2,
	}

	dataEnd := layoutData(data, info.TextSize, &operandParser{})
	info.Labels = assignLabels(instructions, data)

	enc := &encoder{operands: operandParser{labels: info.Labels}}
	for _, inst := range instructions {
		if inst.hasOperator() {
			enc.encode(inst)
			info.AddressToLineNumber = append(info.AddressToLineNumber, inst.Line)
		}
	}
	emitData(data, &enc.operands)

	describe(info)
	info.collectDiagnostics()
	info.annotate()

	return info, info.image(dataImage(data, info.TextSize, dataEnd))
}

// assignLabels maps instruction labels to their addresses and data labels
// to where their data starts. The first definition of a name wins.
func assignLabels(instructions []*Instruction, data []*Data) map[string]uint32 {
	labels := make(map[string]uint32)

	for _, inst := range instructions {
		if inst.Label == nil {
			continue
		}
		if _, dup := labels[inst.Label.Text]; dup {
			inst.failAt(LabelMultipleDefinition, noOperand, inst.labelLine, inst.Label.span())
			continue
		}
		labels[inst.Label.Text] = uint32(inst.Number) << 2
	}

	for _, d := range data {
		if d.Label.Text == "" {
			continue
		}
		if _, dup := labels[d.Label.Text]; dup {
			d.failAt(LabelMultipleDefinition, noOperand, d.Label.span())
			continue
		}
		labels[d.Label.Text] = d.Address
	}

	return labels
}

// annotate writes hover text and error spans for every source line.
func (p *ProgramInfo) annotate() {
	for _, inst := range p.Instructions {
		if inst.hasOperator() && len(inst.Errors) == 0 {
			p.Lines[inst.Line].HoverString += fmt.Sprintf("Binary: %032b\n", inst.Binary)
		}
	}

	for _, d := range p.Diagnostics {
		line := &p.Lines[d.Line]
		line.HoverString += d.Message
		line.ErrorSpans = append(line.ErrorSpans, d.Span)
	}
}

// image appends the data segment, padded to a whole word, to the text
// words.
func (p *ProgramInfo) image(data []byte) []uint32 {
	words := make([]uint32, 0, len(p.AddressToLineNumber)+(len(data)+3)/4)
	for _, inst := range p.Instructions {
		if inst.hasOperator() {
			words = append(words, inst.Binary)
		}
	}

	for len(data)%4 != 0 {
		data = append(data, 0)
	}
	for i := 0; i < len(data); i += 4 {
		words = append(words, binary.BigEndian.Uint32(data[i:]))
	}

	return words
}
