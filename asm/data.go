package asm

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

// dataTypes lists the supported directives in suggestion order.
var dataTypes = []string{
	".ascii", ".asciiz", ".byte", ".double", ".float", ".half", ".space",
	".word",
}

var dataAlignment = map[string]uint32{
	".half":   2,
	".word":   4,
	".float":  4,
	".double": 8,
}

// maxSpace bounds a single .space directive.
const maxSpace = 1 << 16

// layoutData assigns addresses from start and encodes every directive that
// does not reference labels. It returns the end of the data segment.
func layoutData(data []*Data, start uint32, p *operandParser) uint32 {
	addr := start

	for _, d := range data {
		if d.DataType.Text == "" {
			d.Address = addr
			continue
		}

		if !isDataType(d.DataType.Text) {
			d.failAt(UnrecognizedDataType, noOperand, d.DataType.span())
			d.Address = addr
			continue
		}

		if align := dataAlignment[d.DataType.Text]; align > 1 {
			addr = (addr + align - 1) &^ (align - 1)
		}
		d.Address = addr

		if d.DataType.Text == ".word" {
			// Words may name labels, resolved by emitData.
			addr += 4 * uint32(len(d.Values))
			continue
		}

		d.Bytes = encodeValues(d, p)
		addr += uint32(len(d.Bytes))
	}

	return addr
}

// emitData encodes the .word directives once labels are known.
func emitData(data []*Data, p *operandParser) {
	for _, d := range data {
		if d.DataType.Text == ".word" {
			d.Bytes = encodeValues(d, p)
		}
	}
}

func isDataType(name string) bool {
	_, ok := dataAlignment[name]
	return ok || name == ".ascii" || name == ".asciiz" || name == ".byte" || name == ".space"
}

func encodeValues(d *Data, p *operandParser) []byte {
	var out []byte

	for i, value := range d.Values {
		text := value.Text

		switch d.DataType.Text {
		case ".byte":
			v, err := p.boundedInteger(text, math.MinInt8, math.MaxUint8)
			out = append(out, byte(v))
			d.check(err, i)
		case ".half":
			v, err := p.boundedInteger(text, math.MinInt16, math.MaxUint16)
			out = binary.BigEndian.AppendUint16(out, uint16(v))
			d.check(err, i)
		case ".word":
			v, err := p.boundedInteger(text, math.MinInt32, math.MaxUint32)
			out = binary.BigEndian.AppendUint32(out, uint32(v))
			d.check(err, i)
		case ".space":
			v, err := p.boundedInteger(text, 0, maxSpace)
			out = append(out, make([]byte, v)...)
			d.check(err, i)
		case ".float":
			v, err := strconv.ParseFloat(text, 32)
			if err != nil {
				d.fail(NonFloatImmediate, i)
			}
			out = binary.BigEndian.AppendUint32(out, math.Float32bits(float32(v)))
		case ".double":
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				d.fail(NonFloatImmediate, i)
			}
			out = binary.BigEndian.AppendUint64(out, math.Float64bits(v))
		case ".ascii", ".asciiz":
			if len(text) < 2 || !strings.HasPrefix(text, `"`) || !strings.HasSuffix(text, `"`) {
				d.fail(ImproperlyFormattedASCII, i)
				continue
			}
			out = append(out, text[1:len(text)-1]...)
			if d.DataType.Text == ".asciiz" {
				out = append(out, 0)
			}
		}
	}

	return out
}

func (d *Data) check(err *operandError, value int) {
	if err != nil {
		diag := d.fail(err.kind, value)
		diag.detail = err.detail
	}
}

// dataImage packs the data segment, which starts at start, into bytes.
func dataImage(data []*Data, start, end uint32) []byte {
	image := make([]byte, end-start)
	for _, d := range data {
		if d.Address >= start {
			copy(image[d.Address-start:], d.Bytes)
		}
	}
	return image
}
