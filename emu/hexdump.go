package emu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/swim/insts"
)

// HexdumpEntry is one parsed "ADDR: VALUE" line.
type HexdumpEntry struct {
	Line    int // zero-based line in the dump text
	Address uint64
	Value   uint32
}

// ChangedLine reports a word that StoreHexdump modified.
type ChangedLine struct {
	// LineNumber is the zero-based line index into the dump.
	LineNumber int
	// Text is the disassembly of the new word, or its hex value when the
	// word does not decode.
	Text string
}

// GenerateHexdump renders memory as one "ADDR: VALUE" line per word, up to
// the last non-zero word.
func (m *Memory) GenerateHexdump() string {
	last := -1
	for i := len(m.data) - 4; i >= 0; i -= 4 {
		if m.data[i]|m.data[i+1]|m.data[i+2]|m.data[i+3] != 0 {
			last = i
			break
		}
	}

	var sb strings.Builder
	for addr := 0; addr <= last; addr += 4 {
		word, _ := m.LoadWord(uint64(addr))
		fmt.Fprintf(&sb, "%08x: %08x\n", addr, word)
	}
	return sb.String()
}

// ParseHexdump parses a dump produced by GenerateHexdump. Blank lines are
// skipped. Every well-formed line is returned; malformed lines are reported
// together as joined *HexdumpError values.
func ParseHexdump(text string) ([]HexdumpEntry, error) {
	var entries []HexdumpEntry
	var errs []error

	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		entry, reason := parseHexdumpLine(trimmed)
		if reason != "" {
			errs = append(errs, &HexdumpError{Line: i, Text: trimmed, Reason: reason})
			continue
		}
		entry.Line = i
		entries = append(entries, entry)
	}

	return entries, errors.Join(errs...)
}

func parseHexdumpLine(line string) (HexdumpEntry, string) {
	addrText, valueText, ok := strings.Cut(line, ":")
	if !ok {
		return HexdumpEntry{}, f("missing ':' separator")
	}

	addr, err := strconv.ParseUint(trimHex(addrText), 16, 64)
	if err != nil {
		return HexdumpEntry{}, f("bad address")
	}
	if addr%4 != 0 {
		return HexdumpEntry{}, f("address is not word-aligned")
	}

	value, err := strconv.ParseUint(trimHex(valueText), 16, 32)
	if err != nil {
		return HexdumpEntry{}, f("bad value")
	}

	return HexdumpEntry{Address: addr, Value: uint32(value)}, ""
}

func trimHex(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	return strings.TrimPrefix(s, "0X")
}

// StoreHexdump writes parsed entries into memory and returns one
// ChangedLine per word whose value changed. Entries outside memory are
// skipped and reported in the returned error.
func (m *Memory) StoreHexdump(entries []HexdumpEntry) ([]ChangedLine, error) {
	decoder := insts.NewDecoder()

	var changed []ChangedLine
	var errs []error

	for _, e := range entries {
		old, err := m.LoadWord(e.Address)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if old == e.Value {
			continue
		}

		_ = m.StoreWord(e.Address, e.Value)
		changed = append(changed, ChangedLine{
			LineNumber: e.Line,
			Text:       wordText(decoder, e.Value),
		})
	}

	return changed, errors.Join(errs...)
}

func wordText(decoder *insts.Decoder, word uint32) string {
	inst, err := decoder.Decode(word)
	if err != nil {
		return fmt.Sprintf("0x%08x", word)
	}
	return insts.Disassemble(inst)
}
