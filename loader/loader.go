// Package loader reads programs for the simulator from assembly source,
// hexdump text, big-endian MIPS ELF executables and raw big-endian
// binaries.
package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/swim/asm"
	"github.com/sarchlab/swim/emu"
)

// ErrFormat is wrapped by errors for input that is not a loadable program.
var ErrFormat = errors.New("unrecognized program format")

// Format identifies the encoding of a program file.
type Format int

// Program formats.
const (
	FormatBinary Format = iota
	FormatAssembly
	FormatHexdump
	FormatELF
)

func (f Format) String() string {
	switch f {
	case FormatAssembly:
		return "assembly"
	case FormatHexdump:
		return "hexdump"
	case FormatELF:
		return "elf"
	}
	return "binary"
}

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// DetectFormat picks a format from the file extension, falling back to
// the ELF magic number and then raw binary.
func DetectFormat(path string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".s", ".asm":
		return FormatAssembly
	case ".hex", ".hexdump":
		return FormatHexdump
	}

	if bytes.HasPrefix(head, elfMagic) {
		return FormatELF
	}

	return FormatBinary
}

// Image is a program ready to be placed in memory from address 0.
type Image struct {
	Format Format
	Words  []uint32

	// Entry is the initial program counter.
	Entry uint64

	// Program is set for assembly input; it carries the diagnostics.
	Program *asm.ProgramInfo
}

// LoadFile reads and decodes the program at path.
func LoadFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	switch DetectFormat(path, data) {
	case FormatAssembly:
		return FromAssembly(string(data))
	case FormatHexdump:
		return FromHexdump(string(data))
	case FormatELF:
		prog, err := LoadELF(path)
		if err != nil {
			return nil, err
		}
		return FromELF(prog)
	}

	return FromBinary(data)
}

// FromAssembly assembles source. On diagnostics the image is still
// returned together with the joined error.
func FromAssembly(source string) (*Image, error) {
	info, words := asm.Assemble(source)
	img := &Image{Format: FormatAssembly, Words: words, Program: info}
	return img, info.Errors()
}

// FromHexdump parses "ADDR: VALUE" lines into an image. Words not named
// in the dump are zero.
func FromHexdump(text string) (*Image, error) {
	entries, err := emu.ParseHexdump(text)
	if err != nil {
		return nil, err
	}

	var words []uint32
	for _, e := range entries {
		if e.Address+4 > emu.CapacityBytes {
			return nil, fmt.Errorf("hexdump line %d: %w", e.Line+1, emu.ErrOutOfBounds)
		}

		index := int(e.Address / 4)
		for len(words) <= index {
			words = append(words, 0)
		}
		words[index] = e.Value
	}

	return &Image{Format: FormatHexdump, Words: words}, nil
}

// FromBinary reads big-endian words. A trailing partial word is zero
// padded.
func FromBinary(data []byte) (*Image, error) {
	if len(data) > emu.CapacityBytes {
		return nil, fmt.Errorf("%w: %d bytes", emu.ErrOutOfBounds, len(data))
	}

	return &Image{Format: FormatBinary, Words: toWords(data)}, nil
}

// FromELF flattens an ELF program into an image.
func FromELF(prog *Program) (*Image, error) {
	data, err := prog.Image()
	if err != nil {
		return nil, err
	}

	return &Image{Format: FormatELF, Words: toWords(data), Entry: prog.EntryPoint}, nil
}

func toWords(data []byte) []uint32 {
	padded := data
	if rem := len(data) % 4; rem != 0 {
		padded = append(bytes.Clone(data), make([]byte, 4-rem)...)
	}

	words := make([]uint32, len(padded)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(padded[4*i:])
	}
	return words
}
