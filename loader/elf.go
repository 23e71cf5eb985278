package loader

import (
	"debug/elf"
	"fmt"
	"io"

	"github.com/sarchlab/swim/emu"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// DefaultStackTop is the initial stack pointer: the top of simulated
// memory.
const DefaultStackTop = emu.CapacityBytes

// Segment represents a loadable segment from an ELF binary.
type Segment struct {
	// VirtAddr is the virtual address where this segment should be loaded.
	VirtAddr uint64
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint64
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Program represents a loaded ELF program ready for execution.
type Program struct {
	// EntryPoint is the virtual address where execution should begin.
	EntryPoint uint64
	// Segments contains all loadable segments from the ELF file.
	Segments []Segment
	// InitialSP is the initial stack pointer value.
	InitialSP uint64
}

// LoadELF parses a big-endian 64-bit MIPS ELF executable.
func LoadELF(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS64 {
		return nil, fmt.Errorf("%w: not a 64-bit ELF file", ErrFormat)
	}

	if f.Machine != elf.EM_MIPS {
		return nil, fmt.Errorf("%w: not a MIPS ELF file (machine type: %v)", ErrFormat, f.Machine)
	}

	if f.Data != elf.ELFDATA2MSB {
		return nil, fmt.Errorf("%w: not a big-endian ELF file", ErrFormat)
	}

	prog := &Program{
		EntryPoint: f.Entry,
		InitialSP:  DefaultStackTop,
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: phdr.Vaddr,
			Data:     data,
			MemSize:  phdr.Memsz,
			Flags:    flags,
		})
	}

	return prog, nil
}

// Image flattens the segments into a memory image starting at address 0.
// BSS space is zero-filled. Segments must fit in simulated memory.
func (p *Program) Image() ([]byte, error) {
	var size uint64
	for _, seg := range p.Segments {
		end := seg.VirtAddr + max(seg.MemSize, uint64(len(seg.Data)))
		if end > emu.CapacityBytes || end < seg.VirtAddr {
			return nil, fmt.Errorf("%w: segment at 0x%x ends past 0x%x",
				emu.ErrOutOfBounds, seg.VirtAddr, emu.CapacityBytes)
		}
		size = max(size, end)
	}

	image := make([]byte, size)
	for _, seg := range p.Segments {
		copy(image[seg.VirtAddr:], seg.Data)
	}

	return image, nil
}
