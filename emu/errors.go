package emu

import (
	"errors"

	"github.com/sarchlab/swim/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrMisaligned  = errors.New(f("address is not word-aligned"))
	ErrOutOfBounds = errors.New(f("address is out of bounds"))

	// Register errors
	ErrUnknownRegister = errors.New(f("unknown register"))

	// Hexdump errors
	ErrHexdumpFormat = errors.New(f("malformed hexdump line"))

	// Execution errors
	ErrUnimplemented = errors.New(f("instruction not implemented"))
)

// MemoryError records a failed word access.
type MemoryError struct {
	Op   string // "load" or "store"
	Addr uint64
	Err  error
}

func (e *MemoryError) Error() string {
	return f("%v 0x%x: %v", e.Op, e.Addr, e.Err)
}

func (e *MemoryError) Unwrap() error {
	return e.Err
}

// HexdumpError describes one malformed line of a hexdump.
type HexdumpError struct {
	Line   int // zero-based line in the dump text
	Text   string
	Reason string
}

func (e *HexdumpError) Error() string {
	return f("hexdump line %v %q: %v", e.Line+1, e.Text, e.Reason)
}

func (e *HexdumpError) Unwrap() error {
	return ErrHexdumpFormat
}
