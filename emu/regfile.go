// Package emu provides the MIPS64 architectural state and the per-opcode
// execution semantics.
package emu

import (
	"fmt"
	"strings"

	"github.com/sarchlab/swim/insts"
)

// Register names one cell of the register file. General-purpose registers
// occupy 0-31, followed by the condition-code word, the program counter and
// the 32 floating-point registers.
type Register uint8

// Register enumeration.
const (
	Zero Register = iota
	AT
	V0
	V1
	A0
	A1
	A2
	A3
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	T8
	T9
	K0
	K1
	GP
	SP
	FP
	RA
	CC
	PC
	F0
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	F13
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	F21
	F22
	F23
	F24
	F25
	F26
	F27
	F28
	F29
	F30
	F31

	// NumRegisters is the number of register cells.
	NumRegisters
)

// GPR returns the general-purpose register with the given index.
func GPR(index uint8) Register {
	return Register(index & 0x1F)
}

// FPR returns the floating-point register with the given index.
func FPR(index uint8) Register {
	return F0 + Register(index&0x1F)
}

// IsGPR reports whether r is a general-purpose register.
func (r Register) IsGPR() bool {
	return r <= RA
}

// IsFPR reports whether r is a floating-point register.
func (r Register) IsFPR() bool {
	return r >= F0 && r <= F31
}

// String returns the lower-case register name without the "$" prefix.
func (r Register) String() string {
	switch {
	case r.IsGPR():
		return insts.GPRNames[r]
	case r == CC:
		return "cc"
	case r == PC:
		return "pc"
	case r.IsFPR():
		return fmt.Sprintf("f%d", r-F0)
	}
	return fmt.Sprintf("Register(%d)", uint8(r))
}

var registersByName = func() map[string]Register {
	m := make(map[string]Register, NumRegisters)
	for r := Register(0); r < NumRegisters; r++ {
		m[r.String()] = r
	}
	return m
}()

// ParseRegister resolves a register name. Matching is case-insensitive and
// the "$" prefix is optional.
func ParseRegister(name string) (Register, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "$"))
	if r, ok := registersByName[key]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRegister, name)
}

// RegFile holds the MIPS64 register state in a single array indexed by
// Register. The zero register always reads as 0.
type RegFile struct {
	cells [NumRegisters]uint64
}

// Read returns the value of a register.
func (r *RegFile) Read(reg Register) uint64 {
	if reg == Zero || reg >= NumRegisters {
		return 0
	}
	return r.cells[reg]
}

// Write sets a register. Writes to the zero register are discarded.
func (r *RegFile) Write(reg Register, value uint64) {
	if reg == Zero || reg >= NumRegisters {
		return
	}
	r.cells[reg] = value
}

// ReadGPR reads a general-purpose register by index.
func (r *RegFile) ReadGPR(index uint8) uint64 {
	return r.Read(GPR(index))
}

// WriteGPR writes a general-purpose register by index.
func (r *RegFile) WriteGPR(index uint8, value uint64) {
	r.Write(GPR(index), value)
}

// ReadFPR reads a floating-point register by index.
func (r *RegFile) ReadFPR(index uint8) uint64 {
	return r.Read(FPR(index))
}

// WriteFPR writes a floating-point register by index.
func (r *RegFile) WriteFPR(index uint8, value uint64) {
	r.Write(FPR(index), value)
}

// ReadByName reads a register by its name.
func (r *RegFile) ReadByName(name string) (uint64, error) {
	reg, err := ParseRegister(name)
	if err != nil {
		return 0, err
	}
	return r.Read(reg), nil
}

// WriteByName writes a register by its name.
func (r *RegFile) WriteByName(name string, value uint64) error {
	reg, err := ParseRegister(name)
	if err != nil {
		return err
	}
	r.Write(reg, value)
	return nil
}

// PC returns the program counter.
func (r *RegFile) PC() uint64 {
	return r.cells[PC]
}

// SetPC sets the program counter.
func (r *RegFile) SetPC(pc uint64) {
	r.cells[PC] = pc
}

// CC returns the floating-point condition-code word.
func (r *RegFile) CC() uint64 {
	return r.cells[CC]
}

// Each calls fn for every register in index order.
func (r *RegFile) Each(fn func(reg Register, value uint64)) {
	for reg := Register(0); reg < NumRegisters; reg++ {
		fn(reg, r.Read(reg))
	}
}

// Dump lists every register and its value, one per line.
func (r *RegFile) Dump() string {
	var sb strings.Builder
	r.Each(func(reg Register, value uint64) {
		fmt.Fprintf(&sb, "%-5s = 0x%016x\n", "$"+reg.String(), value)
	})
	return sb.String()
}

// Reset zeroes every register.
func (r *RegFile) Reset() {
	r.cells = [NumRegisters]uint64{}
}
