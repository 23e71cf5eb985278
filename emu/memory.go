package emu

import "encoding/binary"

// CapacityBytes is the size of simulated memory.
const CapacityBytes = 64 * 1024

// Memory is a fixed-capacity, byte-addressable, big-endian memory.
type Memory struct {
	data      []byte
	observers []StoreObserver
}

// StoreObserver is told about every word-level write to memory, covering
// size bytes from addr. Byte writes through Write8 are not reported.
type StoreObserver func(addr, size uint64)

// Observe registers fn to be called after StoreWord, StoreWords and Reset.
func (m *Memory) Observe(fn StoreObserver) {
	m.observers = append(m.observers, fn)
}

func (m *Memory) notify(addr, size uint64) {
	for _, fn := range m.observers {
		fn(addr, size)
	}
}

// NewMemory creates a zeroed memory of CapacityBytes bytes.
func NewMemory() *Memory {
	return &Memory{data: make([]byte, CapacityBytes)}
}

// Capacity returns the memory size in bytes.
func (m *Memory) Capacity() uint64 {
	return uint64(len(m.data))
}

// CheckWord reports whether a word access by op at addr would fail. It
// returns the same error LoadWord and StoreWord would.
func (m *Memory) CheckWord(op string, addr uint64) error {
	if addr%4 != 0 {
		return &MemoryError{Op: op, Addr: addr, Err: ErrMisaligned}
	}
	if addr > m.Capacity()-4 {
		return &MemoryError{Op: op, Addr: addr, Err: ErrOutOfBounds}
	}
	return nil
}

// LoadWord reads the 32-bit word at addr. The address must be 4-byte
// aligned and the word fully in bounds.
func (m *Memory) LoadWord(addr uint64) (uint32, error) {
	if err := m.CheckWord("load", addr); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(m.data[addr:]), nil
}

// StoreWord writes the 32-bit word at addr. The address must be 4-byte
// aligned and the word fully in bounds.
func (m *Memory) StoreWord(addr uint64, value uint32) error {
	if err := m.CheckWord("store", addr); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(m.data[addr:], value)
	m.notify(addr, 4)
	return nil
}

// Read8 reads a byte. Out-of-range addresses read as 0.
func (m *Memory) Read8(addr uint64) byte {
	if addr >= m.Capacity() {
		return 0
	}
	return m.data[addr]
}

// Write8 writes a byte. Out-of-range writes are ignored.
func (m *Memory) Write8(addr uint64, value byte) {
	if addr >= m.Capacity() {
		return
	}
	m.data[addr] = value
}

// StoreWords writes consecutive words starting at address 0.
func (m *Memory) StoreWords(words []uint32) error {
	if uint64(len(words))*4 > m.Capacity() {
		return &MemoryError{Op: "store", Addr: uint64(len(words)) * 4, Err: ErrOutOfBounds}
	}
	for i, w := range words {
		binary.BigEndian.PutUint32(m.data[i*4:], w)
	}
	if len(words) > 0 {
		m.notify(0, uint64(len(words))*4)
	}
	return nil
}

// Snapshot returns a copy of the memory contents.
func (m *Memory) Snapshot() []byte {
	return append([]byte(nil), m.data...)
}

// Reset zeroes the memory.
func (m *Memory) Reset() {
	clear(m.data)
	m.notify(0, m.Capacity())
}
