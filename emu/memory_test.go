package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swim/emu"
)

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemory()
	})

	It("should have the documented capacity", func() {
		Expect(memory.Capacity()).To(Equal(uint64(emu.CapacityBytes)))
	})

	It("should reject unaligned loads and stores", func() {
		for _, addr := range []uint64{1, 2, 3, 5, 0x1001} {
			_, err := memory.LoadWord(addr)
			Expect(err).To(MatchError(ContainSubstring("align")))
			Expect(errors.Is(err, emu.ErrMisaligned)).To(BeTrue())

			err = memory.StoreWord(addr, 0)
			Expect(err).To(MatchError(ContainSubstring("align")))
		}
	})

	It("should reject out-of-bounds loads and stores", func() {
		for _, addr := range []uint64{emu.CapacityBytes, emu.CapacityBytes + 500, 1 << 62} {
			_, err := memory.LoadWord(addr)
			Expect(err).To(MatchError(ContainSubstring("bounds")))
			Expect(errors.Is(err, emu.ErrOutOfBounds)).To(BeTrue())

			err = memory.StoreWord(addr, 0)
			Expect(err).To(MatchError(ContainSubstring("bounds")))
		}
	})

	It("should accept the last word", func() {
		Expect(memory.StoreWord(emu.CapacityBytes-4, 9)).To(Succeed())
		Expect(memory.LoadWord(emu.CapacityBytes - 4)).To(Equal(uint32(9)))
	})

	It("should load what was stored", func() {
		for _, addr := range []uint64{0, 4, 500, 0x1000, emu.CapacityBytes - 8} {
			Expect(memory.StoreWord(addr, 500+uint32(addr))).To(Succeed())
			Expect(memory.LoadWord(addr)).To(Equal(500 + uint32(addr)))
		}
	})

	It("should store words big-endian", func() {
		Expect(memory.StoreWord(8, 0x11223344)).To(Succeed())

		Expect(memory.Read8(8)).To(Equal(byte(0x11)))
		Expect(memory.Read8(11)).To(Equal(byte(0x44)))
	})

	It("should ignore byte accesses outside memory", func() {
		memory.Write8(emu.CapacityBytes, 1)
		Expect(memory.Read8(emu.CapacityBytes)).To(BeZero())
	})

	It("should store a program from address 0", func() {
		Expect(memory.StoreWords([]uint32{1, 2, 3})).To(Succeed())
		Expect(memory.LoadWord(8)).To(Equal(uint32(3)))
	})

	It("should refuse programs larger than memory", func() {
		words := make([]uint32, emu.CapacityBytes/4+1)
		Expect(memory.StoreWords(words)).To(MatchError(ContainSubstring("bounds")))
	})

	It("should zero memory on reset", func() {
		Expect(memory.StoreWord(0x100, 0xFFFF_FFFF)).To(Succeed())
		memory.Reset()
		Expect(memory.Snapshot()).To(Equal(make([]byte, emu.CapacityBytes)))
	})

	It("should tell observers about word writes but not byte writes", func() {
		var seen [][2]uint64
		memory.Observe(func(addr, size uint64) {
			seen = append(seen, [2]uint64{addr, size})
		})

		Expect(memory.StoreWord(0x100, 1)).To(Succeed())
		memory.Write8(0x200, 1)
		Expect(memory.StoreWords([]uint32{1, 2})).To(Succeed())
		memory.Reset()

		Expect(seen).To(Equal([][2]uint64{
			{0x100, 4},
			{0, 8},
			{0, emu.CapacityBytes},
		}))
	})
})
