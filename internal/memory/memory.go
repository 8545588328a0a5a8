// Package memory implements the 4KB CHIP-8 address space.
package memory

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// CHIP-8 memory layout constants.
//
//	0x000-0x1FF: Interpreter area, holds the built-in font
//	0x200-0xFFF: Program space
const (
	// Size is the total number of addressable bytes.
	Size = 0x1000

	// MaxAddress is the highest valid address.
	MaxAddress = Size - 1

	// ProgramStart is the address that programs are loaded to and start executing at.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits into program space.
	MaxProgramSize = Size - ProgramStart

	// FontStart is the address of the glyph for digit 0.
	FontStart = 0x000

	// FontGlyphSize is the number of bytes per font glyph.
	FontGlyphSize = 5
)

// ErrAddressOutOfBounds is matched by all memory access faults.
var ErrAddressOutOfBounds = chip8.ErrMemoryOutOfBounds

// AddressError describes an access that does not fit into the address space.
type AddressError struct {
	Address uint16 // first address of the access
	Size    int    // number of bytes accessed
}

func (e *AddressError) Error() string {
	if e.Size <= 1 {
		return fmt.Sprintf("%s: $%04X", ErrAddressOutOfBounds, e.Address)
	}
	return fmt.Sprintf("%s: $%04X+%d", ErrAddressOutOfBounds, e.Address, e.Size)
}

// Unwrap returns ErrAddressOutOfBounds.
func (e *AddressError) Unwrap() error {
	return ErrAddressOutOfBounds
}

// font contains the hex digit glyphs 0-F, each 4 pixels wide and 5 rows high.
var font = [16 * FontGlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat byte store of the machine.
type Memory struct {
	data [Size]byte
}

// New returns a zeroed memory with the font loaded into the interpreter area.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// FromBytes returns a memory holding a copy of the given image.
// The image must cover the whole address space.
func FromBytes(image []byte) (*Memory, error) {
	if len(image) != Size {
		return nil, fmt.Errorf("memory image has %d bytes, expected %d", len(image), Size)
	}
	m := &Memory{}
	copy(m.data[:], image)
	return m, nil
}

// Reset zeroes all memory and re-seeds the font.
func (m *Memory) Reset() {
	m.data = [Size]byte{}
	copy(m.data[FontStart:], font[:])
}

// ReadByte returns the byte at the given address.
func (m *Memory) ReadByte(address uint16) (byte, error) {
	if address > MaxAddress {
		return 0, &AddressError{Address: address, Size: 1}
	}
	return m.data[address], nil
}

// WriteByte sets the byte at the given address.
func (m *Memory) WriteByte(address uint16, value byte) error {
	if address > MaxAddress {
		return &AddressError{Address: address, Size: 1}
	}
	m.data[address] = value
	return nil
}

// ReadWord returns the big endian 16 bit word at the given address.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	if err := m.Range(address, 2); err != nil {
		return 0, err
	}
	return uint16(m.data[address])<<8 | uint16(m.data[address+1]), nil
}

// Range checks that n bytes starting at address are addressable.
// Multi byte operations call it before changing any state.
func (m *Memory) Range(address uint16, n int) error {
	if n < 0 || int(address)+n > Size {
		return &AddressError{Address: address, Size: n}
	}
	return nil
}

// Slice returns a copy of n bytes starting at address.
func (m *Memory) Slice(address uint16, n int) ([]byte, error) {
	if err := m.Range(address, n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, m.data[address:])
	return b, nil
}

// Store copies data to memory starting at address. Nothing is written
// if the data does not fit.
func (m *Memory) Store(address uint16, data []byte) error {
	if err := m.Range(address, len(data)); err != nil {
		return err
	}
	copy(m.data[address:], data)
	return nil
}

// LoadProgram copies the program to ProgramStart.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return &AddressError{Address: ProgramStart, Size: len(program)}
	}
	return m.Store(ProgramStart, program)
}

// FontAddress returns the address of the glyph for the low nibble of digit.
func FontAddress(digit byte) uint16 {
	return FontStart + uint16(digit&0x0F)*FontGlyphSize
}

// Bytes returns a copy of the whole address space.
func (m *Memory) Bytes() [Size]byte {
	return m.data
}
