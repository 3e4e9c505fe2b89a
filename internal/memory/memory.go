// Package memory implements the CHIP-8 4KiB address space. The first
// 512 bytes belong to the interpreter and hold the built-in font table;
// programs are loaded at 0x200 and run to the end of the space.
package memory

import "fmt"

const (
	// Size is the fixed size of the address space.
	Size = 0x1000
	// ProgramStart is the address programs are loaded at and begin
	// execution from.
	ProgramStart = 0x200
	// GlyphSize is the height in bytes of one built-in font glyph.
	GlyphSize = 5
)

// font holds the 16 built-in hexadecimal digit glyphs, 5 bytes each,
// glyph k at address k*5. ROMs rely on this exact layout.
var font = [16 * GlyphSize]byte{
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

// OutOfMemoryError is returned when a program does not fit in the space
// above ProgramStart. Construction is rejected outright, never truncated.
type OutOfMemoryError struct {
	ProgramSize int
}

func (e *OutOfMemoryError) Error() string {
	return fmt.Sprintf("program size %d exceeds the %d bytes of program memory",
		e.ProgramSize, Size-ProgramStart)
}

// OutOfRangeError is returned for any access beyond the address space.
type OutOfRangeError struct {
	Addr  uint16
	Count int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("access of %d byte(s) at %04X is outside the %04X-byte address space",
		e.Count, e.Addr, Size)
}

// UnalignedFetchError is returned when an instruction fetch lands on an
// odd address. The program counter invariant requires even addresses.
type UnalignedFetchError struct {
	Addr uint16
}

func (e *UnalignedFetchError) Error() string {
	return fmt.Sprintf("instruction fetch at odd address %04X", e.Addr)
}

// Memory is the fixed 4096-byte CHIP-8 address space.
type Memory struct {
	data [Size]byte
}

// New builds the address space with the font table in place and the
// program copied at ProgramStart. Programs larger than the remaining
// space are rejected.
func New(program []byte) (*Memory, error) {
	if len(program) > Size-ProgramStart {
		return nil, &OutOfMemoryError{ProgramSize: len(program)}
	}

	m := &Memory{}
	copy(m.data[:], font[:])
	copy(m.data[ProgramStart:], program)
	return m, nil
}

// Fetch reads the 2-byte instruction word at addr. It fails when addr is
// odd or when addr+1 falls outside the address space.
func (m *Memory) Fetch(addr uint16) (uint16, error) {
	if addr%2 != 0 {
		return 0, &UnalignedFetchError{Addr: addr}
	}
	if int(addr)+1 >= Size {
		return 0, &OutOfRangeError{Addr: addr, Count: 2}
	}
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1]), nil
}

// ReadRange copies count bytes starting at addr. Out-of-range spans fail,
// they are never clamped.
func (m *Memory) ReadRange(addr uint16, count int) ([]byte, error) {
	if int(addr)+count > Size {
		return nil, &OutOfRangeError{Addr: addr, Count: count}
	}
	out := make([]byte, count)
	copy(out, m.data[addr:int(addr)+count])
	return out, nil
}

// WriteRange copies values into the space starting at addr. Out-of-range
// spans fail without writing anything.
func (m *Memory) WriteRange(addr uint16, values []byte) error {
	if int(addr)+len(values) > Size {
		return &OutOfRangeError{Addr: addr, Count: len(values)}
	}
	copy(m.data[addr:], values)
	return nil
}

// GlyphAddress returns the font table address of the glyph for digit.
// Only the low nibble of digit is meaningful.
func GlyphAddress(digit uint8) uint16 {
	return uint16(digit&0x0F) * GlyphSize
}
