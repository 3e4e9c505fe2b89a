// Package cpu implements the CHIP-8 register and execution engine. The
// engine owns the register file, program counter, call stack and timers.
// It performs no I/O of its own: applying an instruction mutates register
// state and, where the instruction touches the screen, memory or keypad
// wait state, returns a side-effect descriptor for the frame driver to
// carry out.
package cpu

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/hexkey/gochip8/internal/isa"
	"github.com/hexkey/gochip8/internal/memory"
)

// instructionSize is the width of one instruction word in bytes.
const instructionSize = 2

// stackDepth is the call depth the original interpreter reserved room
// for. The stack grows past it, the constant only sizes the allocation.
const stackDepth = 16

// ErrEmptyCallStack is returned when RET executes with no call in
// flight. This is a fatal invariant violation in the loaded ROM.
var ErrEmptyCallStack = errors.New("return with empty call stack")

// KeyState supplies the engine with the current frame's key state for the
// skip-on-key instructions. The engine never learns which keys exist, it
// only asks about the one register-selected key.
type KeyState interface {
	Pressed(key uint8) bool
}

// Effect is a side effect the engine cannot perform itself. The frame
// driver dispatches it against the screen, memory or run state.
type Effect interface {
	effect()
}

// ClearDisplay asks the driver to blank the display buffer.
type ClearDisplay struct{}

// Draw asks the driver to XOR-blit N sprite bytes from Addr at (X, Y)
// and to store the collision result back via SetFlag.
type Draw struct {
	X, Y uint8
	N    uint8
	Addr uint16
}

// MemDump asks the driver to write Values into memory starting at Addr.
type MemDump struct {
	Values []uint8
	Addr   uint16
}

// MemRead asks the driver to read Count bytes at Addr and hand them back
// via StoreFromV0.
type MemRead struct {
	Count int
	Addr  uint16
}

// WaitKey suspends execution until a key press lands in Register.
type WaitKey struct {
	Register uint8
}

func (ClearDisplay) effect() {}
func (Draw) effect()         {}
func (MemDump) effect()      {}
func (MemRead) effect()      {}
func (WaitKey) effect()      {}

// CPU is the register file and execution state.
type CPU struct {
	// V is the general purpose register file. V[0xF] doubles as the
	// carry/borrow/collision flag and stays readable as a plain register
	// by later instructions.
	V [16]uint8
	// I is the 16-bit index register used as a base address for sprite
	// and bulk memory operations.
	I uint16
	// PC is the program counter.
	PC uint16
	// DT and ST are the delay and sound timers, decremented once per
	// frame while nonzero.
	DT, ST uint8

	stack    []uint16
	randByte func() uint8
}

// New returns an engine with PC at the program start address.
func New() *CPU {
	return &CPU{
		PC:       memory.ProgramStart,
		stack:    make([]uint16, 0, stackDepth),
		randByte: func() uint8 { return uint8(rand.Intn(256)) },
	}
}

// Apply executes one decoded instruction against the register state and
// returns the side effect it produced, if any. keys is the current
// frame's keypad state, consulted only by the skip-on-key instructions.
func (c *CPU) Apply(inst isa.Instruction, keys KeyState) (Effect, error) {
	// The default flow advances PC one word; jump/call/return overwrite
	// it and taken skips advance one extra word.
	c.PC += instructionSize

	switch in := inst.(type) {
	case isa.MachineCall:
		// Machine-code calls are contractual no-ops on an emulator.
	case isa.ClearDisplay:
		return ClearDisplay{}, nil
	case isa.Return:
		if len(c.stack) == 0 {
			return nil, ErrEmptyCallStack
		}
		ret := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		c.PC = ret + instructionSize
	case isa.Jump:
		c.PC = in.Addr
	case isa.Call:
		// Push the pre-increment return address: RET adds the word that
		// steps past the call site.
		c.stack = append(c.stack, c.PC-instructionSize)
		c.PC = in.Addr
	case isa.JumpV0:
		c.PC = in.Addr + uint16(c.V[0])
	case isa.SkipEqLit:
		c.skipIf(c.V[in.X] == in.Val)
	case isa.SkipNeqLit:
		c.skipIf(c.V[in.X] != in.Val)
	case isa.SkipEqReg:
		c.skipIf(c.V[in.X] == c.V[in.Y])
	case isa.SkipNeqReg:
		c.skipIf(c.V[in.X] != c.V[in.Y])
	case isa.SkipKeyPressed:
		c.skipIf(keys.Pressed(c.V[in.X]))
	case isa.SkipKeyReleased:
		c.skipIf(!keys.Pressed(c.V[in.X]))
	case isa.LoadLit:
		c.V[in.X] = in.Val
	case isa.AddLit:
		c.V[in.X] += in.Val
	case isa.Move:
		c.V[in.X] = c.V[in.Y]
	case isa.Or:
		c.V[in.X] |= c.V[in.Y]
	case isa.And:
		c.V[in.X] &= c.V[in.Y]
	case isa.Xor:
		c.V[in.X] ^= c.V[in.Y]
	case isa.AddReg:
		sum := uint16(c.V[in.X]) + uint16(c.V[in.Y])
		c.V[in.X] = uint8(sum)
		c.setFlag(sum > 0xFF)
	case isa.Sub:
		// VF is set when NO borrow occurred.
		noBorrow := c.V[in.X] >= c.V[in.Y]
		c.V[in.X] -= c.V[in.Y]
		c.setFlag(noBorrow)
	case isa.SubN:
		noBorrow := c.V[in.Y] >= c.V[in.X]
		c.V[in.X] = c.V[in.Y] - c.V[in.X]
		c.setFlag(noBorrow)
	case isa.ShiftRight:
		lsb := c.V[in.X] & 0x01
		c.V[in.X] >>= 1
		c.setFlag(lsb != 0)
	case isa.ShiftLeft:
		msb := c.V[in.X] & 0x80
		c.V[in.X] <<= 1
		c.setFlag(msb != 0)
	case isa.Random:
		c.V[in.X] = c.randByte() & in.Mask
	case isa.SetIndex:
		c.I = in.Addr
	case isa.AddIndex:
		c.I += uint16(c.V[in.X])
	case isa.FontIndex:
		c.I = memory.GlyphAddress(c.V[in.X])
	case isa.ReadDelay:
		c.V[in.X] = c.DT
	case isa.SetDelay:
		c.DT = c.V[in.X]
	case isa.SetSound:
		c.ST = c.V[in.X]
	case isa.WaitKey:
		return WaitKey{Register: in.X}, nil
	case isa.Draw:
		return Draw{X: c.V[in.X], Y: c.V[in.Y], N: in.N, Addr: c.I}, nil
	case isa.StoreBCD:
		v := c.V[in.X]
		return MemDump{Values: []uint8{v / 100, v / 10 % 10, v % 10}, Addr: c.I}, nil
	case isa.DumpRegs:
		values := make([]uint8, int(in.X)+1)
		copy(values, c.V[:int(in.X)+1])
		return MemDump{Values: values, Addr: c.I}, nil
	case isa.LoadRegs:
		return MemRead{Count: int(in.X) + 1, Addr: c.I}, nil
	}

	return nil, nil
}

// SetFlag stores the draw collision result into VF.
func (c *CPU) SetFlag(on bool) {
	c.setFlag(on)
}

// StoreFromV0 fills V0 onward with values read back for a MemRead effect.
func (c *CPU) StoreFromV0(values []uint8) {
	copy(c.V[:], values)
}

// TickTimers decrements both timers once, the per-frame tick. It reports
// whether the sound timer was running before the decrement, the signal
// that triggers the beep for this frame.
func (c *CPU) TickTimers() bool {
	beep := c.ST > 0
	if c.DT > 0 {
		c.DT--
	}
	if c.ST > 0 {
		c.ST--
	}
	return beep
}

// StackDepth returns the number of calls in flight.
func (c *CPU) StackDepth() int {
	return len(c.stack)
}

func (c *CPU) skipIf(cond bool) {
	if cond {
		c.PC += instructionSize
	}
}

func (c *CPU) setFlag(on bool) {
	if on {
		c.V[0xF] = 1
	} else {
		c.V[0xF] = 0
	}
}

// String formats a register dump for halt diagnostics.
func (c *CPU) String() string {
	return fmt.Sprintf("V: [% 02X]\nI: %04X PC: %04X SP: %d DT: %02X ST: %02X",
		c.V, c.I, c.PC, len(c.stack), c.DT, c.ST)
}
