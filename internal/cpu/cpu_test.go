package cpu

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/hexkey/gochip8/internal/isa"
	"github.com/hexkey/gochip8/internal/memory"
)

// keyStub satisfies KeyState with a fixed pressed set.
type keyStub map[uint8]bool

func (k keyStub) Pressed(key uint8) bool { return k[key] }

func apply(t *testing.T, c *CPU, inst isa.Instruction) Effect {
	t.Helper()
	effect, err := c.Apply(inst, keyStub{})
	assert.NoError(t, err)
	return effect
}

func TestAddCarry(t *testing.T) {
	c := New()
	c.V[0] = 200
	c.V[1] = 100

	apply(t, c, isa.AddReg{X: 0, Y: 1})
	assert.Equal(t, uint8(44), c.V[0])
	assert.Equal(t, uint8(1), c.V[0xF])

	// no overflow clears the flag again
	c.V[2] = 1
	apply(t, c, isa.AddReg{X: 0, Y: 2})
	assert.Equal(t, uint8(45), c.V[0])
	assert.Equal(t, uint8(0), c.V[0xF])
}

func TestSubBorrow(t *testing.T) {
	c := New()

	// Vx >= Vy: no borrow, VF set
	c.V[0], c.V[1] = 10, 3
	apply(t, c, isa.Sub{X: 0, Y: 1})
	assert.Equal(t, uint8(7), c.V[0])
	assert.Equal(t, uint8(1), c.V[0xF])

	// Vx < Vy: borrow, VF cleared, result wraps
	c.V[0], c.V[1] = 3, 10
	apply(t, c, isa.Sub{X: 0, Y: 1})
	assert.Equal(t, uint8(249), c.V[0])
	assert.Equal(t, uint8(0), c.V[0xF])
}

func TestSubNBorrow(t *testing.T) {
	c := New()

	// Vy >= Vx: no borrow, VF set
	c.V[0], c.V[1] = 3, 10
	apply(t, c, isa.SubN{X: 0, Y: 1})
	assert.Equal(t, uint8(7), c.V[0])
	assert.Equal(t, uint8(1), c.V[0xF])

	c.V[0], c.V[1] = 10, 3
	apply(t, c, isa.SubN{X: 0, Y: 1})
	assert.Equal(t, uint8(249), c.V[0])
	assert.Equal(t, uint8(0), c.V[0xF])
}

func TestShifts(t *testing.T) {
	c := New()

	c.V[0] = 0x05
	apply(t, c, isa.ShiftRight{X: 0})
	assert.Equal(t, uint8(0x02), c.V[0])
	assert.Equal(t, uint8(1), c.V[0xF])

	apply(t, c, isa.ShiftRight{X: 0})
	assert.Equal(t, uint8(0x01), c.V[0])
	assert.Equal(t, uint8(0), c.V[0xF])

	c.V[1] = 0x81
	apply(t, c, isa.ShiftLeft{X: 1})
	assert.Equal(t, uint8(0x02), c.V[1])
	assert.Equal(t, uint8(1), c.V[0xF])

	apply(t, c, isa.ShiftLeft{X: 1})
	assert.Equal(t, uint8(0x04), c.V[1])
	assert.Equal(t, uint8(0), c.V[0xF])
}

func TestCallReturn(t *testing.T) {
	c := New()
	assert.Equal(t, uint16(memory.ProgramStart), c.PC)

	apply(t, c, isa.Call{Addr: 0x400})
	assert.Equal(t, uint16(0x400), c.PC)
	assert.Equal(t, 1, c.StackDepth())

	// RET lands one word past the call site
	apply(t, c, isa.Return{})
	assert.Equal(t, uint16(0x202), c.PC)
	assert.Equal(t, 0, c.StackDepth())
}

func TestReturnEmptyStack(t *testing.T) {
	c := New()
	_, err := c.Apply(isa.Return{}, keyStub{})
	assert.True(t, errors.Is(err, ErrEmptyCallStack))
}

func TestSkips(t *testing.T) {
	c := New()
	c.V[3] = 0x42

	apply(t, c, isa.SkipEqLit{X: 3, Val: 0x42})
	assert.Equal(t, uint16(0x204), c.PC)

	apply(t, c, isa.SkipEqLit{X: 3, Val: 0x43})
	assert.Equal(t, uint16(0x206), c.PC)

	apply(t, c, isa.SkipNeqLit{X: 3, Val: 0x43})
	assert.Equal(t, uint16(0x20A), c.PC)

	c.V[4] = 0x42
	apply(t, c, isa.SkipEqReg{X: 3, Y: 4})
	assert.Equal(t, uint16(0x20E), c.PC)

	apply(t, c, isa.SkipNeqReg{X: 3, Y: 4})
	assert.Equal(t, uint16(0x210), c.PC)
}

func TestSkipOnKey(t *testing.T) {
	c := New()
	c.V[0] = 0x5
	keys := keyStub{0x5: true}

	_, err := c.Apply(isa.SkipKeyPressed{X: 0}, keys)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x204), c.PC)

	_, err = c.Apply(isa.SkipKeyReleased{X: 0}, keys)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x206), c.PC)

	_, err = c.Apply(isa.SkipKeyReleased{X: 0}, keyStub{})
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x20A), c.PC)
}

func TestRandomMask(t *testing.T) {
	c := New()
	c.randByte = func() uint8 { return 0xFF }

	apply(t, c, isa.Random{X: 0, Mask: 0x0F})
	assert.Equal(t, uint8(0x0F), c.V[0])

	apply(t, c, isa.Random{X: 0, Mask: 0x00})
	assert.Equal(t, uint8(0x00), c.V[0])
}

func TestIndexOps(t *testing.T) {
	c := New()

	apply(t, c, isa.SetIndex{Addr: 0xFFF})
	assert.Equal(t, uint16(0xFFF), c.I)

	// ADD I wraps in 16 bits and never touches VF
	c.I = 0xFFFF
	c.V[0] = 2
	c.V[0xF] = 1
	apply(t, c, isa.AddIndex{X: 0})
	assert.Equal(t, uint16(1), c.I)
	assert.Equal(t, uint8(1), c.V[0xF])

	c.V[1] = 0xB
	apply(t, c, isa.FontIndex{X: 1})
	assert.Equal(t, uint16(0xB*memory.GlyphSize), c.I)
}

func TestTimers(t *testing.T) {
	c := New()
	c.V[0] = 2
	apply(t, c, isa.SetDelay{X: 0})
	apply(t, c, isa.SetSound{X: 0})
	assert.Equal(t, uint8(2), c.DT)
	assert.Equal(t, uint8(2), c.ST)

	assert.True(t, c.TickTimers())
	assert.True(t, c.TickTimers())
	// sound timer drained, no more beep
	assert.False(t, c.TickTimers())
	assert.Equal(t, uint8(0), c.DT)

	apply(t, c, isa.ReadDelay{X: 5})
	assert.Equal(t, uint8(0), c.V[5])
}

func TestDrawEffect(t *testing.T) {
	c := New()
	c.V[1] = 10
	c.V[2] = 20
	c.I = 0x300

	effect := apply(t, c, isa.Draw{X: 1, Y: 2, N: 5})
	assert.Equal(t, Draw{X: 10, Y: 20, N: 5, Addr: 0x300}, effect)
}

func TestStoreBCDEffect(t *testing.T) {
	c := New()
	c.V[5] = 254
	c.I = 0x300

	effect := apply(t, c, isa.StoreBCD{X: 5})
	assert.Equal(t, MemDump{Values: []uint8{2, 5, 4}, Addr: 0x300}, effect)
}

func TestDumpLoadEffects(t *testing.T) {
	c := New()
	c.V[0], c.V[1], c.V[2], c.V[3] = 1, 2, 3, 4
	c.I = 0x300

	effect := apply(t, c, isa.DumpRegs{X: 3})
	assert.Equal(t, MemDump{Values: []uint8{1, 2, 3, 4}, Addr: 0x300}, effect)

	effect = apply(t, c, isa.LoadRegs{X: 3})
	assert.Equal(t, MemRead{Count: 4, Addr: 0x300}, effect)

	c.StoreFromV0([]uint8{9, 8})
	assert.Equal(t, uint8(9), c.V[0])
	assert.Equal(t, uint8(8), c.V[1])
	assert.Equal(t, uint8(3), c.V[2])
}

func TestWaitKeyEffect(t *testing.T) {
	c := New()
	effect := apply(t, c, isa.WaitKey{X: 7})
	assert.Equal(t, WaitKey{Register: 7}, effect)
	// PC already advanced, execution resumes past the wait
	assert.Equal(t, uint16(0x202), c.PC)
}

func TestMachineCallIsNoOp(t *testing.T) {
	c := New()
	effect := apply(t, c, isa.MachineCall{Addr: 0x123})
	assert.True(t, effect == nil)
	assert.Equal(t, uint16(0x202), c.PC)
}
