// Package chip8 wires the CHIP-8 devices together and drives them one
// frame at a time. A frame samples input, executes at most one batch of
// instructions, dispatches the engine's side effects against memory and
// the display buffer, ticks the timers and clears the transient key
// state. All mutation is single-writer: the engine mutates registers,
// the frame driver mutates memory and the screen as commanded by the
// returned side effect.
package chip8

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"

	"github.com/hexkey/gochip8/internal/cpu"
	"github.com/hexkey/gochip8/internal/isa"
	"github.com/hexkey/gochip8/internal/keypad"
	"github.com/hexkey/gochip8/internal/memory"
	"github.com/hexkey/gochip8/internal/screen"
)

// runState is the machine's two-state execution mode.
type runState uint8

const (
	// stateNormal means fetch/execute proceeds every frame.
	stateNormal runState = iota
	// stateWaitingForKey suspends fetch/execute until a key press is
	// observed. Timers still tick while suspended.
	stateWaitingForKey
)

// HaltError reports the fault that stopped the run loop, with the
// address and raw instruction word it occurred at. Register state is
// left exactly as it was before the failing fetch.
type HaltError struct {
	Addr uint16
	Word uint16
	Err  error
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("halted at %04X (word %04X): %v", e.Addr, e.Word, e.Err)
}

func (e *HaltError) Unwrap() error { return e.Err }

// FrameResult is what one frame produced for the external collaborators:
// the pixel transitions to render, whether the display was cleared, and
// whether the beeper should sound this frame.
type FrameResult struct {
	Transitions []screen.Transition
	Cleared     bool
	Beep        bool
}

// Chip8 owns the machine state: memory, engine, display buffer, keypad
// and the run-state mode. It is not safe for concurrent use; one frame
// owns every device for its full duration.
type Chip8 struct {
	CPU    *cpu.CPU
	Memory *memory.Memory
	Screen *screen.Buffer
	Keypad *keypad.State

	state   runState
	waitReg uint8
	cycles  int
	logger  *log.Logger
}

// New builds a machine with the program loaded at the start address.
// Oversized programs are rejected here, before the machine ever runs.
func New(program []byte, opts ...Opt) (*Chip8, error) {
	mem, err := memory.New(program)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	m := &Chip8{
		CPU:    cpu.New(),
		Memory: mem,
		Screen: &screen.Buffer{},
		Keypad: &keypad.State{},
		cycles: 1,
		logger: log.NewWithConfig(log.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Frame advances the machine by one frame. input is the character
// sampled for this frame, or 0 for none. A returned error is a
// *HaltError and means the machine must not be stepped again.
func (m *Chip8) Frame(input rune) (FrameResult, error) {
	var res FrameResult

	// Transient key state lives for exactly one frame.
	m.Keypad.Reset()
	if input != 0 {
		m.Keypad.Press(input)
	}

	// A pending key-wait resolves before any fetch happens.
	if m.state == stateWaitingForKey {
		if key, ok := m.Keypad.FirstPressed(); ok {
			m.CPU.V[m.waitReg] = key
			m.state = stateNormal
		}
	}

	if m.state == stateNormal {
		for i := 0; i < m.cycles; i++ {
			if err := m.step(&res); err != nil {
				return res, err
			}
			if m.state == stateWaitingForKey {
				break
			}
		}
	}

	// Timers tick even while the machine waits for a key.
	res.Beep = m.CPU.TickTimers()
	return res, nil
}

// step fetches, decodes and executes a single instruction, then carries
// out the side effect the engine handed back.
func (m *Chip8) step(res *FrameResult) error {
	addr := m.CPU.PC
	word, err := m.Memory.Fetch(addr)
	if err != nil {
		return &HaltError{Addr: addr, Err: err}
	}

	inst, err := isa.Decode(word)
	if err != nil {
		return &HaltError{Addr: addr, Word: word, Err: err}
	}

	effect, err := m.CPU.Apply(inst, m.Keypad)
	if err != nil {
		return &HaltError{Addr: addr, Word: word, Err: err}
	}
	if effect == nil {
		return nil
	}

	switch eff := effect.(type) {
	case cpu.ClearDisplay:
		m.Screen.Clear()
		res.Cleared = true
	case cpu.Draw:
		sprite, err := m.Memory.ReadRange(eff.Addr, int(eff.N))
		if err != nil {
			return &HaltError{Addr: addr, Word: word, Err: err}
		}
		transitions, erased := m.Screen.Draw(eff.X, eff.Y, sprite)
		m.CPU.SetFlag(erased)
		res.Transitions = append(res.Transitions, transitions...)
	case cpu.MemDump:
		if err := m.Memory.WriteRange(eff.Addr, eff.Values); err != nil {
			return &HaltError{Addr: addr, Word: word, Err: err}
		}
	case cpu.MemRead:
		values, err := m.Memory.ReadRange(eff.Addr, eff.Count)
		if err != nil {
			return &HaltError{Addr: addr, Word: word, Err: err}
		}
		m.CPU.StoreFromV0(values)
	case cpu.WaitKey:
		m.state = stateWaitingForKey
		m.waitReg = eff.Register
		m.logger.Debug("waiting for key press",
			log.String("register", fmt.Sprintf("V%X", eff.Register)))
	}

	return nil
}

// Waiting reports whether execution is suspended on a key-wait.
func (m *Chip8) Waiting() bool {
	return m.state == stateWaitingForKey
}

// DumpRegisters formats the engine state for halt diagnostics.
func (m *Chip8) DumpRegisters() string {
	return m.CPU.String()
}
