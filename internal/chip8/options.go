package chip8

import "github.com/retroenv/retrogolib/log"

// Opt is a function that modifies a Chip8 instance.
type Opt func(m *Chip8)

// WithLogger replaces the machine's default logger.
func WithLogger(logger *log.Logger) Opt {
	return func(m *Chip8) {
		m.logger = logger
	}
}

// WithCyclesPerFrame sets how many instructions execute per frame tick.
// The default of 1 matches the original interpreter's granularity; most
// ROMs are more playable around 8-12.
func WithCyclesPerFrame(cycles int) Opt {
	return func(m *Chip8) {
		if cycles > 0 {
			m.cycles = cycles
		}
	}
}
