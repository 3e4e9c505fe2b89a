// Package screen implements the monochrome 64x32 display buffer. Sprites
// are XOR-blitted onto it; every pixel that flips is reported so a
// renderer only has to touch the cells that changed.
package screen

const (
	// Width is the horizontal resolution in pixels.
	Width = 64
	// Height is the vertical resolution in pixels.
	Height = 32
)

// PixelState describes the new value of a flipped pixel.
type PixelState uint8

const (
	// Drawn marks a pixel that became set.
	Drawn PixelState = iota
	// Erased marks a pixel that became unset.
	Erased
)

// Transition is one pixel flip produced by a draw.
type Transition struct {
	X, Y  uint8
	State PixelState
}

// Buffer is the one-bit-per-pixel display buffer. The zero value is a
// fully blank screen.
type Buffer struct {
	pixels [Height][Width]bool
}

// Draw XOR-blits sprite at (x, y). Each sprite byte is one 8-pixel row,
// most significant bit leftmost. The start position and columns wrap
// around the 64-pixel width; rows past the bottom edge are clipped.
// It returns every pixel that flipped and whether any previously-set
// pixel was erased, which becomes the new collision flag.
func (b *Buffer) Draw(x, y uint8, sprite []byte) ([]Transition, bool) {
	var (
		transitions []Transition
		erased      bool
	)

	x %= Width
	y %= Height

	for row, bits := range sprite {
		py := int(y) + row
		if py >= Height {
			break
		}
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % Width

			b.pixels[py][px] = !b.pixels[py][px]
			state := Drawn
			if !b.pixels[py][px] {
				state = Erased
				erased = true
			}
			transitions = append(transitions, Transition{
				X:     uint8(px),
				Y:     uint8(py),
				State: state,
			})
		}
	}

	return transitions, erased
}

// Clear resets every pixel to unset. No transitions are reported; the
// caller signals the external display separately.
func (b *Buffer) Clear() {
	b.pixels = [Height][Width]bool{}
}

// Pixel reports whether the pixel at (x, y) is set.
func (b *Buffer) Pixel(x, y uint8) bool {
	return b.pixels[y%Height][x%Width]
}

// Pack serializes the buffer into Width*Height/8 bytes, row-major with
// the most significant bit leftmost. Drivers that ship whole frames (the
// web driver) use this form.
func (b *Buffer) Pack() []byte {
	out := make([]byte, Width*Height/8)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if b.pixels[y][x] {
				out[(y*Width+x)/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return out
}
