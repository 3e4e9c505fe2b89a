// Package keypad tracks the 16-key hexadecimal keypad. Keys are
// "pressed this frame" flags: the frame driver resets the pad at the
// start of every frame and feeds it at most one input character.
package keypad

// keyChars maps input characters onto key indices, the hexadecimal
// layout folded onto a QWERTY 4x4 block:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var keyChars = map[rune]uint8{
	'x': 0x0,
	'1': 0x1,
	'2': 0x2,
	'3': 0x3,
	'q': 0x4,
	'w': 0x5,
	'e': 0x6,
	'a': 0x7,
	's': 0x8,
	'd': 0x9,
	'z': 0xA,
	'c': 0xB,
	'4': 0xC,
	'r': 0xD,
	'f': 0xE,
	'v': 0xF,
}

// State is the per-frame pressed set. The zero value is all released.
type State struct {
	pressed [16]bool
}

// Reset releases every key. Called at the start of each frame before new
// input is sampled.
func (s *State) Reset() {
	s.pressed = [16]bool{}
}

// Press marks the key mapped to chr as pressed for the rest of the
// frame. Unrecognized characters are ignored. Case-insensitive.
func (s *State) Press(chr rune) {
	if chr >= 'A' && chr <= 'Z' {
		chr += 'a' - 'A'
	}
	if key, ok := keyChars[chr]; ok {
		s.pressed[key] = true
	}
}

// Pressed reports whether key (0x0..0xF) is down this frame.
func (s *State) Pressed(key uint8) bool {
	return s.pressed[key&0x0F]
}

// FirstPressed returns the lowest-numbered key that is down this frame,
// used to resolve a pending key-wait.
func (s *State) FirstPressed() (uint8, bool) {
	for key, down := range s.pressed {
		if down {
			return uint8(key), true
		}
	}
	return 0, false
}
