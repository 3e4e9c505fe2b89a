// Package isa defines the CHIP-8 instruction set. A 2-byte instruction
// word decodes into exactly one of the variant types below; words that
// match no defined encoding decode into an UnknownOpcodeError.
package isa

import "fmt"

// Instruction is the closed set of decoded CHIP-8 instructions. Each
// variant carries only the operand fields its encoding defines.
type Instruction interface {
	instruction()
}

// MachineCall is the 0x0nnn family (other than CLS and RET). The original
// interpreter jumped into machine code here; emulators treat it as a no-op.
type MachineCall struct{ Addr uint16 }

// ClearDisplay is 00E0 (CLS).
type ClearDisplay struct{}

// Return is 00EE (RET), popping the return address off the call stack.
type Return struct{}

// Jump is 1nnn (JP addr).
type Jump struct{ Addr uint16 }

// Call is 2nnn (CALL addr), pushing the return address.
type Call struct{ Addr uint16 }

// SkipEqLit is 3xkk (SE Vx, byte).
type SkipEqLit struct {
	X   uint8
	Val uint8
}

// SkipNeqLit is 4xkk (SNE Vx, byte).
type SkipNeqLit struct {
	X   uint8
	Val uint8
}

// SkipEqReg is 5xy0 (SE Vx, Vy).
type SkipEqReg struct{ X, Y uint8 }

// LoadLit is 6xkk (LD Vx, byte).
type LoadLit struct {
	X   uint8
	Val uint8
}

// AddLit is 7xkk (ADD Vx, byte). Wraps, never touches VF.
type AddLit struct {
	X   uint8
	Val uint8
}

// Move is 8xy0 (LD Vx, Vy).
type Move struct{ X, Y uint8 }

// Or is 8xy1 (OR Vx, Vy).
type Or struct{ X, Y uint8 }

// And is 8xy2 (AND Vx, Vy).
type And struct{ X, Y uint8 }

// Xor is 8xy3 (XOR Vx, Vy).
type Xor struct{ X, Y uint8 }

// AddReg is 8xy4 (ADD Vx, Vy). VF becomes the carry.
type AddReg struct{ X, Y uint8 }

// Sub is 8xy5 (SUB Vx, Vy). VF is set when no borrow occurred.
type Sub struct{ X, Y uint8 }

// ShiftRight is 8xy6 (SHR Vx). VF takes the shifted-out bit.
type ShiftRight struct{ X, Y uint8 }

// SubN is 8xy7 (SUBN Vx, Vy): Vx = Vy - Vx, same borrow rule as Sub.
type SubN struct{ X, Y uint8 }

// ShiftLeft is 8xyE (SHL Vx). VF takes the shifted-out bit.
type ShiftLeft struct{ X, Y uint8 }

// SkipNeqReg is 9xy0 (SNE Vx, Vy).
type SkipNeqReg struct{ X, Y uint8 }

// SetIndex is Annn (LD I, addr).
type SetIndex struct{ Addr uint16 }

// JumpV0 is Bnnn (JP V0, addr).
type JumpV0 struct{ Addr uint16 }

// Random is Cxkk (RND Vx, byte): a random byte ANDed with the mask.
type Random struct {
	X    uint8
	Mask uint8
}

// Draw is Dxyn (DRW Vx, Vy, n): an n-byte sprite at I, drawn at (Vx, Vy).
type Draw struct{ X, Y, N uint8 }

// SkipKeyPressed is Ex9E (SKP Vx).
type SkipKeyPressed struct{ X uint8 }

// SkipKeyReleased is ExA1 (SKNP Vx).
type SkipKeyReleased struct{ X uint8 }

// ReadDelay is Fx07 (LD Vx, DT).
type ReadDelay struct{ X uint8 }

// WaitKey is Fx0A (LD Vx, K): block until a key press lands in Vx.
type WaitKey struct{ X uint8 }

// SetDelay is Fx15 (LD DT, Vx).
type SetDelay struct{ X uint8 }

// SetSound is Fx18 (LD ST, Vx).
type SetSound struct{ X uint8 }

// AddIndex is Fx1E (ADD I, Vx). Wraps in 16 bits, VF untouched.
type AddIndex struct{ X uint8 }

// FontIndex is Fx29 (LD F, Vx): I = font glyph address of digit Vx.
type FontIndex struct{ X uint8 }

// StoreBCD is Fx33 (LD B, Vx): hundreds/tens/ones of Vx at I..I+2.
type StoreBCD struct{ X uint8 }

// DumpRegs is Fx55 (LD [I], Vx): V0..Vx inclusive into memory at I.
type DumpRegs struct{ X uint8 }

// LoadRegs is Fx65 (LD Vx, [I]): memory at I into V0..Vx inclusive.
type LoadRegs struct{ X uint8 }

func (MachineCall) instruction()     {}
func (ClearDisplay) instruction()    {}
func (Return) instruction()          {}
func (Jump) instruction()            {}
func (Call) instruction()            {}
func (SkipEqLit) instruction()       {}
func (SkipNeqLit) instruction()      {}
func (SkipEqReg) instruction()       {}
func (LoadLit) instruction()         {}
func (AddLit) instruction()          {}
func (Move) instruction()            {}
func (Or) instruction()              {}
func (And) instruction()             {}
func (Xor) instruction()             {}
func (AddReg) instruction()          {}
func (Sub) instruction()             {}
func (ShiftRight) instruction()      {}
func (SubN) instruction()            {}
func (ShiftLeft) instruction()       {}
func (SkipNeqReg) instruction()      {}
func (SetIndex) instruction()        {}
func (JumpV0) instruction()          {}
func (Random) instruction()          {}
func (Draw) instruction()            {}
func (SkipKeyPressed) instruction()  {}
func (SkipKeyReleased) instruction() {}
func (ReadDelay) instruction()       {}
func (WaitKey) instruction()         {}
func (SetDelay) instruction()        {}
func (SetSound) instruction()        {}
func (AddIndex) instruction()        {}
func (FontIndex) instruction()       {}
func (StoreBCD) instruction()        {}
func (DumpRegs) instruction()        {}
func (LoadRegs) instruction()        {}

// UnknownOpcodeError reports an instruction word that matches no defined
// encoding. The machine halts on it rather than guessing a no-op.
type UnknownOpcodeError struct {
	Word uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04X", e.Word)
}

// Decode classifies a 2-byte instruction word. It is pure and total over
// the 16-bit input space: every word yields either exactly one Instruction
// or an UnknownOpcodeError.
func Decode(w uint16) (Instruction, error) {
	var (
		addr = w & 0x0FFF
		x    = uint8(w >> 8 & 0x0F)
		y    = uint8(w >> 4 & 0x0F)
		kk   = uint8(w)
		n    = uint8(w & 0x000F)
	)

	switch w >> 12 {
	case 0x0:
		switch w {
		case 0x00E0:
			return ClearDisplay{}, nil
		case 0x00EE:
			return Return{}, nil
		}
		return MachineCall{Addr: addr}, nil
	case 0x1:
		return Jump{Addr: addr}, nil
	case 0x2:
		return Call{Addr: addr}, nil
	case 0x3:
		return SkipEqLit{X: x, Val: kk}, nil
	case 0x4:
		return SkipNeqLit{X: x, Val: kk}, nil
	case 0x5:
		if n == 0 {
			return SkipEqReg{X: x, Y: y}, nil
		}
	case 0x6:
		return LoadLit{X: x, Val: kk}, nil
	case 0x7:
		return AddLit{X: x, Val: kk}, nil
	case 0x8:
		switch n {
		case 0x0:
			return Move{X: x, Y: y}, nil
		case 0x1:
			return Or{X: x, Y: y}, nil
		case 0x2:
			return And{X: x, Y: y}, nil
		case 0x3:
			return Xor{X: x, Y: y}, nil
		case 0x4:
			return AddReg{X: x, Y: y}, nil
		case 0x5:
			return Sub{X: x, Y: y}, nil
		case 0x6:
			return ShiftRight{X: x, Y: y}, nil
		case 0x7:
			return SubN{X: x, Y: y}, nil
		case 0xE:
			return ShiftLeft{X: x, Y: y}, nil
		}
	case 0x9:
		if n == 0 {
			return SkipNeqReg{X: x, Y: y}, nil
		}
	case 0xA:
		return SetIndex{Addr: addr}, nil
	case 0xB:
		return JumpV0{Addr: addr}, nil
	case 0xC:
		return Random{X: x, Mask: kk}, nil
	case 0xD:
		return Draw{X: x, Y: y, N: n}, nil
	case 0xE:
		switch kk {
		case 0x9E:
			return SkipKeyPressed{X: x}, nil
		case 0xA1:
			return SkipKeyReleased{X: x}, nil
		}
	case 0xF:
		switch kk {
		case 0x07:
			return ReadDelay{X: x}, nil
		case 0x0A:
			return WaitKey{X: x}, nil
		case 0x15:
			return SetDelay{X: x}, nil
		case 0x18:
			return SetSound{X: x}, nil
		case 0x1E:
			return AddIndex{X: x}, nil
		case 0x29:
			return FontIndex{X: x}, nil
		case 0x33:
			return StoreBCD{X: x}, nil
		case 0x55:
			return DumpRegs{X: x}, nil
		case 0x65:
			return LoadRegs{X: x}, nil
		}
	}

	return nil, &UnknownOpcodeError{Word: w}
}
