// Package disasm renders CHIP-8 object code as an assembly listing. It
// matches instruction words against the published CHIP-8 opcode table
// and formats operands in the conventional Vx/$nnn notation. Words that
// match no encoding are listed as data.
package disasm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"

	"github.com/hexkey/gochip8/internal/memory"
)

// Print writes a listing of program to w, one instruction word per
// line, addressed from the program start at 0x200.
func Print(w io.Writer, program []byte) error {
	buf := bufio.NewWriter(w)

	for off := 0; off+1 < len(program); off += 2 {
		word := uint16(program[off])<<8 | uint16(program[off+1])
		line := Format(word)
		if line == "" {
			line = fmt.Sprintf(".word $%04X", word)
		}
		fmt.Fprintf(buf, "%04X: %04X  %s\n", memory.ProgramStart+off, word, line)
	}
	if len(program)%2 != 0 {
		fmt.Fprintf(buf, "%04X: %02X    .byte $%02X\n",
			memory.ProgramStart+len(program)-1,
			program[len(program)-1], program[len(program)-1])
	}

	return buf.Flush()
}

// Format renders a single instruction word as "mnemonic operands", or
// "" when the word matches no defined encoding.
func Format(word uint16) string {
	ins := lookup(word)
	if ins == nil {
		return ""
	}
	if params := formatParams(ins.Name, word); params != "" {
		return ins.Name + " " + params
	}
	return ins.Name
}

// lookup matches word against the opcode table by first nibble, then
// mask/value.
func lookup(word uint16) *chip8.Instruction {
	for _, op := range chip8.Opcodes[int(word>>12)] {
		if op.Info.Mask&word == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

func formatParams(name string, w uint16) string {
	var (
		addr = w & 0x0FFF
		x    = w >> 8 & 0x0F
		y    = w >> 4 & 0x0F
		kk   = w & 0x00FF
		n    = w & 0x000F
	)

	switch name {
	case chip8.JpName:
		if w&0xF000 == 0xB000 {
			return fmt.Sprintf("V0, $%03X", addr)
		}
		return fmt.Sprintf("$%03X", addr)
	case chip8.CallName, "sys":
		return fmt.Sprintf("$%03X", addr)
	case chip8.SeName, chip8.SneName:
		if w&0xF000 == 0x5000 || w&0xF000 == 0x9000 {
			return fmt.Sprintf("V%X, V%X", x, y)
		}
		return fmt.Sprintf("V%X, $%02X", x, kk)
	case chip8.LdName:
		return formatLoadParams(w)
	case chip8.AddName:
		switch w & 0xF000 {
		case 0x7000:
			return fmt.Sprintf("V%X, $%02X", x, kk)
		case 0x8000:
			return fmt.Sprintf("V%X, V%X", x, y)
		default: // Fx1E
			return fmt.Sprintf("I, V%X", x)
		}
	case chip8.OrName, chip8.AndName, chip8.XorName,
		chip8.SubName, chip8.SubnName:
		return fmt.Sprintf("V%X, V%X", x, y)
	case chip8.ShrName, chip8.ShlName, chip8.SkpName, chip8.SknpName:
		return fmt.Sprintf("V%X", x)
	case chip8.RndName:
		return fmt.Sprintf("V%X, $%02X", x, kk)
	case chip8.DrwName:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, n)
	}
	return ""
}

// formatLoadParams covers the many LD encodings.
func formatLoadParams(w uint16) string {
	x := w >> 8 & 0x0F

	switch w & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, w&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, w>>4&0x0F)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", w&0x0FFF)
	}

	switch w & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}
