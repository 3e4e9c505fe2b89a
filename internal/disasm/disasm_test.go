package disasm

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		word uint16
		want string
	}{
		{0x00E0, chip8.ClsName},
		{0x00EE, chip8.RetName},
		{0x0123, "sys" + " $123"},
		{0x1234, chip8.JpName + " $234"},
		{0xB234, chip8.JpName + " V0, $234"},
		{0x2456, chip8.CallName + " $456"},
		{0x3A42, chip8.SeName + " VA, $42"},
		{0x5120, chip8.SeName + " V1, V2"},
		{0x4B17, chip8.SneName + " VB, $17"},
		{0x9340, chip8.SneName + " V3, V4"},
		{0x6122, chip8.LdName + " V1, $22"},
		{0x8120, chip8.LdName + " V1, V2"},
		{0xA789, chip8.LdName + " I, $789"},
		{0xF107, chip8.LdName + " V1, DT"},
		{0xF10A, chip8.LdName + " V1, K"},
		{0xF115, chip8.LdName + " DT, V1"},
		{0xF118, chip8.LdName + " ST, V1"},
		{0xF129, chip8.LdName + " F, V1"},
		{0xF133, chip8.LdName + " B, V1"},
		{0xF155, chip8.LdName + " [I], V1"},
		{0xF165, chip8.LdName + " V1, [I]"},
		{0x7301, chip8.AddName + " V3, $01"},
		{0x8124, chip8.AddName + " V1, V2"},
		{0xF11E, chip8.AddName + " I, V1"},
		{0x8341, chip8.OrName + " V3, V4"},
		{0x8342, chip8.AndName + " V3, V4"},
		{0x8343, chip8.XorName + " V3, V4"},
		{0x8345, chip8.SubName + " V3, V4"},
		{0x8347, chip8.SubnName + " V3, V4"},
		{0x8106, chip8.ShrName + " V1"},
		{0x810E, chip8.ShlName + " V1"},
		{0xC50F, chip8.RndName + " V5, $0F"},
		{0xD125, chip8.DrwName + " V1, V2, $5"},
		{0xE19E, chip8.SkpName + " V1"},
		{0xE1A1, chip8.SknpName + " V1"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%04X", tt.word), func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.word))
		})
	}
}

func TestFormatUnknown(t *testing.T) {
	for _, word := range []uint16{0x5121, 0xE1FF, 0xF166} {
		assert.Equal(t, "", Format(word))
	}
}

func TestPrint(t *testing.T) {
	program := []byte{
		0xA2, 0x06, // LD I, $206
		0x12, 0x00, // JP $200
		0xFF, 0xFF, // no encoding, listed as data
		0x80, // trailing odd byte
	}

	var buf bytes.Buffer
	assert.NoError(t, Print(&buf, program))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "0200: A206  "+chip8.LdName+" I, $206", lines[0])
	assert.Equal(t, "0202: 1200  "+chip8.JpName+" $200", lines[1])
	assert.Equal(t, "0204: FFFF  .word $FFFF", lines[2])
	assert.Equal(t, "0206: 80    .byte $80", lines[3])
}
