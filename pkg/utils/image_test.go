package utils

import (
	"image/color"
	"testing"
)

func TestFrameImage(t *testing.T) {
	// 8x2 bitmap: first row fully set, second row clear
	bitmap := []byte{0xFF, 0x00}

	img := FrameImage(bitmap, 8, 2, 1)
	bounds := img.Bounds()
	if bounds.Dx() != 8 || bounds.Dy() != 2 {
		t.Fatalf("bounds %v", bounds)
	}

	for x := 0; x < 8; x++ {
		if r, _, _, _ := img.At(x, 0).RGBA(); r == 0 {
			t.Errorf("pixel (%d,0) not white", x)
		}
		if r, _, _, _ := img.At(x, 1).RGBA(); r != 0 {
			t.Errorf("pixel (%d,1) not black", x)
		}
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := encodePNG(FrameImage([]byte{0xAA}, 8, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	// PNG signature
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Errorf("output does not start with a PNG header: % 02X", data[:8])
	}
}

func TestFrameImageScales(t *testing.T) {
	bitmap := []byte{0x80}

	img := FrameImage(bitmap, 8, 1, 4)
	bounds := img.Bounds()
	if bounds.Dx() != 32 || bounds.Dy() != 4 {
		t.Fatalf("bounds %v", bounds)
	}

	// the set pixel expands to a 4x4 block
	if img.At(0, 0).(color.Gray).Y == 0 {
		t.Error("scaled pixel (0,0) not white")
	}
	if img.At(3, 3).(color.Gray).Y == 0 {
		t.Error("scaled pixel (3,3) not white")
	}
	if img.At(4, 0).(color.Gray).Y != 0 {
		t.Error("pixel outside the block set")
	}
}
