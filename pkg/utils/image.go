// Package utils holds small helpers shared by the display drivers.
package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/sqweek/dialog"
	"golang.design/x/clipboard"
	"golang.org/x/image/draw"
)

// FrameImage converts a packed one bit per pixel framebuffer into an
// image, upscaled by scale with nearest neighbour so the pixels stay
// crisp.
func FrameImage(bitmap []byte, width, height, scale int) image.Image {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := 0; i < width*height && i/8 < len(bitmap); i++ {
		if bitmap[i/8]&(0x80>>(i%8)) != 0 {
			img.SetGray(i%width, i/width, color.Gray{Y: 0xFF})
		}
	}

	if scale <= 1 {
		return img
	}
	scaled := image.NewGray(image.Rect(0, 0, width*scale, height*scale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	return scaled
}

// CopyImage places img on the system clipboard as a PNG.
func CopyImage(img image.Image) error {
	if err := clipboard.Init(); err != nil {
		return err
	}

	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)

	return nil
}

// SaveImage asks the user for a destination and writes img there as a
// PNG.
func SaveImage(img image.Image) error {
	filename, err := dialog.File().Filter("PNG Image", "png").Title("Save Screenshot").Save()
	if err != nil {
		return err
	}
	if filepath.Ext(filename) != ".png" {
		filename += ".png"
	}

	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
