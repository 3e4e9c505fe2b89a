// Package rom loads CHIP-8 object code from disk. ROMs are raw binary
// blobs that begin execution at 0x200; loading performs transparent
// decompression for the archive formats ROM collections commonly ship
// in, and validates the image before the machine ever starts.
package rom

import (
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
	"github.com/cespare/xxhash"

	"github.com/hexkey/gochip8/internal/memory"
)

// ErrEmpty is returned for a ROM file with no content.
var ErrEmpty = errors.New("rom file is empty")

// InvalidFormatError is returned when strict validation rejects the
// image, e.g. an odd byte count that cannot be a whole instruction
// stream.
type InvalidFormatError struct {
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return "invalid rom format: " + e.Reason
}

// Image is a loaded and validated ROM.
type Image struct {
	// Name is the base name of the file the image came from.
	Name string
	// Data is the raw object code, loaded at 0x200.
	Data []byte
	// Hash is the xxhash fingerprint of the data, for identification
	// in logs.
	Hash uint64
}

// Load reads the ROM at path, decompressing .gz, .zip and .7z files,
// and validates that the image fits in program memory. With strict set,
// images that are not a whole number of instruction words are rejected
// as well.
func Load(path string, strict bool) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("opening rom: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Image{}, fmt.Errorf("reading rom: %w", err)
	}

	if data, err = decompress(f, data, filepath.Ext(path)); err != nil {
		return Image{}, fmt.Errorf("decompressing rom: %w", err)
	}

	if len(data) == 0 {
		return Image{}, ErrEmpty
	}
	if len(data) > memory.Size-memory.ProgramStart {
		return Image{}, &InvalidFormatError{
			Reason: fmt.Sprintf("%d bytes exceed program memory", len(data)),
		}
	}
	if strict && len(data)%2 != 0 {
		return Image{}, &InvalidFormatError{
			Reason: fmt.Sprintf("%d bytes is not a whole number of instructions", len(data)),
		}
	}

	return Image{
		Name: filepath.Base(path),
		Data: data,
		Hash: xxhash.Sum64(data),
	}, nil
}

// decompress unwraps the archive formats ROM collections ship in. Files
// with any other extension are returned as-is.
func decompress(f *os.File, data []byte, ext string) ([]byte, error) {
	var decoder io.Reader

	switch ext {
	case ".gz":
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		r, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if err := r.Close(); err != nil {
			return nil, err
		}
		return out, nil
	case ".zip":
		r, err := zip.NewReader(f, int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(r.File) == 0 {
			return nil, ErrEmpty
		}
		rc, err := r.File[0].Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		decoder = rc
	case ".7z":
		r, err := sevenzip.NewReader(f, int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(r.File) == 0 {
			return nil, ErrEmpty
		}
		rc, err := r.File[0].Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		decoder = rc
	default:
		return data, nil
	}

	return io.ReadAll(decoder)
}
