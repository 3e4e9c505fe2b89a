package rom

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/hexkey/gochip8/internal/memory"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad(t *testing.T) {
	data := []byte{0x12, 0x00, 0x60, 0xFF}
	path := writeFile(t, "game.ch8", data)

	image, err := Load(path, false)
	assert.NoError(t, err)
	assert.Equal(t, "game.ch8", image.Name)
	assert.Equal(t, data, image.Data)
	assert.True(t, image.Hash != 0)
}

func TestLoadEmpty(t *testing.T) {
	path := writeFile(t, "empty.ch8", nil)

	_, err := Load(path, false)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestLoadOversized(t *testing.T) {
	path := writeFile(t, "big.ch8", make([]byte, memory.Size))

	_, err := Load(path, false)
	var formatErr *InvalidFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestLoadStrictOddLength(t *testing.T) {
	path := writeFile(t, "odd.ch8", []byte{0x12, 0x00, 0x60})

	// odd byte counts pass by default and fail under strict validation
	_, err := Load(path, false)
	assert.NoError(t, err)

	_, err = Load(path, true)
	var formatErr *InvalidFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestLoadGzip(t *testing.T) {
	data := []byte{0x12, 0x00, 0x60, 0xFF}
	path := filepath.Join(t.TempDir(), "game.ch8.gz")

	f, err := os.Create(path)
	assert.NoError(t, err)
	w := gzip.NewWriter(f)
	_, err = w.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, f.Close())

	image, err := Load(path, true)
	assert.NoError(t, err)
	assert.Equal(t, data, image.Data)
}

func TestLoadGzipTruncated(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte{0x12, 0x00, 0x60, 0xFF})
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	// drop the trailer so decompression cannot finish cleanly
	path := writeFile(t, "broken.ch8.gz", buf.Bytes()[:buf.Len()-4])

	_, err = Load(path, false)
	assert.Error(t, err)
}

func TestLoadZip(t *testing.T) {
	data := []byte{0x12, 0x00, 0x60, 0xFF}
	path := filepath.Join(t.TempDir(), "game.zip")

	f, err := os.Create(path)
	assert.NoError(t, err)
	w := zip.NewWriter(f)
	entry, err := w.Create("game.ch8")
	assert.NoError(t, err)
	_, err = entry.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, f.Close())

	image, err := Load(path, true)
	assert.NoError(t, err)
	assert.Equal(t, data, image.Data)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ch8"), false)
	assert.Error(t, err)
}
