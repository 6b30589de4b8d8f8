package atlas

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/flipbook/pkg/errors"
)

// Compression levels accepted by ParseCompression.
var Compression = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"speed":   png.BestSpeed,
	"best":    png.BestCompression,
}

// ParseCompression returns the PNG compression level with the given name.
// An empty name selects the default level.
func ParseCompression(name string) (png.CompressionLevel, error) {
	if name == "" {
		return png.DefaultCompression, nil
	}
	level, ok := Compression[strings.ToLower(name)]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"unknown compression %q (must be default, none, speed or best)", name)
	}
	return level, nil
}

// Encode writes img to w as a lossless PNG with alpha.
func Encode(w io.Writer, img image.Image, level png.CompressionLevel) error {
	if err := imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(level)); err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailure, err, "encode png")
	}
	return nil
}

// EncodeBytes encodes img as PNG in memory.
func EncodeBytes(img image.Image, level png.CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, level); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes img as PNG and stores it at path, returning the number
// of bytes written. See [WriteBytes] for the write guarantee.
func WriteFile(path string, img image.Image, level png.CompressionLevel) (int, error) {
	data, err := EncodeBytes(img, level)
	if err != nil {
		return 0, err
	}
	if err := WriteBytes(path, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// WriteBytes stores encoded atlas data at path.
//
// The data is written to a temporary file in the destination directory and
// renamed into place once complete. On failure the temporary file is removed
// and any existing file at path is left untouched.
func WriteBytes(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailure, err, "create temporary file in %s", dir)
	}
	name := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(name)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailure, err, "write %s", name)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailure, err, "sync %s", name)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailure, err, "close %s", name)
	}
	if err = os.Chmod(name, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailure, err, "chmod %s", name)
	}
	if err = os.Rename(name, path); err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailure, err, "move atlas into %s", path)
	}
	return nil
}
