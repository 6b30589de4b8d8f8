package io

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/matzehuels/flipbook/pkg/errors"
)

// ReadManifest decodes a manifest from r.
//
// ReadManifest returns an INVALID_INPUT error if:
//   - The JSON is malformed
//   - The grid or cell size is not positive
//   - There are more frames than grid cells
//   - A frame's index is out of sequence or its rectangle does not match
//     the row-major cell for that index
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode manifest")
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// ImportManifest reads a manifest from the file at path.
func ImportManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Manifest{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadManifest(f)
}

// Validate checks the manifest's internal consistency.
func (m Manifest) Validate() error {
	if m.Columns < 1 || m.Rows < 1 || m.CellWidth < 1 || m.CellHeight < 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"grid %dx%d with %dx%d cells is empty", m.Columns, m.Rows, m.CellWidth, m.CellHeight)
	}
	if len(m.Frames) > m.Columns*m.Rows {
		return errors.New(errors.ErrCodeInvalidInput,
			"%d frames do not fit a %dx%d grid", len(m.Frames), m.Columns, m.Rows)
	}
	canvas := image.Rect(0, 0, m.Width, m.Height)
	for i, f := range m.Frames {
		if f.Index != i {
			return errors.New(errors.ErrCodeInvalidInput, "frame %d has index %d", i, f.Index)
		}
		want := image.Rect(0, 0, m.CellWidth, m.CellHeight).
			Add(image.Pt((i%m.Columns)*m.CellWidth, (i/m.Columns)*m.CellHeight))
		got := image.Rect(f.X, f.Y, f.X+f.W, f.Y+f.H)
		if got != want {
			return errors.New(errors.ErrCodeInvalidInput, "frame %d rectangle %v, want %v", i, got, want)
		}
		if !got.In(canvas) {
			return errors.New(errors.ErrCodeInvalidInput, "frame %d rectangle %v outside %v canvas", i, got, canvas.Size())
		}
	}
	return nil
}
