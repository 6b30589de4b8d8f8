package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/matzehuels/flipbook/pkg/atlas"
)

// Manifest describes the layout of a finished atlas.
type Manifest struct {
	Image      string  `json:"image,omitempty"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Columns    int     `json:"columns"`
	Rows       int     `json:"rows"`
	CellWidth  int     `json:"cell_width"`
	CellHeight int     `json:"cell_height"`
	Frames     []Frame `json:"frames"`
}

// Frame is one cell of the atlas.
type Frame struct {
	Index  int    `json:"index"`
	Source string `json:"source,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
}

// ManifestPath returns the manifest path for an atlas path:
// "out/atlas.png" becomes "out/atlas.json".
func ManifestPath(atlasPath string) string {
	return strings.TrimSuffix(atlasPath, filepath.Ext(atlasPath)) + ".json"
}

// NewManifest builds a manifest for plan. image is the atlas file name and
// sources the frame identifiers in order; both may be empty.
func NewManifest(plan atlas.Plan, image string, sources []string) Manifest {
	m := Manifest{
		Width:      plan.CanvasWidth,
		Height:     plan.CanvasHeight,
		Columns:    plan.Columns,
		Rows:       plan.Rows,
		CellWidth:  plan.CellWidth,
		CellHeight: plan.CellHeight,
		Frames:     make([]Frame, plan.Frames),
	}
	if image != "" {
		m.Image = filepath.Base(image)
	}
	for i := range m.Frames {
		r := plan.Cell(i)
		f := Frame{Index: i, X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
		if i < len(sources) {
			f.Source = filepath.Base(sources[i])
		}
		m.Frames[i] = f
	}
	return m
}

// WriteManifest encodes m as indented JSON to w.
func WriteManifest(m Manifest, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportManifest writes m to path, replacing any existing file atomically.
func ExportManifest(m Manifest, path string) error {
	var buf bytes.Buffer
	if err := WriteManifest(m, &buf); err != nil {
		return err
	}
	return atlas.WriteBytes(path, buf.Bytes())
}
