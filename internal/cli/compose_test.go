package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/flipbook/pkg/errors"
	"github.com/matzehuels/flipbook/pkg/io"
	"github.com/matzehuels/flipbook/pkg/pipeline"
)

func TestComposeFlagsMerge(t *testing.T) {
	base := pipeline.Options{Frames: 48, Filter: "lanczos", Manifest: true, StrictCount: true}
	f := composeFlags{
		opts:     pipeline.Options{Output: "out.png", Frames: 12, Filter: "nearest", Width: 100},
		anyCount: true,
	}
	set := map[string]bool{"frames": true, "width": true}

	got := f.merge(base, func(name string) bool { return set[name] })
	if got.Output != "out.png" {
		t.Errorf("output = %q", got.Output)
	}
	if got.Frames != 12 || got.Width != 100 {
		t.Errorf("explicit flags should win: frames=%d width=%d", got.Frames, got.Width)
	}
	if got.Filter != "lanczos" || !got.Manifest {
		t.Errorf("unset flags should keep config values: %+v", got)
	}
	if got.StrictCount {
		t.Error("--any-count should disable the frame count check")
	}
}

func TestComposeCommand(t *testing.T) {
	input := writeFrames(t, 12)
	output := filepath.Join(t.TempDir(), "atlas.png")

	_, err := execute(t, "compose", input, "-o", output, "-n", "12",
		"--width", "120", "--height", "120", "--filter", "nearest", "--manifest", "--no-tui")
	if err != nil {
		t.Fatal(err)
	}

	img, err := imaging.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 120 {
		t.Errorf("atlas size = %v", b)
	}
	m, err := io.ImportManifest(io.ManifestPath(output))
	if err != nil {
		t.Fatal(err)
	}
	if m.Columns != 3 || m.Rows != 4 || len(m.Frames) != 12 {
		t.Errorf("manifest grid = %dx%d with %d frames", m.Columns, m.Rows, len(m.Frames))
	}
}

func TestComposeDefaultOutput(t *testing.T) {
	input := writeFrames(t, 12)
	if _, err := execute(t, "compose", input, "-n", "12", "--width", "60", "--height", "60", "--no-tui"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Clean(input) + ".png"); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

func TestComposeRejected(t *testing.T) {
	input := writeFrames(t, 12)
	out := filepath.Join(t.TempDir(), "atlas.png")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"count not offered", []string{"-n", "10"}, errors.ErrCodeInvalidFrameCount},
		{"zero frames", []string{"-n", "0", "--any-count"}, errors.ErrCodeInvalidFrameCount},
		{"too few frames", []string{"-n", "24"}, errors.ErrCodeInvalidFrameCount},
		{"bad extension", []string{"-n", "12", "-o", strings.TrimSuffix(out, ".png") + ".jpg"}, errors.ErrCodeInvalidPath},
		{"bad filter", []string{"-n", "12", "--filter", "sinc"}, errors.ErrCodeInvalidFilter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"compose", input, "-o", out, "--no-tui", "--width", "60", "--height", "60"}, tt.args...)
			_, err := execute(t, args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("rejected runs should not write an atlas")
	}
}

func TestComposeAnyCount(t *testing.T) {
	input := writeFrames(t, 10)
	out := filepath.Join(t.TempDir(), "atlas.png")
	if _, err := execute(t, "compose", input, "-o", out, "-n", "10", "--any-count",
		"--width", "60", "--height", "60", "--no-tui"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Error(err)
	}
}
