package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/flipbook/pkg/errors"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListSortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "frame_10.png", "frame_02.png", "frame_01.PNG", "b.jpg", "notes.txt", ".hidden.png")
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"b.jpg", "frame_01.PNG", "frame_02.png", "frame_10.png"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i, name := range want {
		if got[i] != filepath.Join(dir, name) {
			t.Errorf("List()[%d] = %s, want %s", i, filepath.Base(got[i]), name)
		}
	}
}

func TestListErrors(t *testing.T) {
	empty := t.TempDir()
	touch(t, empty, "readme.md")

	file := filepath.Join(t.TempDir(), "a.png")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dir  string
		code errors.Code
	}{
		{"empty path", "", errors.ErrCodeInvalidPath},
		{"missing", filepath.Join(empty, "nope"), errors.ErrCodeFileNotFound},
		{"not a directory", file, errors.ErrCodeInvalidPath},
		{"no images", empty, errors.ErrCodeNoFramesFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := List(tt.dir)
			if !errors.Is(err, tt.code) {
				t.Errorf("List(%q) error = %v, want %s", tt.dir, err, tt.code)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	paths := []string{"a", "b", "c", "d"}

	got, err := Select(paths, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2] != "c" {
		t.Errorf("Select(3) = %v", got)
	}
	if cap(got) != 3 {
		t.Errorf("Select should not expose surplus capacity, cap = %d", cap(got))
	}

	if _, err := Select(paths, 5); !errors.Is(err, errors.ErrCodeInvalidFrameCount) {
		t.Errorf("Select(5) error = %v, want INVALID_FRAME_COUNT", err)
	}
	if _, err := Select(paths, 0); !errors.Is(err, errors.ErrCodeInvalidFrameCount) {
		t.Errorf("Select(0) error = %v, want INVALID_FRAME_COUNT", err)
	}
}

func TestIsImage(t *testing.T) {
	for name, want := range map[string]bool{
		"a.png": true, "a.JPEG": true, "a.webp": true, "a.tiff": true,
		"a.txt": false, "png": false, "a.png.bak": false,
	} {
		if got := IsImage(name); got != want {
			t.Errorf("IsImage(%q) = %v, want %v", name, got, want)
		}
	}
}
