// Package source enumerates frame images on disk.
//
// Frames are the image files of a single directory taken in lexicographic
// filename order. Hidden entries, subdirectories and files whose extension
// is not a supported image format are skipped. The resulting ordered list is
// truncated to the requested frame count before it reaches the compositor.
package source

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/flipbook/pkg/errors"
)

// Extensions lists the recognised frame file extensions (lowercase).
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// IsImage reports whether name has a recognised image extension.
func IsImage(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// List returns the paths of all frame images in dir, sorted by filename.
func List(dir string) ([]string, error) {
	if err := errors.ValidateInputDir(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", dir)
	}

	// os.ReadDir returns entries sorted by filename.
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !IsImage(name) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeNoFramesFound, "no image files in %s", dir)
	}
	return paths, nil
}

// Select returns the first n paths. It fails with INVALID_FRAME_COUNT if
// fewer than n are available.
func Select(paths []string, n int) ([]string, error) {
	if err := errors.ValidateFrameCount(n); err != nil {
		return nil, err
	}
	if len(paths) < n {
		return nil, errors.New(errors.ErrCodeInvalidFrameCount,
			"found %d frames, need %d", len(paths), n)
	}
	return paths[:n:n], nil
}
