package errors

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// FrameCountChoices are the frame counts offered to interactive callers.
// The compositor itself accepts any positive count.
var FrameCountChoices = []int{12, 24, 48, 60, 90, 120, 150, 180}

// ValidateFrameCount checks that n is positive.
func ValidateFrameCount(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidFrameCount, "frame count must be positive, got %d", n)
	}
	return nil
}

// ValidateFrameChoice checks that n is one of FrameCountChoices.
func ValidateFrameChoice(n int) error {
	if err := ValidateFrameCount(n); err != nil {
		return err
	}
	if !slices.Contains(FrameCountChoices, n) {
		return New(ErrCodeInvalidFrameCount, "frame count %d is not one of %v", n, FrameCountChoices)
	}
	return nil
}

// ValidateCanvasSize checks that both canvas dimensions are positive.
func ValidateCanvasSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "canvas size must be positive, got %dx%d", width, height)
	}
	return nil
}

// ValidateOutputPath validates the destination of an atlas.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension must be .png (case-insensitive)
//   - Must not name an existing directory
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return New(ErrCodeInvalidPath, "output file must have a .png extension: %s", path)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return New(ErrCodeInvalidPath, "output path is a directory: %s", path)
	}

	return nil
}

// ValidateInputDir checks that dir exists and is a directory.
// Whether it holds any frames is decided by the enumerator.
func ValidateInputDir(dir string) error {
	if dir == "" {
		return New(ErrCodeInvalidPath, "input directory cannot be empty")
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return New(ErrCodeFileNotFound, "input directory does not exist: %s", dir)
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "stat %s", dir)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "input path is not a directory: %s", dir)
	}
	return nil
}
