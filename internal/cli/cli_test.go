package cli

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
)

// execute runs the root command with args in an isolated environment and
// returns what the command wrote to its output writer.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(envRedisURL, "")

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeFrames writes n solid-colored PNGs named 000.png, 001.png, ...
func writeFrames(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		img := imaging.New(8, 8, color.NRGBA{uint8(20 * i), 0, 0, 255})
		if err := imaging.Save(img, filepath.Join(dir, fmt.Sprintf("%03d.png", i))); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}
