// Package pipeline runs a complete atlas build for the CLI and the server.
//
// A run takes a directory of frames to a PNG atlas on disk:
//
//  1. Enumerate: list the directory's images and keep the first N
//  2. Layout: compute the grid for N frames on the canvas
//  3. Compose: decode, resize and paste every frame
//  4. Encode: PNG-encode the canvas
//  5. Write: move the PNG (and optional manifest) into place atomically
//
// Steps 3 and 4 are skipped when the artifact cache already holds an atlas
// for the same frame content and options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Input, opts.Output = "frames/", "atlas.png"
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Plan.Columns, result.Plan.Rows, result.Output)
//
// Run asynchronously with a progress stream:
//
//	task := runner.Start(ctx, opts)
//	for pct := range task.Progress() {
//	    fmt.Printf("\r%d%%", pct)
//	}
//	result, err := task.Wait()
package pipeline

import (
	"image/png"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/flipbook/pkg/atlas"
	"github.com/matzehuels/flipbook/pkg/cache"
	"github.com/matzehuels/flipbook/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultFrames is the frame count used when none is given.
	DefaultFrames = 24

	// DefaultCompression is the PNG compression name used when none is given.
	DefaultCompression = "default"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one atlas build.
// It decodes from JSON job requests and from the TOML config file.
type Options struct {
	// Input and output
	Input    string `json:"input" toml:"-"`
	Output   string `json:"output" toml:"-"`
	Manifest bool   `json:"manifest,omitempty" toml:"manifest"`

	// Layout
	Frames      int  `json:"frames,omitempty" toml:"frames"`
	Width       int  `json:"width,omitempty" toml:"width"`
	Height      int  `json:"height,omitempty" toml:"height"`
	StrictCount bool `json:"strict_count,omitempty" toml:"strict_count"` // frames must be one of errors.FrameCountChoices

	// Compositing and encoding
	Filter      string `json:"filter,omitempty" toml:"filter"`
	Workers     int    `json:"workers,omitempty" toml:"workers"`
	Compression string `json:"compression,omitempty" toml:"compression"`
	AutoOrient  bool   `json:"auto_orient,omitempty" toml:"auto_orient"`

	Refresh bool `json:"refresh,omitempty" toml:"-"` // ignore cached atlases

	// Runtime options (not serialized)
	Logger   *log.Logger        `json:"-" toml:"-"`
	Progress atlas.ProgressFunc `json:"-" toml:"-"`

	filter      imaging.ResampleFilter
	compression png.CompressionLevel
}

// DefaultOptions returns options for a DefaultFrames build with every
// other setting left to SetDefaults.
func DefaultOptions() Options {
	return Options{Frames: DefaultFrames}
}

// SetDefaults fills unset fields with defaults. Frames is not among them:
// a zero count is rejected by validation, so callers start from
// DefaultOptions or set it explicitly.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = atlas.DefaultCanvasWidth
	}
	if o.Height == 0 {
		o.Height = atlas.DefaultCanvasHeight
	}
	if o.Filter == "" {
		o.Filter = atlas.DefaultFilter
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Compression == "" {
		o.Compression = DefaultCompression
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every option that can
// be checked without reading the input directory. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()

	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidPath, "input directory is required")
	}
	if err := errors.ValidateOutputPath(o.Output); err != nil {
		return err
	}
	if err := errors.ValidateFrameCount(o.Frames); err != nil {
		return err
	}
	if o.StrictCount {
		if err := errors.ValidateFrameChoice(o.Frames); err != nil {
			return err
		}
	}
	if err := errors.ValidateCanvasSize(o.Width, o.Height); err != nil {
		return err
	}
	f, err := atlas.ParseFilter(o.Filter)
	if err != nil {
		return err
	}
	level, err := atlas.ParseCompression(o.Compression)
	if err != nil {
		return err
	}
	o.filter = f
	o.compression = level
	return nil
}

// KeyOpts returns the cache key options for this build.
func (o *Options) KeyOpts() cache.AtlasKeyOpts {
	return cache.AtlasKeyOpts{
		Frames:      o.Frames,
		Width:       o.Width,
		Height:      o.Height,
		Filter:      o.Filter,
		Compression: int(o.compression),
		AutoOrient:  o.AutoOrient,
	}
}

// composeOptions translates validated options for atlas.Compose.
func (o *Options) composeOptions(progress atlas.ProgressFunc) []atlas.Option {
	return []atlas.Option{
		atlas.WithFilter(o.filter),
		atlas.WithWorkers(o.Workers),
		atlas.WithAutoOrientation(o.AutoOrient),
		atlas.WithProgress(progress),
	}
}

// =============================================================================
// Results
// =============================================================================

// Result describes a finished atlas.
type Result struct {
	// Plan is the grid the frames were placed on.
	Plan atlas.Plan

	// Output is the path of the written atlas.
	Output string

	// ManifestPath is the path of the written manifest, if requested.
	ManifestPath string

	// Sources lists the frame files in placement order.
	Sources []string

	// Size is the encoded atlas size in bytes.
	Size int

	// CacheHit reports whether the encoded atlas came from the cache.
	CacheHit bool

	// Stats contains timing information.
	Stats Stats
}

// Stats contains run timings.
type Stats struct {
	ComposeTime time.Duration
	EncodeTime  time.Duration
	WriteTime   time.Duration
	TotalTime   time.Duration
}
