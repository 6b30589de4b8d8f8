package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flipbook/pkg/atlas"
	"github.com/matzehuels/flipbook/pkg/pipeline"
)

// composeFlags are the compose command's flags. Build options only override
// the config file when set explicitly.
type composeFlags struct {
	opts     pipeline.Options
	noCache  bool
	anyCount bool
	noTUI    bool
}

// composeCommand creates the compose command that builds an atlas.
func (c *CLI) composeCommand() *cobra.Command {
	var f composeFlags

	cmd := &cobra.Command{
		Use:   "compose <frames-dir>",
		Short: "Compose a directory of frames into a flipbook atlas",
		Long: `Compose a directory of frames into a flipbook atlas.

Images in the directory are taken in filename order and the first N are
placed row by row on a transparent canvas (7680x6144 by default). Each frame
is scaled to fill its grid cell. The result is written as a PNG.

The frame count must be one of 12, 24, 48, 60, 90, 120, 150 or 180 unless
--any-count is given. Encoded atlases are cached, so rebuilding unchanged
frames with the same settings is instant.`,
		Example: `  flipbook compose renders/explosion -o explosion.png
  flipbook compose frames/ -n 60 --filter lanczos --manifest`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := f.merge(lc.Options, cmd.Flags().Changed)
			opts.Input = args[0]
			if opts.Output == "" {
				opts.Output = filepath.Clean(args[0]) + ".png"
			}
			return c.runCompose(cmd.Context(), opts, lc.Config, f.noCache, f.noTUI)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.opts.Output, "output", "o", "", "output PNG (default: <frames-dir>.png)")
	flags.IntVarP(&f.opts.Frames, "frames", "n", pipeline.DefaultFrames, "number of frames to place")
	flags.IntVar(&f.opts.Width, "width", atlas.DefaultCanvasWidth, "canvas width in pixels")
	flags.IntVar(&f.opts.Height, "height", atlas.DefaultCanvasHeight, "canvas height in pixels")
	flags.StringVar(&f.opts.Filter, "filter", atlas.DefaultFilter, "resample filter: nearest, linear, catmullrom, lanczos")
	flags.IntVar(&f.opts.Workers, "workers", 0, "frames decoded in parallel (default: number of CPUs)")
	flags.StringVar(&f.opts.Compression, "compression", pipeline.DefaultCompression, "PNG compression: default, none, speed, best")
	flags.BoolVar(&f.opts.AutoOrient, "auto-orient", false, "apply EXIF orientation when decoding")
	flags.BoolVar(&f.opts.Manifest, "manifest", false, "write a JSON manifest next to the atlas")
	flags.BoolVar(&f.opts.Refresh, "refresh", false, "rebuild even if a cached atlas exists")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&f.anyCount, "any-count", false, "allow any positive frame count")
	flags.BoolVar(&f.noTUI, "no-tui", false, "log progress instead of drawing a progress bar")

	return cmd
}

// merge overlays explicitly set flags on base.
func (f *composeFlags) merge(base pipeline.Options, changed func(string) bool) pipeline.Options {
	opts := base
	opts.Output = f.opts.Output
	opts.Refresh = f.opts.Refresh
	if changed("frames") {
		opts.Frames = f.opts.Frames
	}
	if changed("width") {
		opts.Width = f.opts.Width
	}
	if changed("height") {
		opts.Height = f.opts.Height
	}
	if changed("filter") {
		opts.Filter = f.opts.Filter
	}
	if changed("workers") {
		opts.Workers = f.opts.Workers
	}
	if changed("compression") {
		opts.Compression = f.opts.Compression
	}
	if changed("auto-orient") {
		opts.AutoOrient = f.opts.AutoOrient
	}
	if changed("manifest") {
		opts.Manifest = f.opts.Manifest
	}
	if f.anyCount {
		opts.StrictCount = false
	}
	return opts
}

// runCompose runs the build in the background and shows its progress.
func (c *CLI) runCompose(ctx context.Context, opts pipeline.Options, cfg Config, noCache, noTUI bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)
	task := runner.Start(ctx, opts)
	title := fmt.Sprintf("Compositing %s", opts.Input)

	switch {
	case noTUI && isTerminal(os.Stderr):
		c.spinProgress(ctx, title, task.Progress())
	case noTUI:
		c.logProgress(task.Progress())
	default:
		if !isTerminal(os.Stderr) {
			c.logProgress(task.Progress())
			break
		}
		if err := runProgress(title, opts.Frames, task.Progress(), task.Cancel); err != nil {
			c.Logger.Debug("progress bar unavailable", "error", err)
			c.logProgress(task.Progress())
		}
	}

	result, err := task.Wait()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Composed %d frames", result.Plan.Frames))
	printResult(result)
	return nil
}

// spinProgress shows a spinner with the current percentage until updates
// is closed.
func (c *CLI) spinProgress(ctx context.Context, title string, updates <-chan int) {
	spinner := newSpinnerWithContext(ctx, title+"...")
	spinner.Start()
	for pct := range updates {
		spinner.SetMessage(fmt.Sprintf("%s... %d%%", title, pct))
	}
	spinner.Stop()
}

// logProgress logs every tenth percent until updates is closed.
func (c *CLI) logProgress(updates <-chan int) {
	next := 10
	for pct := range updates {
		if pct < next {
			continue
		}
		c.Logger.Info("compositing", "progress", fmt.Sprintf("%d%%", pct))
		next = pct/10*10 + 10
	}
}

// printResult prints the completion summary.
func printResult(r *pipeline.Result) {
	printSuccess("Atlas complete: %d columns x %d rows", r.Plan.Columns, r.Plan.Rows)
	printStats(r.Plan, r.Size, r.CacheHit)
	printFile(r.Output)
	if r.ManifestPath != "" {
		printFile(r.ManifestPath)
	}
}
