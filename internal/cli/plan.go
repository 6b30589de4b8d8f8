package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flipbook/pkg/atlas"
	"github.com/matzehuels/flipbook/pkg/errors"
	"github.com/matzehuels/flipbook/pkg/pipeline"
)

// planCommand creates the plan command that prints a grid without
// composing anything.
func (c *CLI) planCommand() *cobra.Command {
	var (
		frames, width, height int
		anyCount, asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the atlas grid for a frame count",
		Long: `Show the atlas grid for a frame count.

Prints the number of columns and rows, the size of each cell and the
unused pixels at the right and bottom edges of the canvas. No images are
read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("frames") {
				frames = lc.Frames
			}
			if !flags.Changed("width") && lc.Width > 0 {
				width = lc.Width
			}
			if !flags.Changed("height") && lc.Height > 0 {
				height = lc.Height
			}
			if lc.StrictCount && !anyCount {
				if err := errors.ValidateFrameChoice(frames); err != nil {
					return err
				}
			}

			plan, err := atlas.ComputeLayout(frames, width, height)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			}
			printPlan(plan)
			return nil
		},
	}

	cmd.Flags().IntVarP(&frames, "frames", "n", pipeline.DefaultFrames, "number of frames")
	cmd.Flags().IntVar(&width, "width", atlas.DefaultCanvasWidth, "canvas width in pixels")
	cmd.Flags().IntVar(&height, "height", atlas.DefaultCanvasHeight, "canvas height in pixels")
	cmd.Flags().BoolVar(&anyCount, "any-count", false, "allow any positive frame count")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")

	return cmd
}

func printPlan(p atlas.Plan) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("%d frames on %dx%d", p.Frames, p.CanvasWidth, p.CanvasHeight)))
	printKeyValue("Grid", fmt.Sprintf("%d columns x %d rows", p.Columns, p.Rows))
	printKeyValue("Cell", fmt.Sprintf("%d x %d px", p.CellWidth, p.CellHeight))
	if spare := p.Capacity() - p.Frames; spare > 0 {
		printKeyValue("Empty cells", StyleHighlight.Render(fmt.Sprint(spare)))
	}
	if p.UnusedWidth() > 0 || p.UnusedHeight() > 0 {
		printDetail("%d px unused at the right, %d px at the bottom", p.UnusedWidth(), p.UnusedHeight())
	}
	printNewline()
	printNextStep("Compose", fmt.Sprintf("flipbook compose <frames-dir> -n %d", p.Frames))
}
