// Package atlas assembles an ordered sequence of frames into a single
// fixed-size sprite-sheet image (a "flipbook") for playback as an animated
// texture.
//
// # Overview
//
// Building an atlas has three steps:
//
//  1. [ComputeLayout] picks a grid of columns and rows for the frame count
//     and derives a uniform cell size from the canvas dimensions.
//  2. [Compose] decodes every [FrameSource], resizes it to the cell size and
//     alpha-composites it into its cell on a transparent canvas.
//  3. [Encode] or [WriteFile] stores the finished canvas as PNG.
//
// # Grid Selection
//
// The column count is seeded with floor(sqrt(frames * 5/4)), which biases the
// grid toward a landscape 4:3 aspect ratio, and rows are ceil(frames/columns).
// Cell sizes are the canvas dimensions floor-divided by columns and rows, so
// a few trailing pixels may stay unused when the grid does not divide the
// canvas evenly:
//
//	plan, err := atlas.ComputeLayout(24, atlas.DefaultCanvasWidth, atlas.DefaultCanvasHeight)
//	// plan.Columns == 5, plan.Rows == 5, plan.CellWidth == 1536, plan.CellHeight == 1228
//
// # Placement
//
// Frames are placed in row-major order with the origin at the top-left:
// frame i lands at column i%Columns and row i/Columns. Each frame is scaled
// non-uniformly to exactly fill its cell; the source aspect ratio is not
// preserved. Pasting uses Porter-Duff "over", so transparent source pixels
// leave the canvas untouched.
//
// # Concurrency
//
// Decoding and resizing run on a bounded pool of workers ([WithWorkers]).
// Cells are disjoint rectangles, so workers paste without locking. Progress
// callbacks ([WithProgress]) are serialized and report monotonically
// non-decreasing percentages, one call per frame. The context is checked
// before each frame; cancelling it aborts the composition.
//
// # Errors
//
// Failures carry codes from [github.com/matzehuels/flipbook/pkg/errors]:
// INVALID_FRAME_COUNT, DECODE_FAILURE (with a FrameError naming the frame),
// ENCODE_FAILURE and LAYOUT_INVARIANT_VIOLATION. [WriteFile] never leaves a
// partially written file behind.
package atlas
