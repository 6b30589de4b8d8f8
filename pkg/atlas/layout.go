package atlas

import (
	"image"
	"math"

	"github.com/matzehuels/flipbook/pkg/errors"
)

// Default canvas dimensions of a flipbook atlas.
const (
	DefaultCanvasWidth  = 7680
	DefaultCanvasHeight = 6144
)

// Plan is the grid chosen for a frame count and canvas size.
type Plan struct {
	Frames       int `json:"frames"`
	Columns      int `json:"columns"`
	Rows         int `json:"rows"`
	CellWidth    int `json:"cell_width"`
	CellHeight   int `json:"cell_height"`
	CanvasWidth  int `json:"canvas_width"`
	CanvasHeight int `json:"canvas_height"`
}

// ComputeLayout returns the grid for frameCount frames on a
// canvasWidth x canvasHeight canvas.
//
// The result is a pure function of its arguments. It fails with
// INVALID_FRAME_COUNT when frameCount is not positive and with INVALID_INPUT
// when the canvas is too small to give every cell at least one pixel.
func ComputeLayout(frameCount, canvasWidth, canvasHeight int) (Plan, error) {
	if err := errors.ValidateFrameCount(frameCount); err != nil {
		return Plan{}, err
	}
	if err := errors.ValidateCanvasSize(canvasWidth, canvasHeight); err != nil {
		return Plan{}, err
	}

	columns := max(1, int(math.Sqrt(float64(frameCount)*5/4)))
	rows := ceilDiv(frameCount, columns)
	for columns*rows < frameCount {
		columns++
		rows = ceilDiv(frameCount, columns)
	}

	p := Plan{
		Frames:       frameCount,
		Columns:      columns,
		Rows:         rows,
		CellWidth:    canvasWidth / columns,
		CellHeight:   canvasHeight / rows,
		CanvasWidth:  canvasWidth,
		CanvasHeight: canvasHeight,
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	if p.CellWidth == 0 || p.CellHeight == 0 {
		return Plan{}, errors.New(errors.ErrCodeInvalidInput,
			"canvas %dx%d is too small for a %dx%d grid", canvasWidth, canvasHeight, columns, rows)
	}
	return p, nil
}

// Validate checks the structural invariants of p.
func (p Plan) Validate() error {
	if p.Columns < 1 || p.Rows < 1 {
		return errors.New(errors.ErrCodeLayoutInvariant, "grid %dx%d has no cells", p.Columns, p.Rows)
	}
	if p.Capacity() < p.Frames {
		return errors.New(errors.ErrCodeLayoutInvariant,
			"grid %dx%d holds %d cells, need %d", p.Columns, p.Rows, p.Capacity(), p.Frames)
	}
	return nil
}

// Capacity returns the number of cells in the grid.
func (p Plan) Capacity() int {
	return p.Columns * p.Rows
}

// Origin returns the top-left corner of cell i in row-major order.
func (p Plan) Origin(i int) image.Point {
	return image.Pt((i%p.Columns)*p.CellWidth, (i/p.Columns)*p.CellHeight)
}

// Cell returns the canvas rectangle occupied by frame i.
func (p Plan) Cell(i int) image.Rectangle {
	o := p.Origin(i)
	return image.Rect(o.X, o.Y, o.X+p.CellWidth, o.Y+p.CellHeight)
}

// Bounds returns the full canvas rectangle.
func (p Plan) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.CanvasWidth, p.CanvasHeight)
}

// UnusedWidth returns the pixels to the right of the last column.
func (p Plan) UnusedWidth() int {
	return p.CanvasWidth - p.Columns*p.CellWidth
}

// UnusedHeight returns the pixels below the last row.
func (p Plan) UnusedHeight() int {
	return p.CanvasHeight - p.Rows*p.CellHeight
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
