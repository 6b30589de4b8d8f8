package cli

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/flipbook/pkg/atlas"
	"github.com/matzehuels/flipbook/pkg/errors"
)

func TestPlanCommandJSON(t *testing.T) {
	tests := []struct {
		args          []string
		columns, rows int
		cellW, cellH  int
	}{
		{[]string{"-n", "24"}, 5, 5, 1536, 1228},
		{[]string{"-n", "12"}, 3, 4, 2560, 1536},
		{[]string{"-n", "7", "--any-count", "--width", "100", "--height", "100"}, 2, 4, 50, 25},
	}
	for _, tt := range tests {
		out, err := execute(t, append([]string{"plan", "--json"}, tt.args...)...)
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		var p atlas.Plan
		if err := json.Unmarshal([]byte(out), &p); err != nil {
			t.Fatalf("%v: %v\n%s", tt.args, err, out)
		}
		if p.Columns != tt.columns || p.Rows != tt.rows || p.CellWidth != tt.cellW || p.CellHeight != tt.cellH {
			t.Errorf("%v: plan = %+v", tt.args, p)
		}
	}
}

func TestPlanCommandRejectsCount(t *testing.T) {
	_, err := execute(t, "plan", "-n", "7")
	if !errors.Is(err, errors.ErrCodeInvalidFrameCount) {
		t.Errorf("error = %v, want INVALID_FRAME_COUNT", err)
	}
}
