// Package visualize - Debug plots for orientation predictions: image panels
// with ground truth and predicted poses, and theta error histograms.
package visualize

import (
	"math"

	"github.com/pkg/errors"
)

// Default grid bounds for debug panels.
const (
	DefaultMaxCols = 4
	DefaultMaxRows = 4
)

// Layout is the panel grid for a batch of samples.
type Layout struct {
	// Rows and Cols count samples, not panels. A sample can take more than
	// one panel (ground truth next to prediction).
	Rows, Cols int
	// Samples is the batch size the layout was computed for.
	Samples int
}

// GridLayout computes the sample grid for a batch: at most maxCols columns,
// at least two rows, at most maxRows rows. A batch that fits on one row is
// split over two. Samples beyond the grid are not shown.
//
// Arguments:
// - batch: The number of samples.
// - maxCols: The maximum number of sample columns.
// - maxRows: The maximum number of rows.
//
// Returns:
// - The layout.
// - An error if any argument is not positive.
//
// @example
// l, _ := GridLayout(8, 4, 4) // 2 rows x 4 cols
// l, _ = GridLayout(3, 4, 4)  // 2 rows x 1 col
func GridLayout(batch, maxCols, maxRows int) (Layout, error) {
	if batch <= 0 || maxCols <= 0 || maxRows <= 0 {
		return Layout{}, errors.Errorf("invalid grid: batch=%d maxCols=%d maxRows=%d", batch, maxCols, maxRows)
	}

	cols := min(maxCols, batch)
	rows := int(math.Ceil(float64(batch) / float64(cols)))
	if rows == 1 {
		rows = 2
		cols = max(1, batch/rows)
	}
	rows = min(rows, maxRows)

	return Layout{Rows: rows, Cols: cols, Samples: batch}, nil
}

// Index returns the sample index shown in cell (r, c).
func (l Layout) Index(r, c int) int {
	return r*l.Cols + c
}

// Valid reports whether cell (r, c) holds a sample.
func (l Layout) Valid(r, c int) bool {
	return r >= 0 && c >= 0 && r < l.Rows && c < l.Cols && l.Index(r, c) < l.Samples
}

// Shown returns the number of samples that fit in the grid.
func (l Layout) Shown() int {
	return min(l.Samples, l.Rows*l.Cols)
}
