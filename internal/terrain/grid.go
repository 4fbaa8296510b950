package terrain

import (
	"fmt"
	"math"
)

// HeightGrid is an immutable 2D array of elevation samples, indexed [row][col]
// with row 0 being the top halo row.
type HeightGrid struct {
	cols    int
	rows    int
	samples []float32 // row-major
}

// NewHeightGrid copies rows into a new grid. All rows must have the same length.
func NewHeightGrid(rows [][]float32) (*HeightGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrGridTooSmall)
	}

	cols := len(rows[0])
	samples := make([]float32, 0, cols*len(rows))
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrRaggedGrid, r, len(row), cols)
		}
		samples = append(samples, row...)
	}

	return &HeightGrid{cols: cols, rows: len(rows), samples: samples}, nil
}

// NewHeightGridFromSamples copies a row-major sample slice into a new grid.
func NewHeightGridFromSamples(cols, rows int, samples []float32) (*HeightGrid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrGridTooSmall, cols, rows)
	}
	if len(samples) != cols*rows {
		return nil, fmt.Errorf("%w: got %d samples for %dx%d", ErrRaggedGrid, len(samples), cols, rows)
	}

	return &HeightGrid{
		cols:    cols,
		rows:    rows,
		samples: append([]float32(nil), samples...),
	}, nil
}

// Cols returns the number of columns including the halo.
func (g *HeightGrid) Cols() int {
	return g.cols
}

// Rows returns the number of rows including the halo.
func (g *HeightGrid) Rows() int {
	return g.rows
}

// At returns the sample at (col, row) without bounds checking beyond the slice's own.
func (g *HeightGrid) At(col, row int) float32 {
	return g.samples[row*g.cols+col]
}

// Sample returns the sample at (col, row), or ErrOutOfHalo if the coordinate
// lies outside the grid.
func (g *HeightGrid) Sample(col, row int) (float32, error) {
	if !g.inside(col, row) {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrOutOfHalo, col, row, g.cols, g.rows)
	}
	return g.At(col, row), nil
}

// Samples returns a row-major copy of every sample.
func (g *HeightGrid) Samples() []float32 {
	return append([]float32(nil), g.samples...)
}

// CheckFinite returns ErrNonFiniteSample for the first NaN or infinite sample.
func (g *HeightGrid) CheckFinite() error {
	for i, z := range g.samples {
		if math.IsNaN(float64(z)) || math.IsInf(float64(z), 0) {
			return fmt.Errorf("%w: %v at (%d,%d)", ErrNonFiniteSample, z, i%g.cols, i/g.cols)
		}
	}
	return nil
}

func (g *HeightGrid) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.cols && row < g.rows
}
