package engine

import "fmt"

// Cells is the transfer representation of a grid: an ordered sequence of
// rows, each an ordered sequence of cells. It is what crosses the API
// boundary; the engine only works on Grid.
type Cells [][]bool

// Grid converts the nested rows into a Grid. Nil input, an empty outer
// sequence, an empty first row and ragged rows are all rejected with
// ErrInvalidDimensions.
func (c Cells) Grid() (*Grid, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: grid is required", ErrInvalidDimensions)
	}
	rows := len(c)
	if rows == 0 {
		return nil, fmt.Errorf("%w: grid has no rows", ErrInvalidDimensions)
	}
	columns := len(c[0])
	if err := ValidateDimensions(rows, columns); err != nil {
		return nil, err
	}

	g := newGrid(rows, columns)
	for r, row := range c {
		if len(row) != columns {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidDimensions, r, len(row), columns)
		}
		copy(g.cells[r*columns:(r+1)*columns], row)
	}
	return g, nil
}

// Cells returns a freshly allocated transfer copy of the grid.
func (g *Grid) Cells() Cells {
	out := make(Cells, g.rows)
	for r := range out {
		row := make([]bool, g.columns)
		copy(row, g.cells[r*g.columns:(r+1)*g.columns])
		out[r] = row
	}
	return out
}
