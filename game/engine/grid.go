package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Grid is an immutable rows x columns matrix of cells. The zero value is not
// usable; grids are built with Cells.Grid or ParseLayout.
type Grid struct {
	rows    int
	columns int
	cells   []bool // row-major
}

// ValidateDimensions checks that both dimensions are strictly positive.
func ValidateDimensions(rows, columns int) error {
	if rows <= 0 || columns <= 0 {
		return fmt.Errorf("%w: %dx%d, both must be greater than 0", ErrInvalidDimensions, rows, columns)
	}
	return nil
}

func newGrid(rows, columns int) *Grid {
	return &Grid{
		rows:    rows,
		columns: columns,
		cells:   make([]bool, rows*columns),
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Columns returns the number of columns.
func (g *Grid) Columns() int { return g.columns }

// Alive reports whether the cell at (row, col) is live. Coordinates outside
// the grid are dead.
func (g *Grid) Alive(row, col int) bool {
	if row < 0 || row >= g.rows || col < 0 || col >= g.columns {
		return false
	}
	return g.cells[row*g.columns+col]
}

// LiveCount returns the number of live cells.
func (g *Grid) LiveCount() int {
	count := 0
	for _, alive := range g.cells {
		if alive {
			count++
		}
	}
	return count
}

// Key returns the canonical row-major encoding of the grid, one '1' or '0'
// per cell. Two grids of equal dimensions are equal iff their keys are.
func (g *Grid) Key() string {
	var sb strings.Builder
	sb.Grow(len(g.cells))
	for _, alive := range g.cells {
		if alive {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Equal reports whether both grids have the same dimensions and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.rows != other.rows || g.columns != other.columns {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// String renders the grid as newline separated layout rows.
func (g *Grid) String() string {
	return strings.Join(FormatLayout(g), "\n")
}

// MarshalJSON encodes the grid in its transfer form.
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Cells())
}

// UnmarshalJSON decodes a transfer form grid, rejecting malformed input.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var cells Cells
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	parsed, err := cells.Grid()
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}
