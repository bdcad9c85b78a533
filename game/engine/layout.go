package engine

import "fmt"

const (
	// LiveChar and DeadChar are used when rendering layouts.
	LiveChar = 'O'
	DeadChar = '.'
)

// ParseLayout builds a grid from text rows. O, #, *, X and 1 mark live
// cells; '.', '_', '-', '0' and space mark dead ones.
func ParseLayout(layout []string) (*Grid, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("%w: layout has no rows", ErrInvalidDimensions)
	}

	cells := make(Cells, len(layout))
	for r, line := range layout {
		row := make([]bool, 0, len(line))
		for c, ch := range line {
			switch ch {
			case 'O', 'o', '#', '*', 'X', 'x', '1':
				row = append(row, true)
			case '.', '_', '-', '0', ' ':
				row = append(row, false)
			default:
				return nil, fmt.Errorf("invalid layout character %q at row %d, col %d", ch, r, c)
			}
		}
		cells[r] = row
	}
	return cells.Grid()
}

// FormatLayout renders a grid as text rows using LiveChar and DeadChar.
func FormatLayout(g *Grid) []string {
	layout := make([]string, g.rows)
	line := make([]byte, g.columns)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.columns; c++ {
			if g.cells[r*g.columns+c] {
				line[c] = LiveChar
			} else {
				line[c] = DeadChar
			}
		}
		layout[r] = string(line)
	}
	return layout
}
