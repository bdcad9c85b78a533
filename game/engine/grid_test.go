package engine

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCells_Grid(t *testing.T) {
	tests := []struct {
		name    string
		cells   Cells
		wantErr bool
		rows    int
		columns int
	}{
		{name: "nil grid", cells: nil, wantErr: true},
		{name: "no rows", cells: Cells{}, wantErr: true},
		{name: "zero columns", cells: Cells{{}, {}}, wantErr: true},
		{name: "ragged rows", cells: Cells{{true, false}, {true}}, wantErr: true},
		{name: "ragged longer row", cells: Cells{{true}, {true, false}}, wantErr: true},
		{name: "single cell", cells: Cells{{true}}, rows: 1, columns: 1},
		{name: "rectangular", cells: Cells{{true, false, true}, {false, false, true}}, rows: 2, columns: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := tt.cells.Grid()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDimensions) {
					t.Fatalf("Expected ErrInvalidDimensions, got %v", err)
				}
				if g != nil {
					t.Error("Expected nil grid on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if g.Rows() != tt.rows || g.Columns() != tt.columns {
				t.Errorf("Expected %dx%d, got %dx%d", tt.rows, tt.columns, g.Rows(), g.Columns())
			}
		})
	}
}

func TestCells_RoundTripPreservesOrder(t *testing.T) {
	cells := Cells{
		{true, false, false, true},
		{false, true, false, false},
		{false, false, false, true},
	}

	g, err := cells.Grid()
	if err != nil {
		t.Fatalf("Failed to build grid: %v", err)
	}

	for r := range cells {
		for c := range cells[r] {
			if g.Alive(r, c) != cells[r][c] {
				t.Errorf("Cell (%d,%d): expected %v, got %v", r, c, cells[r][c], g.Alive(r, c))
			}
		}
	}

	if back := g.Cells(); !reflect.DeepEqual(back, cells) {
		t.Errorf("Expected %v, got %v", cells, back)
	}
}

func TestCells_GridCopiesInput(t *testing.T) {
	cells := Cells{{true, false}, {false, true}}
	g, err := cells.Grid()
	if err != nil {
		t.Fatalf("Failed to build grid: %v", err)
	}

	cells[0][0] = false
	if !g.Alive(0, 0) {
		t.Error("Grid changed after mutating the source cells")
	}

	out := g.Cells()
	out[1][1] = false
	if !g.Alive(1, 1) {
		t.Error("Grid changed after mutating its exported cells")
	}
}

func TestGrid_Key(t *testing.T) {
	g := mustLayout(t,
		"O.O",
		".O.",
	)
	if key := g.Key(); key != "101010" {
		t.Errorf("Expected key 101010, got %s", key)
	}
}

func TestGrid_Equal(t *testing.T) {
	a := mustLayout(t, "O.", ".O")
	b := mustLayout(t, "O.", ".O")
	c := mustLayout(t, "O..", ".O.")
	d := mustLayout(t, ".O", "O.")

	if !a.Equal(b) {
		t.Error("Expected identical grids to be equal")
	}
	if a.Equal(c) {
		t.Error("Expected grids of different dimensions to differ")
	}
	if a.Equal(d) {
		t.Error("Expected grids with different cells to differ")
	}
	if a.Equal(nil) {
		t.Error("Expected grid not to equal nil")
	}
}

func TestGrid_AliveOutOfBounds(t *testing.T) {
	g := mustLayout(t, "OO", "OO")
	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if g.Alive(pos[0], pos[1]) {
			t.Errorf("Expected out-of-bounds cell (%d,%d) to be dead", pos[0], pos[1])
		}
	}
}

func TestGrid_LiveCount(t *testing.T) {
	g := mustLayout(t, "O.O", "...", ".OO")
	if got := g.LiveCount(); got != 4 {
		t.Errorf("Expected 4 live cells, got %d", got)
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name          string
		rows, columns int
		wantErr       bool
	}{
		{"zero rows", 0, 3, true},
		{"zero columns", 3, 0, true},
		{"negative rows", -1, 2, true},
		{"single cell", 1, 1, false},
		{"rectangle", 2, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.rows, tt.columns)
			if tt.wantErr && !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("Expected ErrInvalidDimensions, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestGrid_JSON(t *testing.T) {
	g := mustLayout(t, "O.", ".O")

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Failed to marshal grid: %v", err)
	}
	if string(data) != `[[true,false],[false,true]]` {
		t.Errorf("Unexpected JSON: %s", data)
	}

	var ragged Grid
	err = json.Unmarshal([]byte(`[[true,false],[true]]`), &ragged)
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Expected ErrInvalidDimensions for ragged JSON, got %v", err)
	}
}

func TestParseLayout(t *testing.T) {
	g, err := ParseLayout([]string{"#.*", "x_1", "0 O"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := strings.Join(FormatLayout(g), "|"); got != "O.O|O.O|..O" {
		t.Errorf("Unexpected layout %s", got)
	}

	if _, err := ParseLayout(nil); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Expected ErrInvalidDimensions for empty layout, got %v", err)
	}
	if _, err := ParseLayout([]string{"OO", "O"}); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Expected ErrInvalidDimensions for ragged layout, got %v", err)
	}
	if _, err := ParseLayout([]string{"O?"}); err == nil {
		t.Error("Expected error for invalid character")
	}
}
