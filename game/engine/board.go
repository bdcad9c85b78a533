package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Board is a grid with an identity. Boards are values: advancing produces a
// new Board that keeps the same ID.
type Board struct {
	ID         string
	Grid       *Grid
	Rows       int
	Columns    int
	Generation int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBoard wraps a grid in a board with a freshly generated id.
func NewBoard(g *Grid) (*Board, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is required", ErrInvalidDimensions)
	}
	if err := ValidateDimensions(g.rows, g.columns); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Board{
		ID:        uuid.NewString(),
		Grid:      g,
		Rows:      g.rows,
		Columns:   g.columns,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Advance returns the board one generation later. The receiver is unchanged.
func (b *Board) Advance() *Board {
	return b.WithGrid(Next(b.Grid), b.Generation+1)
}

// WithGrid returns a copy of the board holding g at the given generation.
// g must have the board's dimensions.
func (b *Board) WithGrid(g *Grid, generation int) *Board {
	return &Board{
		ID:         b.ID,
		Grid:       g,
		Rows:       b.Rows,
		Columns:    b.Columns,
		Generation: generation,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  time.Now(),
	}
}
