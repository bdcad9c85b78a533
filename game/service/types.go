package service

import (
	"time"

	"github.com/wricardo/mcp-training/lifegame/game/engine"
)

// BoardInfo is the transfer snapshot of a board
type BoardInfo struct {
	ID         string       `json:"id"`
	Grid       engine.Cells `json:"grid"`
	Rows       int          `json:"rows"`
	Columns    int          `json:"columns"`
	Generation int          `json:"generation"`
	LiveCells  int          `json:"live_cells"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	// Cycle is only set by FinalState
	Cycle *CycleInfo `json:"cycle,omitempty"`
}

// CycleInfo describes how a final state was reached
type CycleInfo struct {
	Transitions int  `json:"transitions"` // generations applied during the search
	FirstSeen   int  `json:"first_seen"`  // search step at which the state first appeared
	Period      int  `json:"period"`
	FixedPoint  bool `json:"fixed_point"`
}

// PatternInfo provides information about a stored pattern
type PatternInfo struct {
	Filename    string `json:"filename,omitempty"`
	PatternID   string `json:"pattern_id"` // The identifier to use for board creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`
	Period      int    `json:"period,omitempty"`
	Builtin     bool   `json:"builtin"`
}

// NewBoardInfo converts a board into its transfer snapshot
func NewBoardInfo(board *engine.Board) *BoardInfo {
	return &BoardInfo{
		ID:         board.ID,
		Grid:       board.Grid.Cells(),
		Rows:       board.Rows,
		Columns:    board.Columns,
		Generation: board.Generation,
		LiveCells:  board.Grid.LiveCount(),
		CreatedAt:  board.CreatedAt,
		UpdatedAt:  board.UpdatedAt,
	}
}

func newCycleInfo(final *engine.FinalState) *CycleInfo {
	return &CycleInfo{
		Transitions: final.Transitions,
		FirstSeen:   final.FirstSeen,
		Period:      final.Period,
		FixedPoint:  final.IsFixedPoint(),
	}
}
