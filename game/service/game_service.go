package service

import (
	"context"

	"github.com/wricardo/mcp-training/lifegame/game/engine"
)

// GameService defines all board operations exposed to transports
type GameService interface {
	// Boards
	CreateBoard(ctx context.Context, cells engine.Cells) (*BoardInfo, error)
	CreateBoardFromPattern(ctx context.Context, patternName string) (*BoardInfo, error)
	GetBoard(ctx context.Context, boardID string) (*BoardInfo, error)
	ListBoards(ctx context.Context) ([]*BoardInfo, error)
	BoardCount(ctx context.Context) int

	// Simulation
	NextState(ctx context.Context, boardID string) (*BoardInfo, error)
	StateAfterGenerations(ctx context.Context, boardID string, generations int) (*BoardInfo, error)
	FinalState(ctx context.Context, boardID string) (*BoardInfo, error)

	// Patterns
	ListPatterns(ctx context.Context) ([]*PatternInfo, error)
	LoadPattern(ctx context.Context, name string) (*engine.Pattern, error)
	SavePattern(ctx context.Context, name string, pattern *engine.Pattern) error
	ReloadPatterns(ctx context.Context) error
}

// BoardStore defines board storage operations
type BoardStore interface {
	Create(board *engine.Board) error
	Get(id string) (*engine.Board, error)
	Update(id string, fn func(current *engine.Board) (*engine.Board, error)) (*engine.Board, error)
	List() []*engine.Board
	Count() int
}

// PatternStore loads and saves named starting patterns
type PatternStore interface {
	LoadPattern(name string) (*engine.Pattern, error)
	ListPatterns() ([]*PatternInfo, error)
	SavePattern(name string, pattern *engine.Pattern) error
	// RefreshCache forgets previously loaded patterns
	RefreshCache()
}
