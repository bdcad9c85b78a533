package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/lifegame/game/engine"
	"github.com/wricardo/mcp-training/lifegame/observability"
)

// ErrNoPatternStore is returned by pattern operations when the service was
// built without a pattern library.
var ErrNoPatternStore = errors.New("pattern library not configured")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	boards          BoardStore
	patterns        PatternStore
	finalStateLimit int
}

// NewGameService creates a new game service instance. patterns may be nil.
func NewGameService(boards BoardStore, patterns PatternStore) GameService {
	return &gameServiceImpl{
		boards:          boards,
		patterns:        patterns,
		finalStateLimit: engine.MaxFinalStateIterations,
	}
}

// CreateBoard validates the transfer grid and stores a new board
func (s *gameServiceImpl) CreateBoard(ctx context.Context, cells engine.Cells) (*BoardInfo, error) {
	grid, err := cells.Grid()
	if err != nil {
		return nil, err
	}
	return s.createBoard(grid)
}

// CreateBoardFromPattern stores a new board seeded from a named pattern
func (s *gameServiceImpl) CreateBoardFromPattern(ctx context.Context, patternName string) (*BoardInfo, error) {
	if strings.TrimSpace(patternName) == "" {
		return nil, fmt.Errorf("%w: pattern name is required", engine.ErrInvalidArgument)
	}

	pattern, err := s.LoadPattern(ctx, patternName)
	if err != nil {
		return nil, err
	}

	grid, err := pattern.Grid()
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", patternName, err)
	}
	return s.createBoard(grid)
}

func (s *gameServiceImpl) createBoard(grid *engine.Grid) (*BoardInfo, error) {
	board, err := engine.NewBoard(grid)
	if err != nil {
		return nil, err
	}
	if err := s.boards.Create(board); err != nil {
		return nil, fmt.Errorf("failed to store board: %w", err)
	}

	observability.RecordBoardCreated()
	log.Debug().
		Str("board_id", board.ID).
		Int("rows", board.Rows).
		Int("columns", board.Columns).
		Msg("board created")

	return NewBoardInfo(board), nil
}

// GetBoard returns the latest state of a board without advancing it
func (s *gameServiceImpl) GetBoard(ctx context.Context, boardID string) (*BoardInfo, error) {
	board, err := s.boards.Get(boardID)
	if err != nil {
		return nil, err
	}
	return NewBoardInfo(board), nil
}

// ListBoards returns every stored board
func (s *gameServiceImpl) ListBoards(ctx context.Context) ([]*BoardInfo, error) {
	boards := s.boards.List()
	result := make([]*BoardInfo, 0, len(boards))
	for _, board := range boards {
		result = append(result, NewBoardInfo(board))
	}
	return result, nil
}

// BoardCount returns the number of stored boards
func (s *gameServiceImpl) BoardCount(ctx context.Context) int {
	return s.boards.Count()
}

// NextState advances a board by one generation
func (s *gameServiceImpl) NextState(ctx context.Context, boardID string) (*BoardInfo, error) {
	board, err := s.boards.Update(boardID, func(current *engine.Board) (*engine.Board, error) {
		return current.Advance(), nil
	})
	if err != nil {
		return nil, err
	}

	observability.RecordGenerations(1)
	log.Debug().Str("board_id", board.ID).Int("generation", board.Generation).Msg("board advanced")

	return NewBoardInfo(board), nil
}

// StateAfterGenerations advances a board by the given number of generations.
// The stored board is replaced once, after the last generation.
func (s *gameServiceImpl) StateAfterGenerations(ctx context.Context, boardID string, generations int) (*BoardInfo, error) {
	if generations <= 0 {
		return nil, fmt.Errorf("%w: number of generations must be greater than 0, got %d", engine.ErrInvalidArgument, generations)
	}

	board, err := s.boards.Update(boardID, func(current *engine.Board) (*engine.Board, error) {
		grid := current.Grid
		for i := 0; i < generations; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			grid = engine.Next(grid)
		}
		return current.WithGrid(grid, current.Generation+generations), nil
	})
	if err != nil {
		return nil, err
	}

	observability.RecordGenerations(generations)
	log.Debug().
		Str("board_id", board.ID).
		Int("generations", generations).
		Int("generation", board.Generation).
		Msg("board advanced")

	return NewBoardInfo(board), nil
}

// FinalState advances a board until it repeats a configuration seen since the
// call started. The repeated state is stored and returned.
func (s *gameServiceImpl) FinalState(ctx context.Context, boardID string) (*BoardInfo, error) {
	var final *engine.FinalState

	board, err := s.boards.Update(boardID, func(current *engine.Board) (*engine.Board, error) {
		found, err := engine.FindFinalState(current.Grid, s.finalStateLimit)
		if err != nil {
			return nil, err
		}
		final = found
		return current.WithGrid(found.Grid, current.Generation+found.Transitions), nil
	})
	if err != nil {
		if errors.Is(err, engine.ErrNoStableState) {
			observability.RecordGenerations(s.finalStateLimit)
			observability.RecordFinalStateSearch(observability.OutcomeExhausted)
			log.Info().Str("board_id", boardID).Int("limit", s.finalStateLimit).Msg("no final state within limit")
		}
		return nil, err
	}

	outcome := observability.OutcomeOscillator
	if final.IsFixedPoint() {
		outcome = observability.OutcomeFixedPoint
	}
	observability.RecordGenerations(final.Transitions)
	observability.RecordFinalStateSearch(outcome)
	log.Debug().
		Str("board_id", board.ID).
		Int("transitions", final.Transitions).
		Int("period", final.Period).
		Str("outcome", outcome).
		Msg("final state reached")

	info := NewBoardInfo(board)
	info.Cycle = newCycleInfo(final)
	return info, nil
}

// ListPatterns returns the available starting patterns
func (s *gameServiceImpl) ListPatterns(ctx context.Context) ([]*PatternInfo, error) {
	if s.patterns == nil {
		return []*PatternInfo{}, nil
	}
	return s.patterns.ListPatterns()
}

// LoadPattern returns a pattern by name
func (s *gameServiceImpl) LoadPattern(ctx context.Context, name string) (*engine.Pattern, error) {
	if s.patterns == nil {
		return nil, ErrNoPatternStore
	}
	return s.patterns.LoadPattern(name)
}

// SavePattern validates and stores a pattern
func (s *gameServiceImpl) SavePattern(ctx context.Context, name string, pattern *engine.Pattern) error {
	if s.patterns == nil {
		return ErrNoPatternStore
	}
	return s.patterns.SavePattern(name, pattern)
}

// ReloadPatterns drops cached patterns so edits to the pattern directory
// are picked up on the next load
func (s *gameServiceImpl) ReloadPatterns(ctx context.Context) error {
	if s.patterns == nil {
		return ErrNoPatternStore
	}
	s.patterns.RefreshCache()
	log.Info().Msg("pattern cache cleared")
	return nil
}
