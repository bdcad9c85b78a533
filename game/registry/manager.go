package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/wricardo/mcp-training/lifegame/game/engine"
)

// entry holds the current board of one id. mu serializes writers only;
// readers load the pointer and never wait on an advance.
type entry struct {
	mu    sync.Mutex
	board atomic.Pointer[engine.Board]
}

func newEntry(board *engine.Board) *entry {
	e := &entry{}
	e.board.Store(board)
	return e
}

// Manager owns every board in the process, keyed by id
type Manager struct {
	boards map[string]*entry
	mu     sync.RWMutex
}

// NewManager creates an empty registry
func NewManager() *Manager {
	return &Manager{
		boards: make(map[string]*entry),
	}
}

// Create stores a new board
func (m *Manager) Create(board *engine.Board) error {
	if board == nil || board.Grid == nil {
		return fmt.Errorf("%w: board has no grid", engine.ErrInvalidDimensions)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalizeID(board.ID)
	if _, exists := m.boards[key]; exists {
		return engine.ErrBoardAlreadyExists
	}

	m.boards[key] = newEntry(board)
	return nil
}

// Get returns the latest state of a board (case-insensitive id)
func (m *Manager) Get(id string) (*engine.Board, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	return e.board.Load(), nil
}

// Update replaces a board with the result of fn. fn runs while the board's
// entry is locked, so concurrent updates of one id are applied one after
// another. Get and List keep returning the previous board until fn returns.
// When fn returns an error the stored board is left untouched.
func (m *Manager) Update(id string, fn func(current *engine.Board) (*engine.Board, error)) (*engine.Board, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.board.Load()
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil || next.Grid == nil {
		return nil, fmt.Errorf("%w: update produced no grid", engine.ErrInvalidDimensions)
	}
	if next.ID != current.ID {
		return nil, fmt.Errorf("update changed board id from %s to %s", current.ID, next.ID)
	}

	e.board.Store(next)
	return next, nil
}

// List returns the latest state of every board, oldest first
func (m *Manager) List() []*engine.Board {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.boards))
	for _, e := range m.boards {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	result := make([]*engine.Board, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.board.Load())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Count returns the number of stored boards
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.boards)
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.boards[normalizeID(id)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", engine.ErrBoardNotFound, id)
	}
	return e, nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
