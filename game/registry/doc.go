// Package registry provides the board registry for the Game of Life server.
//
// The registry package implements:
//   - Thread-safe board storage and retrieval
//   - Atomic lookup-and-replace of a board's latest state
//   - Case-insensitive board identifiers
//
// Core Types:
//
// Manager maps board ids to the latest engine.Board. Boards are created once
// and then replaced wholesale on every advance; they are never deleted.
//
// Concurrency:
//
// The id map is guarded by a read/write mutex and every board has its own
// lock. Update holds the board's lock while the caller computes the next
// state, so two advances of the same board never interleave while boards
// with different ids advance independently. Readers always observe either
// the previous or the fully updated board.
//
// Usage:
//
//	manager := registry.NewManager()
//
//	board, _ := engine.NewBoard(grid)
//	if err := manager.Create(board); err != nil {
//		log.Fatal(err)
//	}
//
//	next, err := manager.Update(board.ID, func(b *engine.Board) (*engine.Board, error) {
//		return b.Advance(), nil
//	})
package registry
