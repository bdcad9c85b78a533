// Package service provides the simulation layer for the Game of Life server.
//
// The service package implements:
//   - Board creation from transfer grids or named patterns
//   - Single-step, multi-step and final-state advances
//   - Pattern listing, loading and saving
//
// Core Interfaces:
//
// GameService is the interface transports (REST, websocket, MCP) call into.
// BoardStore is implemented by registry.Manager and PatternStore by
// patterns.Manager; both are injected so tests can use isolated instances.
//
// Errors:
//
// Operations return the engine sentinels, wrapped with context:
//   - engine.ErrInvalidDimensions for missing, empty or ragged grids
//   - engine.ErrBoardNotFound for unknown board ids
//   - engine.ErrInvalidArgument for non-positive generation counts
//   - engine.ErrNoStableState when no configuration repeats within
//     engine.MaxFinalStateIterations generations
//
// A failed operation never changes the stored board.
//
// Usage:
//
//	boards := registry.NewManager()
//	library, _ := patterns.NewManager("patterns")
//	gameService := service.NewGameService(boards, library)
//
//	board, err := gameService.CreateBoard(ctx, engine.Cells{
//		{false, false, false},
//		{true, true, true},
//		{false, false, false},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	final, err := gameService.FinalState(ctx, board.ID)
package service
