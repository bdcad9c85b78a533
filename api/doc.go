// Package api provides HTTP REST API handlers for the Game of Life server.
//
// The api package implements:
//   - Board creation, listing and lookup
//   - Single-step, multi-step and final-state advances
//   - Pattern listing, lookup and saving
//   - WebSocket upgrade handling
//   - Health and Prometheus metrics endpoints
//
// Endpoints:
//
// Boards:
//   - POST /api/boards - Create a board from {"grid": [[bool]]} or {"pattern": "name"}
//   - GET /api/boards - List boards
//   - GET /api/boards/{id} - Get the current state of a board
//
// Simulation:
//   - GET /api/boards/{id}/next - Advance one generation
//   - GET /api/boards/{id}/generations/{count} - Advance count generations
//   - GET /api/boards/{id}/final - Advance until a state repeats
//
// The same operations are served under /game (POST /game/create,
// GET /game/{id}/next, /game/{id}/generations/{count}, /game/{id}/final).
// /game/create also accepts a bare [[bool]] body.
//
// Patterns:
//   - GET /api/patterns - List available patterns
//   - GET /api/patterns/{name} - Get a pattern
//   - POST /api/patterns - Save a pattern
//   - POST /api/patterns/reload - Re-read pattern files on next use
//
// Other:
//   - GET /ws?board={id} - Subscribe to board updates
//   - GET /health - Liveness check with the number of stored boards
//   - GET /swagger/v1/swagger.json - OpenAPI description of these routes
//   - GET /swagger - Swagger UI over that description
//   - GET /metrics - Prometheus metrics
//
// Boards are returned as:
//
//	{
//	  "id": "6f1c...",
//	  "grid": [[false, true, false], ...],
//	  "rows": 3,
//	  "columns": 3,
//	  "generation": 4,
//	  "live_cells": 3,
//	  "created_at": "...",
//	  "updated_at": "...",
//	  "cycle": {"transitions": 2, "first_seen": 0, "period": 2, "fixed_point": false}
//	}
//
// cycle is only present on final-state responses.
//
// Error Handling:
//
// Errors are returned as {"error": "message"} with these statuses:
//   - 400 for invalid grids, non-positive or non-integer counts, bad bodies
//   - 404 for unknown boards and patterns
//   - 422 when no final state is found within the iteration limit
//   - 500 for anything else
//
// Usage:
//
//	server := api.NewServer(gameService, hub, api.WithCORSOrigins("*"))
//	http.ListenAndServe(":8080", server)
package api
