// Package mcp provides a Model Context Protocol server for the Game of Life.
//
// The server is a thin client of the REST API: every tool call becomes one
// or more HTTP requests against the api package, and the JSON responses are
// rendered as text for the agent. Grids are drawn with O for live cells and
// . for dead ones.
//
// MCP Tools:
//   - create_board: Create a board from layout rows or a named pattern
//   - get_board: Show a board without advancing it
//   - list_boards: List all boards
//   - next_generation: Advance one generation
//   - advance_generations: Advance N generations
//   - final_state: Advance until a state repeats
//   - list_patterns: List named starting patterns
//   - game_rules: Explain the rules
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp handled by Client.HandleHTTP
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
