// Package websocket provides WebSocket transport for the Game of Life server.
//
// The websocket package implements:
//   - Board-scoped subscriptions
//   - Broadcasting of board updates after every advance
//   - Connection lifecycle management (ping/pong, cleanup)
//
// Architecture:
//
// A central Hub owns all connections. Its Run goroutine is the only code
// touching the subscription map; ServeWS, BroadcastBoard and the client
// pumps talk to it through channels. Each connection has a read pump and a
// write pump goroutine.
//
// Message Protocol:
//
// Clients subscribe with GET /ws?board=<id>. The server sends JSON messages:
//
//	{"board_id": "...", "event": "board_snapshot", "board": {...}}
//	{"board_id": "...", "event": "board_update", "board": {...}}
//
// The snapshot is sent once on connect; updates follow every advance.
// Messages sent by clients are read and discarded.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, board.ID, board)
//	hub.BroadcastBoard(next)
package websocket
