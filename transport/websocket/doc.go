// Package websocket pushes Ladder Dare updates to render clients.
//
// Observers connect to /ws?session=<id> and receive JSON messages for that
// session only. They are read-only: anything they send is discarded, and
// all game input goes through the REST API or the terminal driver.
//
// Message Protocol:
//
//	{"session_id": "abc12345", "event": "state_update", "game_state": {...}}
//	{"session_id": "abc12345", "event": "turn_report", "report": {...}, "data": [events]}
//
// A state_update carries a full snapshot, so a client that drops a message
// or reconnects only needs the next one to redraw the board.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Concurrency:
//
// Registration, removal and fan-out run on the hub's event loop. Each
// client has its own read and write goroutine; a client whose buffer is
// full is disconnected rather than slowing down the game.
package websocket
