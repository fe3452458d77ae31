// Package websocket provides the read-only observer feed for the Monopoly
// companion server.
//
// The table-side control panel (and any other spectator) connects here
// instead of speaking the framed TCP protocol. The hub receives every
// payload the broadcast engine produces and pushes it to all observers as
// WebSocket text messages.
//
// Architecture:
//
// Hub-and-spoke: one Hub goroutine owns the client set; each observer gets
// a read pump and a write pump. Writes carry deadlines and keepalive
// pings, and an observer that stops draining its queue is dropped without
// affecting anyone else.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	gameServer.AttachObserver(hub)
//	mux.HandleFunc("/ws", hub.ServeWS)
package websocket
