// Package server implements the authoritative session server: the TCP
// acceptor, the per-connection readers and writers, the session registry,
// and the broadcast engine.
//
// Concurrency model:
//
// One goroutine accepts connections, one reader and one writer run per
// session, and one background ticker waits for timed game events. All
// mutation of the shared game state (seating, actions, turn advances) and
// every snapshot happen under a single mutex, so state changes are
// linearized. Socket reads and writes stay outside that critical section:
// broadcasts are marshaled once from a deep-copy snapshot and delivered
// through per-session buffered queues with write deadlines, so one slow
// peer stalls only its own delivery.
//
// Error isolation:
//
// Protocol errors (malformed frame, non-CONNECT first message, unknown
// kind) drop the offending connection. Rejected actions answer the actor
// with an ERROR message and change nothing. A peer disconnecting triggers
// deregistration, player removal, and a broadcast to everyone left; none
// of this ever takes the server down. The only fatal condition is a bind
// failure at startup.
package server
