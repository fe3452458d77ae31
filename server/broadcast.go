package server

import (
	"log"

	"github.com/tableside/monopoly-server/game/state"
	"github.com/tableside/monopoly-server/protocol"
)

// broadcastState snapshots under the lock and fans the snapshot out.
func (s *Server) broadcastState() {
	s.mu.Lock()
	snap := s.game.Snapshot()
	s.mu.Unlock()
	s.broadcastSnapshot(snap)
}

// broadcastSnapshot pushes an already-taken snapshot to every session and
// observer. The snapshot is a deep copy, so marshaling happens outside the
// state lock.
func (s *Server) broadcastSnapshot(snap *state.Snapshot) {
	s.broadcastMessage(protocol.KindGameState, snap)
}

// broadcastMessage marshals once and enqueues the frame to every session.
// Sessions that cannot keep up get their sockets closed; their readers
// then run the normal teardown path.
func (s *Server) broadcastMessage(kind protocol.Kind, data interface{}) {
	msg, err := protocol.NewMessage(kind, data)
	if err != nil {
		log.Printf("broadcast %s: %v", kind, err)
		return
	}
	payload, err := protocol.Encode(msg)
	if err != nil {
		log.Printf("broadcast %s: %v", kind, err)
		return
	}

	for _, sess := range s.registry.BroadcastFrame(protocol.Frame(payload)) {
		log.Printf("session %s: send queue full, dropping connection", sess.id)
		sess.close()
	}

	if s.observer != nil {
		s.observer.Broadcast(payload)
	}
}

// sendError answers one session with an ERROR message.
func (s *Server) sendError(sess *session, reason string) {
	msg, err := protocol.NewMessage(protocol.KindError, protocol.ErrorData{Error: reason})
	if err != nil {
		log.Printf("session %s: encode error message: %v", sess.id, err)
		return
	}
	payload, err := protocol.Encode(msg)
	if err != nil {
		log.Printf("session %s: encode error message: %v", sess.id, err)
		return
	}
	if !s.registry.Enqueue(sess.id, protocol.Frame(payload)) {
		sess.close()
	}
}
