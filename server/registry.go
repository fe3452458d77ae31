package server

import (
	"sync"
)

// Registry tracks live sessions by session id. Registration happens only
// after a successful CONNECT handshake; deregistration on read failure,
// EOF, or explicit DISCONNECT.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*session)}
}

// Add registers a session.
func (r *Registry) Add(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
}

// Remove deregisters a session and closes its outbound queue, stopping its
// write loop. Returns false if the session was already gone.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	delete(r.sessions, id)
	close(s.send)
	return true
}

// Enqueue queues a frame for one session. A full queue means the peer is
// not keeping up; the frame is dropped and false returned so the caller
// can tear the session down.
func (r *Registry) Enqueue(id string, frame []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	select {
	case s.send <- frame:
		return true
	default:
		return false
	}
}

// BroadcastFrame queues a frame for every registered session and returns
// the sessions whose queues were full. Delivery is best-effort per peer;
// one unreachable client never fails the broadcast.
func (r *Registry) BroadcastFrame(frame []byte) []*session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stalled []*session
	for _, s := range r.sessions {
		select {
		case s.send <- frame:
		default:
			stalled = append(stalled, s)
		}
	}
	return stalled
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll closes every session socket, unblocking all readers. Used on
// shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		s.close()
	}
}
