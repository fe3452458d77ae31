package server

import (
	"log"
	"net"
	"sync"
	"time"
)

const (
	// Time allowed to complete one write to a peer. A slow peer stalls its
	// own delivery goroutine, never the broadcast.
	writeWait = 10 * time.Second

	// Outbound frames buffered per session before the peer is considered
	// too slow and dropped.
	sendBuffer = 64
)

// session is one live client connection: the transport handle, the player
// it registered as, and its outbound queue.
type session struct {
	id         string
	playerID   string
	playerName string
	remoteAddr string
	conn       net.Conn
	send       chan []byte

	closeOnce sync.Once
}

func newSession(id string, conn net.Conn) *session {
	return &session{
		id:         id,
		playerID:   id,
		remoteAddr: conn.RemoteAddr().String(),
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
	}
}

// writeLoop drains the outbound queue onto the socket with a deadline per
// write. It exits when the queue closes or a write fails; either way it
// closes the socket, which unblocks the session's reader.
func (s *session) writeLoop() {
	defer s.conn.Close()

	for frame := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if _, err := s.conn.Write(frame); err != nil {
			log.Printf("session %s: write to %s failed: %v", s.id, s.remoteAddr, err)
			return
		}
	}
}

// close shuts the socket down. Safe to call from any goroutine, any number
// of times; the registry owns closing the send channel.
func (s *session) close() {
	s.closeOnce.Do(func() {
		s.conn.Close()
	})
}
