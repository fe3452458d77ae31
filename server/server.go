package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tableside/monopoly-server/game/actions"
	"github.com/tableside/monopoly-server/game/state"
	"github.com/tableside/monopoly-server/protocol"
)

// Config holds the listening endpoint.
type Config struct {
	Host string
	Port int
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Observer receives every broadcast payload (unframed JSON envelope) in
// addition to the TCP sessions. The WebSocket hub implements it.
type Observer interface {
	Broadcast(payload []byte)
}

// Server owns the authoritative game state and the client sessions. Every
// state mutation and snapshot runs under one mutex so that joins, leaves,
// rolls, and turn advances are linearized; socket I/O stays outside it.
type Server struct {
	cfg      Config
	mu       sync.Mutex
	game     *state.Game
	proc     *actions.Processor
	registry *Registry
	observer Observer

	ln net.Listener
}

// New creates a server around an existing game.
func New(cfg Config, game *state.Game) *Server {
	return &Server{
		cfg:      cfg,
		game:     game,
		proc:     actions.NewProcessor(game),
		registry: NewRegistry(),
	}
}

// AttachObserver registers an additional broadcast sink. Call before Serve.
func (s *Server) AttachObserver(o Observer) {
	s.observer = o
}

// Listen binds the TCP endpoint. A bind failure is the one fatal startup
// condition.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Addr(), err)
	}
	s.ln = ln
	log.Printf("game server listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound address. Valid after Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until ctx is canceled, spawning one reader per
// connection. It binds the listener first if Listen was not called.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	go s.idleLoop(ctx)
	go func() {
		<-ctx.Done()
		s.ln.Close()
		s.registry.CloseAll()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("accept error: %v", err)
			continue
		}
		go s.handleConn(conn)
	}
}

// Snapshot takes a consistent copy of the game state under the lock. The
// observer REST surface reads through this.
func (s *Server) Snapshot() *state.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// SessionCount returns the number of live client sessions.
func (s *Server) SessionCount() int {
	return s.registry.Count()
}

// handleConn runs the per-connection reader. The first message must be a
// CONNECT; anything else, or a malformed frame, terminates the connection
// without registering a player.
func (s *Server) handleConn(conn net.Conn) {
	peer := conn.RemoteAddr().String()
	log.Printf("new connection from %s", peer)

	first, err := protocol.ReadMessage(conn)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			log.Printf("connection %s: handshake read failed: %v", peer, err)
		}
		conn.Close()
		return
	}
	if first.Type != protocol.KindConnect {
		log.Printf("connection %s: first message was %s, not CONNECT", peer, first.Type)
		conn.Close()
		return
	}

	var connect protocol.ConnectData
	if err := json.Unmarshal(first.Data, &connect); err != nil {
		log.Printf("connection %s: malformed CONNECT payload: %v", peer, err)
		conn.Close()
		return
	}

	name := connect.PlayerName
	if name == "" {
		name = fmt.Sprintf("Player_%d", s.registry.Count()+1)
	}

	sess := newSession(uuid.NewString(), conn)
	sess.playerName = name

	s.mu.Lock()
	_, err = s.game.AddPlayer(sess.playerID, name)
	s.mu.Unlock()
	if err != nil {
		log.Printf("connection %s: cannot seat player: %v", peer, err)
		protocol.WriteMessage(conn, mustMessage(protocol.KindError, protocol.ErrorData{Error: err.Error()}))
		conn.Close()
		return
	}

	s.registry.Add(sess)
	go sess.writeLoop()

	log.Printf("player %q (id %s) joined from %s", name, sess.playerID, peer)
	s.broadcastState()
	s.broadcastMessage(protocol.KindGameEvent, protocol.EventData{
		Event:    "player_joined",
		Message:  fmt.Sprintf("%s joined the game", name),
		PlayerID: sess.playerID,
	})

	s.readLoop(sess)
	s.teardown(sess)
}

// readLoop dispatches messages from an established session until the peer
// disconnects or commits a protocol error.
func (s *Server) readLoop(sess *session) {
	for {
		msg, err := protocol.ReadMessage(sess.conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Printf("session %s: read failed: %v", sess.id, err)
			}
			return
		}

		switch msg.Type {
		case protocol.KindPlayerAction:
			s.handleAction(sess, msg.Data)
		case protocol.KindDisconnect:
			log.Printf("session %s: explicit disconnect", sess.id)
			return
		case protocol.KindConnect:
			s.sendError(sess, "already connected")
		default:
			if !msg.Type.Valid() {
				// Unknown kind is a protocol error: drop the connection.
				log.Printf("session %s: unknown message kind %q", sess.id, msg.Type)
				return
			}
			s.sendError(sess, fmt.Sprintf("unexpected %s message from client", msg.Type))
		}
	}
}

// handleAction decodes and applies one PLAYER_ACTION. Rejections answer
// the actor with an ERROR message and leave state untouched; accepted
// actions broadcast the new state to everyone.
func (s *Server) handleAction(sess *session, raw json.RawMessage) {
	var data protocol.ActionData
	if err := json.Unmarshal(raw, &data); err != nil {
		s.sendError(sess, fmt.Sprintf("malformed action payload: %v", err))
		return
	}
	if data.PlayerID != "" && data.PlayerID != sess.playerID {
		s.sendError(sess, "player_id does not match this session")
		return
	}

	action, err := actions.Decode(data)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}

	s.mu.Lock()
	result, err := s.proc.Apply(sess.playerID, action)
	var snap *state.Snapshot
	if err == nil {
		snap = s.game.Snapshot()
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("session %s: action %q rejected: %v", sess.id, data.Action, err)
		s.sendError(sess, err.Error())
		return
	}

	s.broadcastSnapshot(snap)

	switch {
	case result.Roll != nil:
		r := result.Roll
		log.Printf("player %s rolled %d+%d and moved to %d", sess.playerID, r.Die1, r.Die2, r.NewPosition)
		s.broadcastMessage(protocol.KindDiceRoll, protocol.DiceRollData{
			PlayerID:  sess.playerID,
			Values:    [2]int{r.Die1, r.Die2},
			IsDoubles: r.IsDoubles,
		})
	case result.Purchase != nil:
		pu := result.Purchase
		log.Printf("player %s bought %q for %d", sess.playerID, pu.PropertyName, pu.Price)
		s.broadcastMessage(protocol.KindPropertyTransaction, protocol.PropertyTransactionData{
			PlayerID:     sess.playerID,
			PropertyID:   pu.PropertyID,
			PropertyName: pu.PropertyName,
			Price:        pu.Price,
		})
	case result.TurnEnded:
		s.mu.Lock()
		next := s.game.CurrentPlayerID()
		s.mu.Unlock()
		log.Printf("player %s ended their turn, next: %s", sess.playerID, next)
	}
}

// teardown deregisters a session, removes its player, and tells everyone
// left. Idempotent: losing the race with another teardown path is fine.
func (s *Server) teardown(sess *session) {
	if !s.registry.Remove(sess.id) {
		return
	}
	sess.close()

	s.mu.Lock()
	removed := s.game.RemovePlayer(sess.playerID)
	s.mu.Unlock()

	if removed {
		log.Printf("player %q (id %s) left", sess.playerName, sess.playerID)
		s.broadcastState()
		s.broadcastMessage(protocol.KindGameEvent, protocol.EventData{
			Event:    "player_left",
			Message:  fmt.Sprintf("%s left the game", sess.playerName),
			PlayerID: sess.playerID,
		})
	}
}

// idleLoop is the home for future time-driven game events (none exist in
// the current rule set). It wakes once per second rather than spinning,
// and logs a coarse liveness line once a minute.
func (s *Server) idleLoop(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ticks++
			if ticks%60 == 0 {
				s.mu.Lock()
				players := s.game.PlayerCount()
				turn := s.game.TurnNumber()
				s.mu.Unlock()
				log.Printf("status: %d sessions, %d players, turn %d", s.registry.Count(), players, turn)
			}
		}
	}
}

func mustMessage(kind protocol.Kind, data interface{}) protocol.Message {
	msg, err := protocol.NewMessage(kind, data)
	if err != nil {
		panic(err)
	}
	return msg
}
