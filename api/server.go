package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/tableside/monopoly-server/game/state"
	"github.com/tableside/monopoly-server/transport/websocket"
)

// StateProvider is the game server surface the API reads through. Every
// snapshot is taken under the game server's lock.
type StateProvider interface {
	Snapshot() *state.Snapshot
	SessionCount() int
}

// Server is the read-only observer REST surface.
type Server struct {
	provider StateProvider
	hub      *websocket.Hub
	router   *mux.Router
}

// NewServer creates the API server and wires its routes.
func NewServer(provider StateProvider, hub *websocket.Hub) *Server {
	s := &Server{
		provider: provider,
		hub:      hub,
		router:   mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/players", s.handleGetPlayers).Methods("GET")
	api.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	// Observer feed
	s.router.HandleFunc("/ws", s.hub.ServeWS)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.provider.Snapshot())
}

// handleGetPlayers lists the seated players plus the turn pointer, a
// lighter payload than the full snapshot for table-side widgets.
func (s *Server) handleGetPlayers(w http.ResponseWriter, r *http.Request) {
	snap := s.provider.Snapshot()

	players := make([]state.Player, 0, len(snap.Players))
	for _, id := range orderedIDs(snap) {
		players = append(players, snap.Players[id])
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"players":           players,
		"current_player_id": snap.CurrentPlayerID,
		"game_phase":        snap.GamePhase,
		"turn_number":       snap.TurnNumber,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.provider.SessionCount(),
	})
}

// orderedIDs returns player ids sorted for stable output; the snapshot's
// player map has no order of its own.
func orderedIDs(snap *state.Snapshot) []string {
	ids := make([]string, 0, len(snap.Players))
	for id := range snap.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
