package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tableside/monopoly-server/game/state"
	"github.com/tableside/monopoly-server/transport/websocket"
)

// fakeProvider serves a fixed snapshot, standing in for the game server.
type fakeProvider struct {
	snap     *state.Snapshot
	sessions int
}

func (f *fakeProvider) Snapshot() *state.Snapshot { return f.snap }
func (f *fakeProvider) SessionCount() int         { return f.sessions }

func newTestProvider(t *testing.T) *fakeProvider {
	t.Helper()
	game := state.New()
	if _, err := game.AddPlayer("p1", "Alice"); err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}
	if _, err := game.AddPlayer("p2", "Bob"); err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}
	return &fakeProvider{snap: game.Snapshot(), sessions: 2}
}

func newTestAPI(t *testing.T) *Server {
	t.Helper()
	hub := websocket.NewHub()
	go hub.Run()
	return NewServer(newTestProvider(t), hub)
}

func TestHandleGetState(t *testing.T) {
	srv := newTestAPI(t)

	req := httptest.NewRequest("GET", "/api/state", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %q", ct)
	}

	var snap state.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(snap.Players) != 2 {
		t.Errorf("Expected 2 players, got %d", len(snap.Players))
	}
	if snap.CurrentPlayerID != "p1" {
		t.Errorf("Expected current player p1, got %q", snap.CurrentPlayerID)
	}
	if len(snap.Board.Spaces) != state.BoardSize {
		t.Errorf("Expected %d spaces, got %d", state.BoardSize, len(snap.Board.Spaces))
	}
}

func TestHandleGetPlayers(t *testing.T) {
	srv := newTestAPI(t)

	req := httptest.NewRequest("GET", "/api/players", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body struct {
		Players         []state.Player `json:"players"`
		CurrentPlayerID string         `json:"current_player_id"`
		GamePhase       state.Phase    `json:"game_phase"`
		TurnNumber      int            `json:"turn_number"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(body.Players))
	}
	// Sorted by id: p1 before p2.
	if body.Players[0].Name != "Alice" || body.Players[1].Name != "Bob" {
		t.Errorf("Unexpected player order: %q, %q", body.Players[0].Name, body.Players[1].Name)
	}
	if body.GamePhase != state.PhasePlaying {
		t.Errorf("Expected phase %s, got %s", state.PhasePlaying, body.GamePhase)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestAPI(t)

	req := httptest.NewRequest("GET", "/api/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("Expected status ok, got %q", body.Status)
	}
	if body.Sessions != 2 {
		t.Errorf("Expected 2 sessions, got %d", body.Sessions)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestAPI(t)

	req := httptest.NewRequest("POST", "/api/state", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}
