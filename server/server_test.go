package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/tableside/monopoly-server/game/state"
	"github.com/tableside/monopoly-server/protocol"
)

const recvTimeout = 3 * time.Second

// startTestServer runs a server on a random loopback port and returns its
// address plus a stop function.
func startTestServer(t *testing.T) string {
	t.Helper()

	game := state.NewWithRand(rand.New(rand.NewSource(1)))
	srv := New(Config{Host: "127.0.0.1", Port: 0}, game)
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx); err != nil {
			t.Errorf("Serve returned error: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return srv.Addr().String()
}

// testClient speaks the framed protocol against a test server.
type testClient struct {
	t    *testing.T
	conn net.Conn
}

func dial(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(kind protocol.Kind, data interface{}) {
	c.t.Helper()
	msg, err := protocol.NewMessage(kind, data)
	if err != nil {
		c.t.Fatalf("NewMessage failed: %v", err)
	}
	if err := protocol.WriteMessage(c.conn, msg); err != nil {
		c.t.Fatalf("WriteMessage failed: %v", err)
	}
}

func (c *testClient) recv() (*protocol.Message, error) {
	c.conn.SetReadDeadline(time.Now().Add(recvTimeout))
	return protocol.ReadMessage(c.conn)
}

// waitFor reads messages until one of the wanted kind arrives, skipping
// notifications of other kinds.
func (c *testClient) waitFor(kind protocol.Kind) *protocol.Message {
	c.t.Helper()
	for i := 0; i < 20; i++ {
		msg, err := c.recv()
		if err != nil {
			c.t.Fatalf("Waiting for %s: read failed: %v", kind, err)
		}
		if msg.Type == kind {
			return msg
		}
	}
	c.t.Fatalf("No %s message within 20 reads", kind)
	return nil
}

func (c *testClient) connect(name string) {
	c.t.Helper()
	c.send(protocol.KindConnect, protocol.ConnectData{PlayerName: name})
}

func decodeSnapshot(t *testing.T, msg *protocol.Message) *state.Snapshot {
	t.Helper()
	var snap state.Snapshot
	if err := json.Unmarshal(msg.Data, &snap); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	return &snap
}

// playerIDByName finds the server-assigned id for a display name.
func playerIDByName(t *testing.T, snap *state.Snapshot, name string) string {
	t.Helper()
	for id, p := range snap.Players {
		if p.Name == name {
			return id
		}
	}
	t.Fatalf("No player named %q in snapshot", name)
	return ""
}

func TestServer_ConnectBroadcastsState(t *testing.T) {
	addr := startTestServer(t)

	alice := dial(t, addr)
	alice.connect("Alice")

	snap := decodeSnapshot(t, alice.waitFor(protocol.KindGameState))
	if len(snap.Players) != 1 {
		t.Fatalf("Expected 1 player, got %d", len(snap.Players))
	}
	if snap.GamePhase != state.PhasePlaying {
		t.Errorf("Expected phase %s, got %s", state.PhasePlaying, snap.GamePhase)
	}

	aliceID := playerIDByName(t, snap, "Alice")
	if snap.CurrentPlayerID != aliceID {
		t.Errorf("Expected Alice to hold the turn, got %q", snap.CurrentPlayerID)
	}
	if len(snap.Board.Spaces) != state.BoardSize {
		t.Errorf("Expected %d board spaces on the wire, got %d", state.BoardSize, len(snap.Board.Spaces))
	}
}

func TestServer_NonConnectFirstMessageDropsConnection(t *testing.T) {
	addr := startTestServer(t)

	bad := dial(t, addr)
	bad.send(protocol.KindPlayerAction, protocol.ActionData{Action: "roll_dice"})

	if _, err := bad.recv(); err == nil {
		t.Fatal("Expected connection to be closed after non-CONNECT first message")
	}

	// The rejected connection must not have seated a player.
	alice := dial(t, addr)
	alice.connect("Alice")
	snap := decodeSnapshot(t, alice.waitFor(protocol.KindGameState))
	if len(snap.Players) != 1 {
		t.Errorf("Expected 1 player after rejected handshake, got %d", len(snap.Players))
	}
}

func TestServer_AliceAndBobScenario(t *testing.T) {
	addr := startTestServer(t)

	alice := dial(t, addr)
	alice.connect("Alice")
	first := decodeSnapshot(t, alice.waitFor(protocol.KindGameState))
	aliceID := playerIDByName(t, first, "Alice")

	bob := dial(t, addr)
	bob.connect("Bob")
	joined := decodeSnapshot(t, bob.waitFor(protocol.KindGameState))
	if len(joined.Players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(joined.Players))
	}
	bobID := playerIDByName(t, joined, "Bob")
	if joined.CurrentPlayerID != aliceID {
		t.Fatalf("Expected Alice to hold the turn, got %q", joined.CurrentPlayerID)
	}
	// Alice sees Bob join too.
	alice.waitFor(protocol.KindGameState)

	// Bob rolling out of turn is rejected with an explicit error and no
	// broadcast.
	bob.send(protocol.KindPlayerAction, protocol.ActionData{Action: "roll_dice"})
	var rejection protocol.ErrorData
	if err := json.Unmarshal(bob.waitFor(protocol.KindError).Data, &rejection); err != nil {
		t.Fatalf("Failed to decode error payload: %v", err)
	}
	if !strings.Contains(rejection.Error, "not your turn") {
		t.Errorf("Expected wrong-turn reason, got %q", rejection.Error)
	}

	// Alice rolls: state first, then the dice notification.
	alice.send(protocol.KindPlayerAction, protocol.ActionData{Action: "roll_dice"})
	afterRoll := decodeSnapshot(t, alice.waitFor(protocol.KindGameState))

	var roll protocol.DiceRollData
	if err := json.Unmarshal(alice.waitFor(protocol.KindDiceRoll).Data, &roll); err != nil {
		t.Fatalf("Failed to decode dice payload: %v", err)
	}
	if roll.PlayerID != aliceID {
		t.Errorf("Expected roll by %q, got %q", aliceID, roll.PlayerID)
	}
	d1, d2 := roll.Values[0], roll.Values[1]
	if d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		t.Fatalf("Dice out of range: %v", roll.Values)
	}

	movedAlice := afterRoll.Players[aliceID]
	if movedAlice.Position != d1+d2 {
		t.Errorf("Expected Alice at %d, got %d", d1+d2, movedAlice.Position)
	}
	if movedAlice.Money != state.StartingMoney {
		t.Errorf("Expected Alice's money unchanged, got %d", movedAlice.Money)
	}
	if afterRoll.DiceRoll != [2]int{d1, d2} {
		t.Errorf("Expected snapshot dice %v, got %v", [2]int{d1, d2}, afterRoll.DiceRoll)
	}

	// Alice ends her turn: pointer moves to Bob, dice reset, counter up.
	alice.send(protocol.KindPlayerAction, protocol.ActionData{Action: "end_turn"})
	afterEnd := decodeSnapshot(t, alice.waitFor(protocol.KindGameState))
	if afterEnd.CurrentPlayerID != bobID {
		t.Errorf("Expected Bob's turn, got %q", afterEnd.CurrentPlayerID)
	}
	if afterEnd.DiceRoll != [2]int{0, 0} {
		t.Errorf("Expected dice reset, got %v", afterEnd.DiceRoll)
	}
	if afterEnd.TurnNumber != 1 {
		t.Errorf("Expected turn number 1, got %d", afterEnd.TurnNumber)
	}
}

func TestServer_BuyPropertyTransaction(t *testing.T) {
	addr := startTestServer(t)

	alice := dial(t, addr)
	alice.connect("Alice")
	snap := decodeSnapshot(t, alice.waitFor(protocol.KindGameState))
	aliceID := playerIDByName(t, snap, "Alice")

	alice.send(protocol.KindPlayerAction, protocol.ActionData{
		Action:     "buy_property",
		ActionData: json.RawMessage(`{"property_id": 3}`),
	})

	afterBuy := decodeSnapshot(t, alice.waitFor(protocol.KindGameState))
	prop := afterBuy.Board.Properties[3]
	if prop.OwnerID != aliceID {
		t.Errorf("Expected Baltic Avenue owned by Alice, got %q", prop.OwnerID)
	}
	if afterBuy.Players[aliceID].Money != state.StartingMoney-60 {
		t.Errorf("Expected money %d, got %d", state.StartingMoney-60, afterBuy.Players[aliceID].Money)
	}

	var tx protocol.PropertyTransactionData
	if err := json.Unmarshal(alice.waitFor(protocol.KindPropertyTransaction).Data, &tx); err != nil {
		t.Fatalf("Failed to decode transaction payload: %v", err)
	}
	if tx.PropertyName != "Baltic Avenue" || tx.Price != 60 {
		t.Errorf("Unexpected transaction: %+v", tx)
	}
}

func TestServer_UnknownActionAnsweredWithError(t *testing.T) {
	addr := startTestServer(t)

	alice := dial(t, addr)
	alice.connect("Alice")
	alice.waitFor(protocol.KindGameState)

	alice.send(protocol.KindPlayerAction, protocol.ActionData{Action: "trade_everything"})
	var rejection protocol.ErrorData
	if err := json.Unmarshal(alice.waitFor(protocol.KindError).Data, &rejection); err != nil {
		t.Fatalf("Failed to decode error payload: %v", err)
	}
	if !strings.Contains(rejection.Error, "unknown action") {
		t.Errorf("Expected unknown-action reason, got %q", rejection.Error)
	}
}

func TestServer_SecondConnectAnsweredWithError(t *testing.T) {
	addr := startTestServer(t)

	alice := dial(t, addr)
	alice.connect("Alice")
	alice.waitFor(protocol.KindGameState)

	alice.connect("Alice Again")
	msg := alice.waitFor(protocol.KindError)
	var rejection protocol.ErrorData
	if err := json.Unmarshal(msg.Data, &rejection); err != nil {
		t.Fatalf("Failed to decode error payload: %v", err)
	}
	if !strings.Contains(rejection.Error, "already connected") {
		t.Errorf("Expected already-connected reason, got %q", rejection.Error)
	}
}

func TestServer_DisconnectRemovesPlayerAndBroadcasts(t *testing.T) {
	addr := startTestServer(t)

	alice := dial(t, addr)
	alice.connect("Alice")
	alice.waitFor(protocol.KindGameState)

	bob := dial(t, addr)
	bob.connect("Bob")
	joined := decodeSnapshot(t, bob.waitFor(protocol.KindGameState))
	bobID := playerIDByName(t, joined, "Bob")
	alice.waitFor(protocol.KindGameState)

	// Alice leaves abruptly; Bob must see a one-player table with the
	// turn handed to him.
	alice.conn.Close()

	for i := 0; i < 20; i++ {
		snap := decodeSnapshot(t, bob.waitFor(protocol.KindGameState))
		if len(snap.Players) == 1 {
			if snap.CurrentPlayerID != bobID {
				t.Errorf("Expected Bob to hold the turn, got %q", snap.CurrentPlayerID)
			}
			return
		}
	}
	t.Fatal("Bob never saw Alice leave")
}

func TestServer_ExplicitDisconnectMessage(t *testing.T) {
	addr := startTestServer(t)

	alice := dial(t, addr)
	alice.connect("Alice")
	alice.waitFor(protocol.KindGameState)

	bob := dial(t, addr)
	bob.connect("Bob")
	bob.waitFor(protocol.KindGameState)
	alice.waitFor(protocol.KindGameState)

	bob.send(protocol.KindDisconnect, protocol.DisconnectData{})

	for i := 0; i < 20; i++ {
		snap := decodeSnapshot(t, alice.waitFor(protocol.KindGameState))
		if len(snap.Players) == 1 {
			return
		}
	}
	t.Fatal("Alice never saw Bob leave")
}

func TestServer_MismatchedPlayerIDRejected(t *testing.T) {
	addr := startTestServer(t)

	alice := dial(t, addr)
	alice.connect("Alice")
	alice.waitFor(protocol.KindGameState)

	alice.send(protocol.KindPlayerAction, protocol.ActionData{
		PlayerID: "somebody-else",
		Action:   "roll_dice",
	})
	msg := alice.waitFor(protocol.KindError)
	var rejection protocol.ErrorData
	if err := json.Unmarshal(msg.Data, &rejection); err != nil {
		t.Fatalf("Failed to decode error payload: %v", err)
	}
	if !strings.Contains(rejection.Error, "does not match") {
		t.Errorf("Expected mismatch reason, got %q", rejection.Error)
	}
}
