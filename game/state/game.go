package state

import (
	"fmt"
	"math/rand"
	"time"
)

// Phase is the lifecycle stage of the table.
type Phase string

// Game phases.
const (
	PhaseWaiting  Phase = "waiting_for_players"
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "game_over"
)

// Game is the aggregate root: the board, the seated players, and the turn
// machinery. It is not safe for concurrent use; the server serializes every
// mutation and snapshot through its lock.
//
// Turn order is an explicit slice of player ids in join order, never the
// iteration order of the player map.
type Game struct {
	board   *Board
	players map[string]*Player
	order   []string
	current string
	dice    [2]int
	phase   Phase
	turn    int
	rng     *rand.Rand
}

// New creates a game with a time-seeded dice source.
func New() *Game {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a game rolling dice from rng. Tests inject a seeded
// source for deterministic rolls.
func NewWithRand(rng *rand.Rand) *Game {
	return &Game{
		board:   NewBoard(),
		players: make(map[string]*Player),
		phase:   PhaseWaiting,
		rng:     rng,
	}
}

// AddPlayer seats a new player at GO with starting cash. The first player
// to join becomes the current player and starts the game.
func (g *Game) AddPlayer(id, name string) (*Player, error) {
	if _, exists := g.players[id]; exists {
		return nil, fmt.Errorf("add player %q: %w", id, ErrPlayerExists)
	}

	p := NewPlayer(id, name)
	g.players[id] = p
	g.order = append(g.order, id)

	if g.current == "" && g.phase == PhaseWaiting {
		g.current = id
		g.phase = PhasePlaying
	}
	return p, nil
}

// RemovePlayer unseats a player. When the current player leaves, the turn
// passes to whoever followed them in order. When the table empties, the
// game resets to waiting.
func (g *Game) RemovePlayer(id string) bool {
	if _, exists := g.players[id]; !exists {
		return false
	}

	idx := g.orderIndex(id)
	delete(g.players, id)
	g.order = append(g.order[:idx], g.order[idx+1:]...)

	for _, p := range g.board.Properties {
		if p.OwnerID == id {
			p.OwnerID = ""
			p.IsMortgaged = false
			p.Houses = 0
			p.HasHotel = false
		}
	}

	if len(g.order) == 0 {
		g.current = ""
		g.phase = PhaseWaiting
		g.turn = 0
		g.dice = [2]int{}
		return true
	}

	if g.current == id {
		g.current = g.order[idx%len(g.order)]
		g.dice = [2]int{}
	}
	return true
}

// MovePlayer advances a player by steps modulo the board size and returns
// the new position. Wrapping past GO credits the pass-GO bonus; landing
// back on the same space after a full lap does not.
func (g *Game) MovePlayer(id string, steps int) (int, error) {
	p, exists := g.players[id]
	if !exists {
		return 0, fmt.Errorf("move player %q: %w", id, ErrPlayerNotFound)
	}

	old := p.Position
	p.Position = (p.Position + steps) % BoardSize
	if p.Position < old {
		p.Money += PassGoBonus
	}
	return p.Position, nil
}

// RollDice draws two dice and records the outcome. It moves nobody;
// movement is an explicit, separate step.
func (g *Game) RollDice() (int, int) {
	d1 := g.rng.Intn(6) + 1
	d2 := g.rng.Intn(6) + 1
	g.dice = [2]int{d1, d2}
	return d1, d2
}

// AdvanceTurn hands the turn to the next player in join order, bumps the
// turn counter, and clears the dice. No-op on an empty table.
func (g *Game) AdvanceTurn() {
	if len(g.order) == 0 {
		return
	}
	idx := g.orderIndex(g.current)
	g.current = g.order[(idx+1)%len(g.order)]
	g.turn++
	g.dice = [2]int{}
}

// BuyProperty transfers an unowned property to the buyer, debiting its
// price. State is untouched on any rejection.
func (g *Game) BuyProperty(playerID string, propertyID int) (*Property, error) {
	p, exists := g.players[playerID]
	if !exists {
		return nil, fmt.Errorf("buy property: %w", ErrPlayerNotFound)
	}
	prop, exists := g.board.Property(propertyID)
	if !exists {
		return nil, fmt.Errorf("buy property %d: %w", propertyID, ErrPropertyNotFound)
	}
	if prop.Owned() {
		return nil, fmt.Errorf("buy %s: %w by %s", prop.Name, ErrAlreadyOwned, prop.OwnerID)
	}
	if p.Money < prop.Price {
		return nil, fmt.Errorf("buy %s for %d with %d: %w", prop.Name, prop.Price, p.Money, ErrNotAffordable)
	}

	p.Money -= prop.Price
	p.OwnedProperties = append(p.OwnedProperties, propertyID)
	prop.OwnerID = playerID
	return prop, nil
}

// Player returns the live player record for id.
func (g *Game) Player(id string) (*Player, bool) {
	p, ok := g.players[id]
	return p, ok
}

// Property returns the live property record for id.
func (g *Game) Property(id int) (*Property, bool) {
	return g.board.Property(id)
}

// CurrentPlayerID returns the turn pointer, empty when nobody is seated.
func (g *Game) CurrentPlayerID() string { return g.current }

// Phase returns the game phase.
func (g *Game) Phase() Phase { return g.phase }

// TurnNumber returns the monotonically increasing turn counter.
func (g *Game) TurnNumber() int { return g.turn }

// DiceRoll returns the most recent dice outcome, (0,0) when unset.
func (g *Game) DiceRoll() (int, int) { return g.dice[0], g.dice[1] }

// PlayerCount returns the number of seated players.
func (g *Game) PlayerCount() int { return len(g.players) }

// TurnOrder returns a copy of the turn order.
func (g *Game) TurnOrder() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

func (g *Game) orderIndex(id string) int {
	for i, v := range g.order {
		if v == id {
			return i
		}
	}
	return -1
}
