package actions

import (
	"fmt"

	"github.com/tableside/monopoly-server/game/state"
)

// Roll describes an accepted dice roll.
type Roll struct {
	Die1        int
	Die2        int
	IsDoubles   bool
	NewPosition int
}

// Purchase describes an accepted property purchase.
type Purchase struct {
	PropertyID   int
	PropertyName string
	Price        int
}

// Result reports what an accepted action did, so the server can emit the
// matching notifications alongside the state broadcast.
type Result struct {
	Roll      *Roll
	Purchase  *Purchase
	TurnEnded bool
}

// Processor validates and applies actions against the game. The caller
// holds the state lock for the duration of Apply.
type Processor struct {
	game *state.Game
}

// NewProcessor creates a processor bound to a game.
func NewProcessor(game *state.Game) *Processor {
	return &Processor{game: game}
}

// Apply validates the action for actorID and mutates the game on success.
// On rejection the game is untouched and the returned error names the
// reason; the server relays it to the actor as an ERROR message.
func (p *Processor) Apply(actorID string, action Action) (*Result, error) {
	switch a := action.(type) {
	case RollDice:
		return p.rollDice(actorID)
	case EndTurn:
		return p.endTurn(actorID)
	case BuyProperty:
		return p.buyProperty(actorID, a)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
}

// rollDice rolls for the current player and moves them by the sum. The
// turn does not advance; that takes an explicit end_turn.
func (p *Processor) rollDice(actorID string) (*Result, error) {
	if err := p.requireTurn(actorID); err != nil {
		return nil, err
	}

	d1, d2 := p.game.RollDice()
	pos, err := p.game.MovePlayer(actorID, d1+d2)
	if err != nil {
		return nil, err
	}

	return &Result{Roll: &Roll{
		Die1:        d1,
		Die2:        d2,
		IsDoubles:   d1 == d2,
		NewPosition: pos,
	}}, nil
}

func (p *Processor) endTurn(actorID string) (*Result, error) {
	if err := p.requireTurn(actorID); err != nil {
		return nil, err
	}
	p.game.AdvanceTurn()
	return &Result{TurnEnded: true}, nil
}

// buyProperty is not gated on turn ownership: at a physical table a deal
// can be settled whenever the players agree, and the server only enforces
// funds and ownership.
func (p *Processor) buyProperty(actorID string, a BuyProperty) (*Result, error) {
	prop, err := p.game.BuyProperty(actorID, a.PropertyID)
	if err != nil {
		return nil, err
	}
	return &Result{Purchase: &Purchase{
		PropertyID:   prop.ID,
		PropertyName: prop.Name,
		Price:        prop.Price,
	}}, nil
}

func (p *Processor) requireTurn(actorID string) error {
	if _, ok := p.game.Player(actorID); !ok {
		return fmt.Errorf("player %q: %w", actorID, state.ErrPlayerNotFound)
	}
	if p.game.CurrentPlayerID() != actorID {
		return fmt.Errorf("player %q: %w", actorID, ErrWrongTurn)
	}
	return nil
}
