// Package actions defines the closed set of player actions and the
// processor that validates and applies them to the game state.
//
// Actions arrive as a PLAYER_ACTION payload with a string tag and a loose
// JSON body; Decode turns that into one of the typed variants below so
// dispatch is an exhaustive type switch rather than string comparison
// scattered through handlers.
package actions

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tableside/monopoly-server/protocol"
)

var (
	ErrWrongTurn     = errors.New("not your turn")
	ErrUnknownAction = errors.New("unknown action")
)

// Action is one validated player request. The set is sealed: only the
// variants in this package implement it.
type Action interface {
	name() string
}

// RollDice rolls two dice and moves the actor by their sum.
type RollDice struct{}

// EndTurn hands the turn to the next player.
type EndTurn struct{}

// BuyProperty purchases an unowned property for the actor.
type BuyProperty struct {
	PropertyID int `json:"property_id"`
}

func (RollDice) name() string    { return "roll_dice" }
func (EndTurn) name() string     { return "end_turn" }
func (BuyProperty) name() string { return "buy_property" }

// Decode maps a wire action payload to its typed variant.
func Decode(data protocol.ActionData) (Action, error) {
	switch data.Action {
	case "roll_dice":
		return RollDice{}, nil
	case "end_turn":
		return EndTurn{}, nil
	case "buy_property":
		var a BuyProperty
		if len(data.ActionData) > 0 {
			if err := json.Unmarshal(data.ActionData, &a); err != nil {
				return nil, fmt.Errorf("decode buy_property data: %w", err)
			}
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, data.Action)
	}
}
