package protocol

import (
	"encoding/json"
	"fmt"
)

// Kind identifies a protocol message type.
type Kind string

// Message kinds exchanged between server and clients.
const (
	KindConnect             Kind = "CONNECT"
	KindDisconnect          Kind = "DISCONNECT"
	KindGameState           Kind = "GAME_STATE"
	KindPlayerAction        Kind = "PLAYER_ACTION"
	KindDiceRoll            Kind = "DICE_ROLL"
	KindPropertyTransaction Kind = "PROPERTY_TRANSACTION"
	KindPlayerStatus        Kind = "PLAYER_STATUS"
	KindGameEvent           Kind = "GAME_EVENT"
	KindError               Kind = "ERROR"
)

// Valid reports whether k is one of the defined message kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindConnect, KindDisconnect, KindGameState, KindPlayerAction,
		KindDiceRoll, KindPropertyTransaction, KindPlayerStatus,
		KindGameEvent, KindError:
		return true
	}
	return false
}

// Message is the envelope for all traffic on the wire. The Data payload is
// kept raw so it can be decoded into a kind-specific struct after routing.
type Message struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewMessage builds a Message of the given kind with data marshaled into
// the payload.
func NewMessage(kind Kind, data interface{}) (Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return Message{Type: kind, Data: raw}, nil
}

// ConnectData is the payload of a CONNECT message, the first message every
// client must send.
type ConnectData struct {
	PlayerName string `json:"player_name"`
}

// DisconnectData is the payload of a DISCONNECT message.
type DisconnectData struct {
	PlayerID string `json:"player_id"`
}

// ActionData is the payload of a PLAYER_ACTION message. ActionData is kept
// raw; the actions package decodes it per action kind.
type ActionData struct {
	PlayerID   string          `json:"player_id"`
	Action     string          `json:"action"`
	ActionData json.RawMessage `json:"action_data,omitempty"`
}

// DiceRollData announces a dice roll to all sessions.
type DiceRollData struct {
	PlayerID  string `json:"player_id"`
	Values    [2]int `json:"values"`
	IsDoubles bool   `json:"is_doubles"`
}

// PropertyTransactionData announces a completed property purchase.
type PropertyTransactionData struct {
	PlayerID     string `json:"player_id"`
	PropertyID   int    `json:"property_id"`
	PropertyName string `json:"property_name"`
	Price        int    `json:"price"`
}

// EventData carries table-level notifications such as joins and leaves.
type EventData struct {
	Event    string `json:"event"`
	Message  string `json:"message"`
	PlayerID string `json:"player_id,omitempty"`
}

// ErrorData is the payload of an ERROR message sent back to the session
// whose request was rejected.
type ErrorData struct {
	Error string `json:"error"`
}
