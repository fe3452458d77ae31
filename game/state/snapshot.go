package state

// Snapshot is a self-contained copy of the full game state, safe to hand
// to broadcasters and observers with no aliasing back into live state. Its
// JSON form is the GAME_STATE payload on the wire.
type Snapshot struct {
	Board           BoardSnapshot     `json:"board"`
	Players         map[string]Player `json:"players"`
	CurrentPlayerID string            `json:"current_player_id"`
	DiceRoll        [2]int            `json:"dice_roll"`
	GamePhase       Phase             `json:"game_phase"`
	TurnNumber      int               `json:"turn_number"`
}

// BoardSnapshot is the board with properties copied by value.
type BoardSnapshot struct {
	Spaces     []Space          `json:"spaces"`
	Properties map[int]Property `json:"properties"`
}

// Snapshot deep-copies the game. The caller must hold the state lock; the
// returned value can then be marshaled and sent outside it.
func (g *Game) Snapshot() *Snapshot {
	snap := &Snapshot{
		Board: BoardSnapshot{
			Spaces:     make([]Space, len(g.board.Spaces)),
			Properties: make(map[int]Property, len(g.board.Properties)),
		},
		Players:         make(map[string]Player, len(g.players)),
		CurrentPlayerID: g.current,
		DiceRoll:        g.dice,
		GamePhase:       g.phase,
		TurnNumber:      g.turn,
	}

	copy(snap.Board.Spaces, g.board.Spaces)
	for id, prop := range g.board.Properties {
		snap.Board.Properties[id] = *prop
	}
	for id, p := range g.players {
		cp := *p
		cp.OwnedProperties = make([]int, len(p.OwnedProperties))
		copy(cp.OwnedProperties, p.OwnedProperties)
		snap.Players[id] = cp
	}
	return snap
}
