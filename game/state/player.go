package state

// Starting conditions for a player joining the table.
const (
	StartingMoney = 1500
	StartingSpace = 0
	PassGoBonus   = 200
	BoardSize     = 40
)

// Player is one seat at the table. Position and Money mutate only through
// the Game mutators.
type Player struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Position          int    `json:"position"`
	Money             int    `json:"money"`
	OwnedProperties   []int  `json:"owned_properties"`
	IsInJail          bool   `json:"is_in_jail"`
	JailTurns         int    `json:"jail_turns"`
	GetOutOfJailCards int    `json:"get_out_of_jail_cards"`
}

// NewPlayer creates a player at GO with the standard starting cash.
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:              id,
		Name:            name,
		Position:        StartingSpace,
		Money:           StartingMoney,
		OwnedProperties: []int{},
	}
}
