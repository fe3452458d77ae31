package state

import "fmt"

// SpaceKind tags what a board space is.
type SpaceKind string

// Kinds of spaces on the board.
const (
	SpaceProperty       SpaceKind = "property"
	SpaceChance         SpaceKind = "chance"
	SpaceCommunityChest SpaceKind = "community_chest"
	SpaceTax            SpaceKind = "tax"
	SpaceGo             SpaceKind = "go"
	SpaceJail           SpaceKind = "jail"
	SpaceFreeParking    SpaceKind = "free_parking"
	SpaceGoToJail       SpaceKind = "go_to_jail"
)

// Space is one of the 40 positions on the board. PropertyID is set for
// property spaces, Amount for tax spaces.
type Space struct {
	Kind       SpaceKind `json:"type"`
	Name       string    `json:"name"`
	Position   int       `json:"position"`
	PropertyID int       `json:"property_id,omitempty"`
	Amount     int       `json:"amount,omitempty"`
}

// Board is the fixed 40-space track plus the property catalog keyed by
// property id. Topology never changes after construction; only the
// ownership, mortgage, and improvement fields of properties mutate.
type Board struct {
	Spaces     []Space           `json:"spaces"`
	Properties map[int]*Property `json:"properties"`
}

// NewBoard builds the standard board. Property ids equal board positions.
func NewBoard() *Board {
	b := &Board{Properties: make(map[int]*Property)}

	type def struct {
		pos      int
		kind     SpaceKind
		name     string
		price    int
		group    Group
		rents    [6]int
		mortgage int
		amount   int
	}

	defs := []def{
		{pos: 0, kind: SpaceGo, name: "GO"},
		{pos: 1, kind: SpaceProperty, name: "Mediterranean Avenue", price: 60, group: GroupBrown, rents: [6]int{2, 10, 30, 90, 160, 250}, mortgage: 30},
		{pos: 2, kind: SpaceCommunityChest, name: "Community Chest"},
		{pos: 3, kind: SpaceProperty, name: "Baltic Avenue", price: 60, group: GroupBrown, rents: [6]int{4, 20, 60, 180, 320, 450}, mortgage: 30},
		{pos: 4, kind: SpaceTax, name: "Income Tax", amount: 200},
		{pos: 5, kind: SpaceProperty, name: "Reading Railroad", price: 200, group: GroupRailroad, rents: [6]int{25, 50, 100, 200, 200, 200}, mortgage: 100},
		{pos: 6, kind: SpaceProperty, name: "Oriental Avenue", price: 100, group: GroupLightBlue, rents: [6]int{6, 30, 90, 270, 400, 550}, mortgage: 50},
		{pos: 7, kind: SpaceChance, name: "Chance"},
		{pos: 8, kind: SpaceProperty, name: "Vermont Avenue", price: 100, group: GroupLightBlue, rents: [6]int{6, 30, 90, 270, 400, 550}, mortgage: 50},
		{pos: 9, kind: SpaceProperty, name: "Connecticut Avenue", price: 120, group: GroupLightBlue, rents: [6]int{8, 40, 100, 300, 450, 600}, mortgage: 60},
		{pos: 10, kind: SpaceJail, name: "Jail"},
		{pos: 11, kind: SpaceProperty, name: "St. Charles Place", price: 140, group: GroupPink, rents: [6]int{10, 50, 150, 450, 625, 750}, mortgage: 70},
		{pos: 12, kind: SpaceProperty, name: "Electric Company", price: 150, group: GroupUtility, rents: [6]int{4, 10, 10, 10, 10, 10}, mortgage: 75},
		{pos: 13, kind: SpaceProperty, name: "States Avenue", price: 140, group: GroupPink, rents: [6]int{10, 50, 150, 450, 625, 750}, mortgage: 70},
		{pos: 14, kind: SpaceProperty, name: "Virginia Avenue", price: 160, group: GroupPink, rents: [6]int{12, 60, 180, 500, 700, 900}, mortgage: 80},
		{pos: 15, kind: SpaceProperty, name: "Pennsylvania Railroad", price: 200, group: GroupRailroad, rents: [6]int{25, 50, 100, 200, 200, 200}, mortgage: 100},
		{pos: 16, kind: SpaceProperty, name: "St. James Place", price: 180, group: GroupOrange, rents: [6]int{14, 70, 200, 550, 750, 950}, mortgage: 90},
		{pos: 17, kind: SpaceCommunityChest, name: "Community Chest"},
		{pos: 18, kind: SpaceProperty, name: "Tennessee Avenue", price: 180, group: GroupOrange, rents: [6]int{14, 70, 200, 550, 750, 950}, mortgage: 90},
		{pos: 19, kind: SpaceProperty, name: "New York Avenue", price: 200, group: GroupOrange, rents: [6]int{16, 80, 220, 600, 800, 1000}, mortgage: 100},
		{pos: 20, kind: SpaceFreeParking, name: "Free Parking"},
		{pos: 21, kind: SpaceProperty, name: "Kentucky Avenue", price: 220, group: GroupRed, rents: [6]int{18, 90, 250, 700, 875, 1050}, mortgage: 110},
		{pos: 22, kind: SpaceChance, name: "Chance"},
		{pos: 23, kind: SpaceProperty, name: "Indiana Avenue", price: 220, group: GroupRed, rents: [6]int{18, 90, 250, 700, 875, 1050}, mortgage: 110},
		{pos: 24, kind: SpaceProperty, name: "Illinois Avenue", price: 240, group: GroupRed, rents: [6]int{20, 100, 300, 750, 925, 1100}, mortgage: 120},
		{pos: 25, kind: SpaceProperty, name: "B&O Railroad", price: 200, group: GroupRailroad, rents: [6]int{25, 50, 100, 200, 200, 200}, mortgage: 100},
		{pos: 26, kind: SpaceProperty, name: "Atlantic Avenue", price: 260, group: GroupYellow, rents: [6]int{22, 110, 330, 800, 975, 1150}, mortgage: 130},
		{pos: 27, kind: SpaceProperty, name: "Ventnor Avenue", price: 260, group: GroupYellow, rents: [6]int{22, 110, 330, 800, 975, 1150}, mortgage: 130},
		{pos: 28, kind: SpaceProperty, name: "Water Works", price: 150, group: GroupUtility, rents: [6]int{4, 10, 10, 10, 10, 10}, mortgage: 75},
		{pos: 29, kind: SpaceProperty, name: "Marvin Gardens", price: 280, group: GroupYellow, rents: [6]int{24, 120, 360, 850, 1025, 1200}, mortgage: 140},
		{pos: 30, kind: SpaceGoToJail, name: "Go To Jail"},
		{pos: 31, kind: SpaceProperty, name: "Pacific Avenue", price: 300, group: GroupGreen, rents: [6]int{26, 130, 390, 900, 1100, 1275}, mortgage: 150},
		{pos: 32, kind: SpaceProperty, name: "North Carolina Avenue", price: 300, group: GroupGreen, rents: [6]int{26, 130, 390, 900, 1100, 1275}, mortgage: 150},
		{pos: 33, kind: SpaceCommunityChest, name: "Community Chest"},
		{pos: 34, kind: SpaceProperty, name: "Pennsylvania Avenue", price: 320, group: GroupGreen, rents: [6]int{28, 150, 450, 1000, 1200, 1400}, mortgage: 160},
		{pos: 35, kind: SpaceProperty, name: "Short Line", price: 200, group: GroupRailroad, rents: [6]int{25, 50, 100, 200, 200, 200}, mortgage: 100},
		{pos: 36, kind: SpaceChance, name: "Chance"},
		{pos: 37, kind: SpaceProperty, name: "Park Place", price: 350, group: GroupDarkBlue, rents: [6]int{35, 175, 500, 1100, 1300, 1500}, mortgage: 175},
		{pos: 38, kind: SpaceTax, name: "Luxury Tax", amount: 100},
		{pos: 39, kind: SpaceProperty, name: "Boardwalk", price: 400, group: GroupDarkBlue, rents: [6]int{50, 200, 600, 1400, 1700, 2000}, mortgage: 200},
	}

	b.Spaces = make([]Space, 0, BoardSize)
	for _, d := range defs {
		space := Space{Kind: d.kind, Name: d.name, Position: d.pos, Amount: d.amount}
		if d.kind == SpaceProperty {
			space.PropertyID = d.pos
			b.Properties[d.pos] = &Property{
				ID:            d.pos,
				Name:          d.name,
				Price:         d.price,
				Group:         d.group,
				RentValues:    d.rents,
				MortgageValue: d.mortgage,
			}
		}
		b.Spaces = append(b.Spaces, space)
	}

	if len(b.Spaces) != BoardSize {
		panic(fmt.Sprintf("board built with %d spaces, want %d", len(b.Spaces), BoardSize))
	}
	return b
}

// Property looks up a property by id.
func (b *Board) Property(id int) (*Property, bool) {
	p, ok := b.Properties[id]
	return p, ok
}
