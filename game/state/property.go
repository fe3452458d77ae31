package state

// Group is the color group a property belongs to.
type Group string

// The ten property groups: eight color sets plus railroads and utilities.
const (
	GroupBrown     Group = "brown"
	GroupLightBlue Group = "light_blue"
	GroupPink      Group = "pink"
	GroupOrange    Group = "orange"
	GroupRed       Group = "red"
	GroupYellow    Group = "yellow"
	GroupGreen     Group = "green"
	GroupDarkBlue  Group = "dark_blue"
	GroupRailroad  Group = "railroad"
	GroupUtility   Group = "utility"
)

// Property is a purchasable board space. RentValues holds the rent schedule
// indexed by development level: unimproved, 1-4 houses, hotel.
type Property struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Price         int    `json:"price"`
	Group         Group  `json:"group"`
	RentValues    [6]int `json:"rent_values"`
	MortgageValue int    `json:"mortgage_value"`
	OwnerID       string `json:"owner_id"`
	IsMortgaged   bool   `json:"is_mortgaged"`
	Houses        int    `json:"houses"`
	HasHotel      bool   `json:"has_hotel"`
}

// Rent returns the rent owed for landing on the property at its current
// development level. A mortgaged property yields nothing.
func (p *Property) Rent() int {
	if p.IsMortgaged {
		return 0
	}
	if p.HasHotel {
		return p.RentValues[5]
	}
	return p.RentValues[p.Houses]
}

// Owned reports whether any player holds the deed.
func (p *Property) Owned() bool {
	return p.OwnerID != ""
}
