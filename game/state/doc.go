// Package state holds the in-memory model of one Monopoly table: the
// 40-space board, the property catalog, the seated players, and the turn
// machinery.
//
// The Game type is the aggregate root. All mutation goes through its
// methods, which preserve the model invariants: the turn pointer always
// names a seated player (or nobody), turn order is an explicit join-order
// sequence, and a hotel implies zero houses. The server wraps every call
// in a single mutual-exclusion domain; the package itself does no locking.
//
// The server tracks positions, cash, and deeds only as instructed by
// client actions. It never infers consequences of a roll (rent, taxes,
// cards) because those are resolved at the physical table.
//
// Usage:
//
//	game := state.New()
//	game.AddPlayer("p1", "Alice")
//	d1, d2 := game.RollDice()
//	pos, err := game.MovePlayer("p1", d1+d2)
//	snap := game.Snapshot() // safe to marshal outside the lock
package state
