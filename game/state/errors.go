package state

import "errors"

var (
	ErrPlayerExists     = errors.New("player id already exists")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrAlreadyOwned     = errors.New("property already owned")
	ErrNotAffordable    = errors.New("insufficient funds")
)
