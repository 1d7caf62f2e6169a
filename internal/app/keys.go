package app

import "github.com/nhle/airdrop-tracker/internal/keys"

// KeyMap is the binding set shared by the root model and every sub-view.
type KeyMap = keys.KeyMap

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() *KeyMap {
	return keys.DefaultKeyMap()
}
