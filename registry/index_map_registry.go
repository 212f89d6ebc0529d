/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sync"
)

// KeyMapRegistry associates entity names with DynamoDB key templates.
// Templates may reference record fields ("STATUS#{status}") and the
// engine-assigned storage identity ("{StorageID}").

var (
	keyMapRegistry = make(map[string]map[string]string)
	keyMu          sync.RWMutex
)

// RegisterKeyMap associates the named entity with a key map (PK, SK, GSI keys).
func RegisterKeyMap(name string, keyMap map[string]string) {
	copied := make(map[string]string, len(keyMap))
	for k, v := range keyMap {
		copied[k] = v
	}

	keyMu.Lock()
	defer keyMu.Unlock()
	keyMapRegistry[name] = copied
}

// GetKeyMap retrieves the key map for the named entity, if any.
func GetKeyMap(name string) (map[string]string, bool) {
	keyMu.RLock()
	defer keyMu.RUnlock()
	m, ok := keyMapRegistry[name]
	return m, ok
}
