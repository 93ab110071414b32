package models

import (
	"encoding/json"
	"time"
)

// StateSnapshot is the full authoritative game state as published by the host
type StateSnapshot struct {
	// State is the serialized game state, opaque to the sync core
	State json.RawMessage `json:"state"`

	// Version increases by one on every publish
	Version int64 `json:"version"`

	// SyncedAt is the backend server time of the publish
	SyncedAt time.Time `json:"synced_at"`
}
