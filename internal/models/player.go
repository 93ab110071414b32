package models

// PlayerConfig holds optional cosmetic and build choices
type PlayerConfig struct {
	Avatar  string `json:"avatar,omitempty"`
	Color   string `json:"color,omitempty"`
	Loadout string `json:"loadout,omitempty"`
}

// SessionPlayer is one roster entry of a session
type SessionPlayer struct {
	// ID is the client-local identity of the player
	ID string `json:"id"`

	// Name is the display name of the player
	Name string `json:"name"`

	// Slot is the player's position, unique within the session
	Slot int `json:"slot"`

	// IsHost is true for exactly one player and never changes
	IsHost bool `json:"is_host"`

	// Connected is maintained by the presence layer
	Connected bool `json:"connected"`

	// Ready is the pre-game readiness gate
	Ready bool `json:"ready"`

	// Config is optional
	Config *PlayerConfig `json:"config,omitempty"`
}

// PlayerInfo describes a player who is creating or joining a session
type PlayerInfo struct {
	ID     string
	Name   string
	Config *PlayerConfig
}
