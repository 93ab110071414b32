package models

import (
	"time"
)

// SessionStatus represents the lifecycle stage of a session
type SessionStatus string

const (
	// SessionStatusWaiting indicates the lobby is open and the game has not started
	SessionStatusWaiting SessionStatus = "waiting"

	// SessionStatusInGame indicates the host has started play
	SessionStatusInGame SessionStatus = "in_game"

	// SessionStatusCompleted indicates the game is over
	SessionStatusCompleted SessionStatus = "completed"
)

// rank orders the statuses; a session may only move to a higher rank
func (s SessionStatus) rank() int {
	switch s {
	case SessionStatusWaiting:
		return 1
	case SessionStatusInGame:
		return 2
	case SessionStatusCompleted:
		return 3
	default:
		return 0
	}
}

// Valid reports whether s is a known status
func (s SessionStatus) Valid() bool {
	return s.rank() > 0
}

// CanAdvanceTo reports whether a session in status s may move to next.
// Status never moves backward and never stays in place.
func (s SessionStatus) CanAdvanceTo(next SessionStatus) bool {
	return s.Valid() && next.Valid() && next.rank() > s.rank()
}

// SessionConfig holds the parameters chosen by the host at creation.
// It is never modified after the session is written.
type SessionConfig struct {
	// MaxPlayers is the session capacity, between 1 and 4
	MaxPlayers int `json:"max_players"`

	// Mode is an application-defined game mode name
	Mode string `json:"mode,omitempty"`

	// Seed seeds the host's deterministic game logic
	Seed int64 `json:"seed,omitempty"`

	// RequireReady makes StartGame wait until every client is ready
	RequireReady bool `json:"require_ready,omitempty"`

	// Options carries free-form application settings
	Options map[string]string `json:"options,omitempty"`
}

// Session is the root aggregate shared by every participant
type Session struct {
	// ID is the unguessable session identifier
	ID string `json:"id"`

	// HostID is the player ID of the host
	HostID string `json:"host_id"`

	// Status is the lifecycle stage of the session
	Status SessionStatus `json:"status"`

	// Config is immutable after creation
	Config SessionConfig `json:"config"`

	// Players is the roster keyed by player ID
	Players map[string]*SessionPlayer `json:"players"`

	// State is the host-owned snapshot, nil until first publish
	State *StateSnapshot `json:"state,omitempty"`

	// CreatedAt is when the session was created
	CreatedAt time.Time `json:"created_at"`

	// LastUpdatedAt is the heartbeat used for stale-session cleanup
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// Host returns the host's roster record, or nil if it is absent
func (s *Session) Host() *SessionPlayer {
	if s == nil {
		return nil
	}
	for _, p := range s.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// PlayerInSlot returns the player holding slot, or nil
func (s *Session) PlayerInSlot(slot int) *SessionPlayer {
	if s == nil {
		return nil
	}
	for _, p := range s.Players {
		if p.Slot == slot {
			return p
		}
	}
	return nil
}

// SessionSummary is what a prospective participant may see before joining.
// It never carries the state snapshot.
type SessionSummary struct {
	ID            string                    `json:"id"`
	HostID        string                    `json:"host_id"`
	Status        SessionStatus             `json:"status"`
	Config        SessionConfig             `json:"config"`
	Players       map[string]*SessionPlayer `json:"players"`
	IsResumedGame bool                      `json:"is_resumed_game"`
}
