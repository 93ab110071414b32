package models

// SessionEventType identifies what changed in a session record
type SessionEventType string

const (
	// SessionEventRosterChanged is emitted when a player record is written or removed
	SessionEventRosterChanged SessionEventType = "roster_changed"

	// SessionEventStatusChanged is emitted when the session status advances
	SessionEventStatusChanged SessionEventType = "status_changed"

	// SessionEventStatePublished is emitted when the host publishes a snapshot
	SessionEventStatePublished SessionEventType = "state_published"

	// SessionEventClosed is emitted when the whole record is deleted
	SessionEventClosed SessionEventType = "session_closed"
)

// SessionEvent is a change notification on a session
type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	SessionID string           `json:"session_id"`

	// PlayerID is set for roster changes
	PlayerID string `json:"player_id,omitempty"`

	// Status is set for status changes
	Status SessionStatus `json:"status,omitempty"`

	// Snapshot is set for state publishes
	Snapshot *StateSnapshot `json:"snapshot,omitempty"`
}
