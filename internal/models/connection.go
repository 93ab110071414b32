package models

// DisconnectWrite is a write registered to run when a connection drops:
// mark PlayerID in SessionID as not connected.
type DisconnectWrite struct {
	ConnectionID string `json:"connection_id"`
	SessionID    string `json:"session_id"`
	PlayerID     string `json:"player_id"`
}
