package participant

import (
	"encoding/json"
	"time"

	"github.com/KirkDiggler/partysync/internal/common/identity"
	"github.com/KirkDiggler/partysync/internal/common/uuid"
	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/KirkDiggler/partysync/internal/reducer"
	"github.com/KirkDiggler/partysync/internal/services/channel"
	"github.com/KirkDiggler/partysync/internal/services/directory"
	"github.com/KirkDiggler/partysync/internal/services/presence"
	"github.com/KirkDiggler/partysync/internal/services/relay"
)

// ConnectionStatus is the participant's view of its link to the backend
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
)

// Config holds configuration shared by every kind of participant
type Config struct {
	// Service dependencies
	Directory directory.Service
	Presence  presence.Service
	Channel   channel.Service
	Relay     relay.Service

	// Reducer is required to host or play alone
	Reducer reducer.Reducer

	// Identity supplies the client-local player identity
	Identity identity.Provider

	// UUIDGenerator mints connection IDs
	UUIDGenerator uuid.UUID

	// KeepaliveInterval is how often the lease is renewed
	KeepaliveInterval time.Duration

	// NotificationBuffer is how many notifications may wait unread
	NotificationBuffer int
}

type HostInput struct {
	Config *models.SessionConfig
}

type JoinInput struct {
	SessionID string

	// Slot is the requested slot, or directory.AnySlot
	Slot int
}

// NotificationType classifies a notification
type NotificationType string

const (
	// NotificationRoster carries a roster or status change
	NotificationRoster NotificationType = "roster"

	// NotificationState means the local state was replaced
	NotificationState NotificationType = "state"

	// NotificationConnection means the connection status changed
	NotificationConnection NotificationType = "connection"

	// NotificationEnded is the last notification before the channel closes
	NotificationEnded NotificationType = "ended"
)

// Notification is something the participant observed
type Notification struct {
	Type NotificationType

	// Event is set for roster notifications
	Event *presence.RosterEvent

	// State is set for state notifications
	State json.RawMessage

	// Status is set for connection notifications
	Status ConnectionStatus
}
