package directory

import (
	"time"

	"github.com/KirkDiggler/partysync/internal/common/clock"
	"github.com/KirkDiggler/partysync/internal/common/uuid"
	"github.com/KirkDiggler/partysync/internal/models"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
	"github.com/KirkDiggler/partysync/internal/services/presence"
)

// AnySlot asks JoinSession for the lowest free slot
const AnySlot = -1

// Config holds configuration for the directory service
type Config struct {
	// PreGamePhases are the values of a snapshot's top-level "phase" field
	// that still count as a fresh lobby
	PreGamePhases []string

	// Repository dependencies
	SessionRepo sessionRepo.Repository

	// Presence registers disconnect writes for joined players. Optional.
	Presence presence.Service

	// Utilities
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
}

type CreateSessionInput struct {
	Host   *models.PlayerInfo
	Config *models.SessionConfig

	// ConnectionID registers the host's disconnect write when set
	ConnectionID string
}

type CreateSessionOutput struct {
	SessionID string
	Session   *models.Session
}

type LookupSessionInput struct {
	SessionID string
}

type LookupSessionOutput struct {
	Summary *models.SessionSummary
}

type JoinSessionInput struct {
	SessionID string
	Player    *models.PlayerInfo

	// Slot is the requested slot, or AnySlot
	Slot int

	// ConnectionID registers the player's disconnect write when set
	ConnectionID string
}

type JoinSessionOutput struct {
	Player  *models.SessionPlayer
	Session *models.Session
}

type ReconnectPlayerInput struct {
	SessionID    string
	PlayerID     string
	ConnectionID string
}

type ReconnectPlayerOutput struct {
	Player  *models.SessionPlayer
	Session *models.Session
}

type LeaveSessionInput struct {
	SessionID    string
	PlayerID     string
	ConnectionID string
}

type LeaveSessionOutput struct {
	Session *models.Session
}

type KickPlayerInput struct {
	SessionID   string
	RequesterID string
	PlayerID    string
}

type KickPlayerOutput struct {
	Session *models.Session
}

type CloseSessionInput struct {
	SessionID    string
	RequesterID  string
	ConnectionID string
}

type CloseSessionOutput struct{}

type ChangeSlotInput struct {
	SessionID string
	PlayerID  string
	Slot      int
}

type ChangeSlotOutput struct {
	Player *models.SessionPlayer
}

type UpdatePlayerConfigInput struct {
	SessionID string
	PlayerID  string

	// Name replaces the display name when not empty
	Name string

	// Config replaces the cosmetic choices when not nil
	Config *models.PlayerConfig
}

type UpdatePlayerConfigOutput struct {
	Player *models.SessionPlayer
}

type SetReadyInput struct {
	SessionID string
	PlayerID  string
	Ready     bool
}

type SetReadyOutput struct {
	Player *models.SessionPlayer
}

type StartGameInput struct {
	SessionID   string
	RequesterID string
}

type StartGameOutput struct {
	Session *models.Session
}

type CompleteSessionInput struct {
	SessionID   string
	RequesterID string
}

type CompleteSessionOutput struct {
	Session *models.Session
}

type TouchSessionInput struct {
	SessionID string
}

type CleanupStaleSessionsInput struct {
	// MaxAge is how long a session may go without a heartbeat
	MaxAge time.Duration

	// Limit caps the sessions deleted in one run; zero means no cap
	Limit int64
}

type CleanupStaleSessionsOutput struct {
	DeletedSessionIDs []string
}
