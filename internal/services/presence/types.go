package presence

import (
	"sync"
	"time"

	"github.com/KirkDiggler/partysync/internal/common/clock"
	"github.com/KirkDiggler/partysync/internal/models"
	presenceRepo "github.com/KirkDiggler/partysync/internal/repositories/presence"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
)

// Config holds configuration for the presence service
type Config struct {
	// LeaseTTL is how long a connection stays alive without a renew
	LeaseTTL time.Duration

	// Repository dependencies
	PresenceRepo presenceRepo.Repository
	SessionRepo  sessionRepo.Repository

	// Clock for lease expiry
	Clock clock.Clock
}

type RegisterInput struct {
	ConnectionID string
	SessionID    string
	PlayerID     string
}

type UnregisterInput struct {
	ConnectionID string
	SessionID    string
	PlayerID     string
}

type RenewInput struct {
	ConnectionID string
}

type DisconnectInput struct {
	ConnectionID string
}

type DisconnectOutput struct {
	// Applied counts the roster records marked disconnected
	Applied int
}

type SweepInput struct {
	// Limit caps the connections claimed in one run; zero means no cap
	Limit int64
}

type SweepOutput struct {
	// Claimed counts the disconnect writes taken by this sweeper
	Claimed int

	// Applied counts the roster records marked disconnected
	Applied int
}

type WatchInput struct {
	SessionID string
}

// Watcher is a feed of session snapshots. A nil snapshot means the
// session record vanished; Sessions is closed right after it.
type Watcher struct {
	Sessions <-chan *models.Session

	closeFn   func()
	closeOnce sync.Once
}

// Close stops the feed. It is safe to call more than once.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		if w.closeFn != nil {
			w.closeFn()
		}
	})
}

// RosterEventType classifies a change between two session snapshots
type RosterEventType string

const (
	// RosterEventKicked means my own record vanished while the session remains
	RosterEventKicked RosterEventType = "kicked"

	// RosterEventHostClosed means the whole session vanished
	RosterEventHostClosed RosterEventType = "host_closed"

	// RosterEventDropped means another player lost their connection but is still in the roster
	RosterEventDropped RosterEventType = "dropped"

	// RosterEventReconnected means a dropped player is back
	RosterEventReconnected RosterEventType = "reconnected"

	// RosterEventJoined means a new record appeared
	RosterEventJoined RosterEventType = "joined"

	// RosterEventLeft means another player's record vanished
	RosterEventLeft RosterEventType = "left"

	// RosterEventStatusChanged means the session status advanced
	RosterEventStatusChanged RosterEventType = "status_changed"
)

// RosterEvent is one classified change
type RosterEvent struct {
	Type RosterEventType

	// Player is the affected record; for left and kicked it is the last known one
	Player *models.SessionPlayer

	// Status is set for status changes
	Status models.SessionStatus
}
