package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/KirkDiggler/partysync/internal/models"
)

type CreateSessionInput struct {
	Session *models.Session
}

type GetSessionInput struct {
	SessionID string
}

type DeleteSessionInput struct {
	SessionID string
}

// Mutation describes the writes of one UpdateSession call.
// A nil mutation leaves the session untouched.
type Mutation struct {
	// Status advances the session status when set
	Status models.SessionStatus

	// PutPlayers writes whole roster records
	PutPlayers []*models.SessionPlayer

	// DeletePlayerIDs removes roster records
	DeletePlayerIDs []string
}

type UpdateSessionInput struct {
	SessionID string

	// Mutate inspects the current session (without state) and returns the
	// writes to apply. It may be called more than once if the record changes
	// concurrently; an error aborts the update and is returned unchanged.
	Mutate func(session *models.Session) (*Mutation, error)
}

type UpdateSessionOutput struct {
	// Session is the record after the mutation was applied
	Session *models.Session

	// Changed is false when Mutate returned a nil mutation
	Changed bool
}

type GetStateInput struct {
	SessionID string
}

type SaveStateInput struct {
	SessionID string
	State     json.RawMessage
}

type TouchInput struct {
	SessionID string
	At        time.Time
}

type GetStaleSessionsInput struct {
	OlderThan time.Time
	Limit     int64
}

type GetStaleSessionsOutput struct {
	SessionIDs []string
}

type SubscribeInput struct {
	SessionID string
}

// Subscription is a live feed of session change events.
// Events is closed once the subscription is closed.
type Subscription struct {
	Events <-chan *models.SessionEvent

	closeFn   func() error
	closeOnce sync.Once
	closeErr  error
}

// NewSubscription wraps an event channel and the function that stops it
func NewSubscription(events <-chan *models.SessionEvent, closeFn func() error) *Subscription {
	return &Subscription{
		Events:  events,
		closeFn: closeFn,
	}
}

// Close stops the feed. It is safe to call more than once.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		if s.closeFn != nil {
			s.closeErr = s.closeFn()
		}
	})
	return s.closeErr
}
