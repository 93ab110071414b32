package channel

import (
	"encoding/json"
	"sync"

	"github.com/KirkDiggler/partysync/internal/common/clock"
	"github.com/KirkDiggler/partysync/internal/models"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
)

// Config holds configuration for the state channel
type Config struct {
	// Repository dependencies
	SessionRepo sessionRepo.Repository

	// Clock for the heartbeat
	Clock clock.Clock
}

type PublishStateInput struct {
	SessionID   string
	PublisherID string
	State       json.RawMessage
}

type PublishStateOutput struct {
	Snapshot *models.StateSnapshot
}

type SubscribeStateInput struct {
	SessionID string
}

// StateSubscription delivers full states, without version or sync time.
// Updates is closed when the session closes or the subscription is closed.
type StateSubscription struct {
	Updates <-chan json.RawMessage

	closeFn   func()
	closeOnce sync.Once
}

// Close stops the subscription. It is safe to call more than once.
func (s *StateSubscription) Close() {
	s.closeOnce.Do(func() {
		if s.closeFn != nil {
			s.closeFn()
		}
	})
}
