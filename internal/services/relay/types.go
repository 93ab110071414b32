package relay

import (
	"sync"
	"time"

	"github.com/KirkDiggler/partysync/internal/models"
	actionRepo "github.com/KirkDiggler/partysync/internal/repositories/action"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
)

// Config holds configuration for the action relay
type Config struct {
	// Handlers are tried in order before falling back to the applier
	Handlers []Handler

	// PollBlock is how long one queue read waits for new entries
	PollBlock time.Duration

	// BatchSize caps the entries fetched per read
	BatchSize int64

	// Repository dependencies
	ActionRepo  actionRepo.Repository
	SessionRepo sessionRepo.Repository
}

type SubmitActionInput struct {
	SessionID string
	PlayerID  string

	// Slot is the submitter's own slot as the client knows it
	Slot int

	Action *models.Action
}

type SubmitActionOutput struct {
	// Entry is the queued entry; nil when the action was dropped
	Entry *models.ClientAction

	// Dropped is true when the client-side check failed
	Dropped bool
}

type SubscribeActionsInput struct {
	SessionID string

	// AfterID resumes after an entry; empty starts at the oldest pending one
	AfterID string
}

// ActionFeed delivers queued entries in arrival order.
// Actions is closed once the feed stops.
type ActionFeed struct {
	Actions <-chan *models.ClientAction

	closeFn   func()
	closeOnce sync.Once
}

// Close stops the feed. It is safe to call more than once.
func (f *ActionFeed) Close() {
	f.closeOnce.Do(func() {
		if f.closeFn != nil {
			f.closeFn()
		}
	})
}

type HandleActionInput struct {
	SessionID string
	Entry     *models.ClientAction
	Applier   Applier
}

// Outcome is what became of a handled entry
type Outcome string

const (
	// OutcomeApplied means the applier ran the action
	OutcomeApplied Outcome = "applied"

	// OutcomeClaimed means a special handler took the action
	OutcomeClaimed Outcome = "claimed"

	// OutcomeRejected means the action failed authorization and was discarded
	OutcomeRejected Outcome = "rejected"
)

type HandleActionOutput struct {
	Outcome Outcome
}

// HandlerInput is what a special handler sees of an authorized entry
type HandlerInput struct {
	Session *models.Session
	Player  *models.SessionPlayer
	Entry   *models.ClientAction
}

type PendingActionsInput struct {
	SessionID string
}
