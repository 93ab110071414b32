package action

import (
	"time"

	"github.com/KirkDiggler/partysync/internal/models"
)

// StartID reads a queue from its first entry
const StartID = "0-0"

type AppendActionInput struct {
	SessionID string
	PlayerID  string
	Action    *models.Action
}

type ReadActionsInput struct {
	SessionID string

	// AfterID is the last queue ID already seen; StartID reads everything
	AfterID string

	// Count limits the number of entries returned, 0 for no limit
	Count int64

	// Block waits up to this long for new entries; 0 does not wait
	Block time.Duration
}

type ReadActionsOutput struct {
	Actions []*models.ClientAction

	// LastID is the ID of the last entry returned, or AfterID when empty
	LastID string
}

type DeleteActionInput struct {
	SessionID string
	ActionID  string
}

type CountActionsInput struct {
	SessionID string
}
