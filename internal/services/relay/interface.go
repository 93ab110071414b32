package relay

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/partysync/internal/services/relay Service,Applier,Handler

import (
	"context"

	"github.com/KirkDiggler/partysync/internal/models"
)

// Service carries client intents to the host, which authorizes and
// applies them in arrival order
type Service interface {
	// SubmitAction queues an action after the client-side check.
	// A failing action is dropped without a network write or an error.
	SubmitAction(ctx context.Context, input *SubmitActionInput) (*SubmitActionOutput, error)

	// SubscribeActions feeds the host every queued entry once
	SubscribeActions(ctx context.Context, input *SubscribeActionsInput) (*ActionFeed, error)

	// HandleAction authorizes, applies and acknowledges one entry
	HandleAction(ctx context.Context, input *HandleActionInput) (*HandleActionOutput, error)

	// PendingActions counts entries not yet acknowledged
	PendingActions(ctx context.Context, input *PendingActionsInput) (int64, error)
}

// Applier runs an action through the host's state transition and publishes
// the result
type Applier interface {
	ApplyAction(ctx context.Context, action *models.Action) error
}

// Handler is a special action handler for effects that span several
// players. TryHandle returns true when it fully handled the action.
type Handler interface {
	TryHandle(ctx context.Context, input *HandlerInput) (bool, error)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, input *HandlerInput) (bool, error)

// TryHandle calls f
func (f HandlerFunc) TryHandle(ctx context.Context, input *HandlerInput) (bool, error) {
	return f(ctx, input)
}

// ApplierFunc adapts a function to the Applier interface
type ApplierFunc func(ctx context.Context, action *models.Action) error

// ApplyAction calls f
func (f ApplierFunc) ApplyAction(ctx context.Context, action *models.Action) error {
	return f(ctx, action)
}
