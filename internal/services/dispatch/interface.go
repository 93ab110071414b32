package dispatch

//go:generate mockgen -package=mocks -destination=mocks/mock_dispatch.go github.com/KirkDiggler/partysync/internal/services/dispatch Dispatcher,StateStore

import (
	"context"
	"encoding/json"
)

// Dispatcher is the single entry point for game actions. Callers never
// need to know whether they host, play alone or play as a client.
type Dispatcher interface {
	Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error)
}

// StateStore is the local copy of the game state
type StateStore interface {
	State() json.RawMessage
	SetState(state json.RawMessage)
}
