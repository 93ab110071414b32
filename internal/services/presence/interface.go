package presence

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/partysync/internal/services/presence Service

import (
	"context"
)

// Service tracks which roster records belong to live connections.
// A connection registers "mark me disconnected" writes that run when it
// closes gracefully or its lease lapses.
type Service interface {
	// Register records the disconnect write for a player on a connection
	Register(ctx context.Context, input *RegisterInput) error

	// Unregister drops one disconnect write, e.g. after leaving a session
	Unregister(ctx context.Context, input *UnregisterInput) error

	// Renew keeps a connection's lease alive
	Renew(ctx context.Context, input *RenewInput) error

	// Disconnect runs the writes of a connection now
	Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error)

	// Sweep runs the writes of every connection whose lease lapsed
	Sweep(ctx context.Context, input *SweepInput) (*SweepOutput, error)

	// Watch opens a feed of session snapshots
	Watch(ctx context.Context, input *WatchInput) (*Watcher, error)
}
