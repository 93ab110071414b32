package presence

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/partysync/internal/repositories/presence Repository

import (
	"context"
)

// Repository stores disconnect writes registered by live connections.
// Each connection holds a lease; when the lease lapses or the connection
// closes, its writes are claimed exactly once.
type Repository interface {
	// Register records a disconnect write and extends the connection lease
	Register(ctx context.Context, input *RegisterInput) error

	// Unregister removes one disconnect write of a connection
	Unregister(ctx context.Context, input *UnregisterInput) error

	// Renew extends a connection lease
	Renew(ctx context.Context, input *RenewInput) error

	// ClaimExpired takes the writes of every connection whose lease lapsed
	ClaimExpired(ctx context.Context, input *ClaimExpiredInput) (*ClaimOutput, error)

	// ClaimConnection takes the writes of one connection now
	ClaimConnection(ctx context.Context, input *ClaimConnectionInput) (*ClaimOutput, error)
}
