package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/partysync/internal/repositories/session Repository

import (
	"context"

	"github.com/KirkDiggler/partysync/internal/models"
)

// Repository defines the interface for session persistence and change feeds
type Repository interface {
	// CreateSession writes a complete session record in one atomic operation
	CreateSession(ctx context.Context, input *CreateSessionInput) error

	// GetSession reads the session record, roster, snapshot and heartbeat
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// DeleteSession removes every key of a session and announces the close
	DeleteSession(ctx context.Context, input *DeleteSessionInput) error

	// UpdateSession applies a mutation guarded by WATCH on the record and roster
	UpdateSession(ctx context.Context, input *UpdateSessionInput) (*UpdateSessionOutput, error)

	// GetState returns the current snapshot, or nil if none was published
	GetState(ctx context.Context, input *GetStateInput) (*models.StateSnapshot, error)

	// SaveState writes the next snapshot version with the server time
	SaveState(ctx context.Context, input *SaveStateInput) (*models.StateSnapshot, error)

	// Touch refreshes the session heartbeat
	Touch(ctx context.Context, input *TouchInput) error

	// GetStaleSessions returns sessions whose heartbeat is older than a cutoff
	GetStaleSessions(ctx context.Context, input *GetStaleSessionsInput) (*GetStaleSessionsOutput, error)

	// Subscribe opens a change feed on a session
	Subscribe(ctx context.Context, input *SubscribeInput) (*Subscription, error)
}
