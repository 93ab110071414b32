package action

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/partysync/internal/repositories/action Repository

import (
	"context"

	"github.com/KirkDiggler/partysync/internal/models"
)

// Repository defines the interface for a session's pending action queue
type Repository interface {
	// AppendAction adds an action to the end of the queue
	AppendAction(ctx context.Context, input *AppendActionInput) (*models.ClientAction, error)

	// ReadActions returns entries added after a given queue ID
	ReadActions(ctx context.Context, input *ReadActionsInput) (*ReadActionsOutput, error)

	// DeleteAction acknowledges an entry by removing it
	DeleteAction(ctx context.Context, input *DeleteActionInput) error

	// CountActions returns the number of pending entries
	CountActions(ctx context.Context, input *CountActionsInput) (int64, error)
}
