package presence

import (
	"time"

	"github.com/KirkDiggler/partysync/internal/models"
)

type RegisterInput struct {
	Write     *models.DisconnectWrite
	ExpiresAt time.Time
}

type UnregisterInput struct {
	ConnectionID string
	SessionID    string
	PlayerID     string
}

type RenewInput struct {
	ConnectionID string
	ExpiresAt    time.Time
}

type ClaimExpiredInput struct {
	Now   time.Time
	Limit int64
}

type ClaimConnectionInput struct {
	ConnectionID string
}

type ClaimOutput struct {
	Writes []*models.DisconnectWrite
}
