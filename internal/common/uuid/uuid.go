package uuid

import (
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/partysync/internal/common/uuid UUID

type UUID interface {
	NewUUID() string

	// NewToken returns an unguessable identifier suitable for sharing out of band
	NewToken() string
}

// DefaultUUID implements the UUID interface using the uuid package

type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new UUID
func (d *DefaultUUID) NewUUID() string {
	return uuid.New().String()
}

// NewToken returns 122 random bits from a v4 UUID, without dashes
func (d *DefaultUUID) NewToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
