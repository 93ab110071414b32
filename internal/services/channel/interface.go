package channel

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/partysync/internal/services/channel Service

import "context"

// Service carries the host's authoritative state to every participant.
// The host is the only writer, so clients replace their copy wholesale.
type Service interface {
	// PublishState writes the next snapshot version
	PublishState(ctx context.Context, input *PublishStateInput) (*PublishStateOutput, error)

	// SubscribeState delivers the current snapshot and every newer one
	SubscribeState(ctx context.Context, input *SubscribeStateInput) (*StateSubscription, error)
}
