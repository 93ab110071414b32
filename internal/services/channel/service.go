package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/KirkDiggler/partysync/internal/common/clock"
	"github.com/KirkDiggler/partysync/internal/models"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
)

// updateBuffer is how many states a slow subscriber may lag behind
const updateBuffer = 16

// service implements the Service interface
type service struct {
	sessionRepo sessionRepo.Repository
	clock       clock.Clock
}

// New creates a new state channel
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	return &service{
		sessionRepo: cfg.SessionRepo,
		clock:       cfg.Clock,
	}, nil
}

// PublishState stores the state as version+1 and then, separately,
// refreshes the session heartbeat. The encoding keeps nulls and list
// holes as they are, so the state is only checked for being JSON.
func (s *service) PublishState(ctx context.Context, input *PublishStateInput) (*PublishStateOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	if len(input.State) == 0 || !json.Valid(input.State) {
		return nil, ErrInvalidState
	}

	session, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.HostID != input.PublisherID {
		return nil, ErrNotHost
	}

	snapshot, err := s.sessionRepo.SaveState(ctx, &sessionRepo.SaveStateInput{
		SessionID: input.SessionID,
		State:     input.State,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to publish state: %w", err)
	}

	// A missed heartbeat only delays stale cleanup
	err = s.sessionRepo.Touch(ctx, &sessionRepo.TouchInput{
		SessionID: input.SessionID,
		At:        s.clock.Now(),
	})
	if err != nil {
		log.Printf("Failed to touch session %s after publish: %v", input.SessionID, err)
	}

	return &PublishStateOutput{
		Snapshot: snapshot,
	}, nil
}

// SubscribeState subscribes before reading the current snapshot, then
// drops any published version it has already delivered
func (s *service) SubscribeState(ctx context.Context, input *SubscribeStateInput) (*StateSubscription, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	sub, err := s.sessionRepo.Subscribe(ctx, &sessionRepo.SubscribeInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to state: %w", err)
	}

	current, err := s.sessionRepo.GetState(ctx, &sessionRepo.GetStateInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		sub.Close()
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	updates := make(chan json.RawMessage, updateBuffer)
	subCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(updates)
		defer sub.Close()

		var delivered int64
		deliver := func(snapshot *models.StateSnapshot) bool {
			if snapshot == nil || snapshot.Version <= delivered {
				return true
			}
			delivered = snapshot.Version
			select {
			case updates <- snapshot.State:
				return true
			case <-subCtx.Done():
				return false
			}
		}

		if !deliver(current) {
			return
		}

		for {
			select {
			case <-subCtx.Done():
				return
			case event, ok := <-sub.Events:
				if !ok {
					return
				}
				switch event.Type {
				case models.SessionEventClosed:
					return
				case models.SessionEventStatePublished:
					if !deliver(event.Snapshot) {
						return
					}
				}
			}
		}
	}()

	return &StateSubscription{
		Updates: updates,
		closeFn: cancel,
	}, nil
}
