package presence

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KirkDiggler/partysync/internal/common/clock"
	"github.com/KirkDiggler/partysync/internal/models"
	presenceRepo "github.com/KirkDiggler/partysync/internal/repositories/presence"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
)

const (
	defaultLeaseTTL = 30 * time.Second

	// watchBuffer is the number of snapshots a slow watcher may lag behind
	watchBuffer = 16
)

// service implements the Service interface
type service struct {
	leaseTTL     time.Duration
	presenceRepo presenceRepo.Repository
	sessionRepo  sessionRepo.Repository
	clock        clock.Clock
}

// New creates a new presence service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.PresenceRepo == nil {
		return nil, ErrNilPresenceRepo
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	leaseTTL := cfg.LeaseTTL
	if leaseTTL <= 0 {
		leaseTTL = defaultLeaseTTL
	}

	return &service{
		leaseTTL:     leaseTTL,
		presenceRepo: cfg.PresenceRepo,
		sessionRepo:  cfg.SessionRepo,
		clock:        cfg.Clock,
	}, nil
}

// Register records "if my connection drops, mark me disconnected"
func (s *service) Register(ctx context.Context, input *RegisterInput) error {
	if input == nil || input.ConnectionID == "" || input.SessionID == "" || input.PlayerID == "" {
		return ErrInvalidInput
	}

	err := s.presenceRepo.Register(ctx, &presenceRepo.RegisterInput{
		Write: &models.DisconnectWrite{
			ConnectionID: input.ConnectionID,
			SessionID:    input.SessionID,
			PlayerID:     input.PlayerID,
		},
		ExpiresAt: s.clock.Now().Add(s.leaseTTL),
	})
	if err != nil {
		return fmt.Errorf("failed to register presence: %w", err)
	}

	return nil
}

// Unregister drops the disconnect write of one player on a connection
func (s *service) Unregister(ctx context.Context, input *UnregisterInput) error {
	if input == nil || input.ConnectionID == "" || input.SessionID == "" || input.PlayerID == "" {
		return ErrInvalidInput
	}

	err := s.presenceRepo.Unregister(ctx, &presenceRepo.UnregisterInput{
		ConnectionID: input.ConnectionID,
		SessionID:    input.SessionID,
		PlayerID:     input.PlayerID,
	})
	if err != nil {
		return fmt.Errorf("failed to unregister presence: %w", err)
	}

	return nil
}

// Renew pushes the lease of a connection forward. ErrLeaseExpired means a
// sweeper already ran the connection's writes and it must register again.
func (s *service) Renew(ctx context.Context, input *RenewInput) error {
	if input == nil || input.ConnectionID == "" {
		return ErrInvalidInput
	}

	err := s.presenceRepo.Renew(ctx, &presenceRepo.RenewInput{
		ConnectionID: input.ConnectionID,
		ExpiresAt:    s.clock.Now().Add(s.leaseTTL),
	})
	if err != nil {
		if errors.Is(err, presenceRepo.ErrLeaseNotFound) {
			return ErrLeaseExpired
		}
		return fmt.Errorf("failed to renew lease: %w", err)
	}

	return nil
}

// Disconnect is the graceful path: the writes run now instead of after the lease
func (s *service) Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error) {
	if input == nil || input.ConnectionID == "" {
		return nil, ErrInvalidInput
	}

	claimed, err := s.presenceRepo.ClaimConnection(ctx, &presenceRepo.ClaimConnectionInput{
		ConnectionID: input.ConnectionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim connection: %w", err)
	}

	applied, err := s.applyWrites(ctx, claimed.Writes)
	if err != nil {
		return nil, err
	}

	return &DisconnectOutput{
		Applied: applied,
	}, nil
}

// Sweep claims lapsed leases. Several sweepers may run at once; each
// connection's writes are claimed by exactly one of them.
func (s *service) Sweep(ctx context.Context, input *SweepInput) (*SweepOutput, error) {
	if input == nil {
		input = &SweepInput{}
	}

	claimed, err := s.presenceRepo.ClaimExpired(ctx, &presenceRepo.ClaimExpiredInput{
		Now:   s.clock.Now(),
		Limit: input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim expired leases: %w", err)
	}

	applied, err := s.applyWrites(ctx, claimed.Writes)
	if err != nil {
		return nil, err
	}

	if len(claimed.Writes) > 0 {
		log.Printf("Presence sweep claimed %d writes, marked %d players disconnected", len(claimed.Writes), applied)
	}

	return &SweepOutput{
		Claimed: len(claimed.Writes),
		Applied: applied,
	}, nil
}

// applyWrites marks each player disconnected. A write whose record or
// session is gone does nothing, so a kicked player is never brought back.
func (s *service) applyWrites(ctx context.Context, writes []*models.DisconnectWrite) (int, error) {
	applied := 0
	for _, write := range writes {
		out, err := s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
			SessionID: write.SessionID,
			Mutate: func(session *models.Session) (*sessionRepo.Mutation, error) {
				player, ok := session.Players[write.PlayerID]
				if !ok || !player.Connected {
					return nil, nil
				}

				updated := *player
				updated.Connected = false
				return &sessionRepo.Mutation{
					PutPlayers: []*models.SessionPlayer{&updated},
				}, nil
			},
		})
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				continue
			}
			return applied, fmt.Errorf("failed to apply disconnect write for %s: %w", write.PlayerID, err)
		}

		if out.Changed {
			applied++
		}
	}

	return applied, nil
}

// Watch sends the current session and then a fresh snapshot after every
// roster or status change
func (s *service) Watch(ctx context.Context, input *WatchInput) (*Watcher, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrInvalidInput
	}

	// Subscribe before the first read so no change falls in between
	sub, err := s.sessionRepo.Subscribe(ctx, &sessionRepo.SubscribeInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to session: %w", err)
	}

	current, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		sub.Close()
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sessions := make(chan *models.Session, watchBuffer)
	watchCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(sessions)
		defer sub.Close()

		send := func(session *models.Session) bool {
			select {
			case sessions <- session:
				return true
			case <-watchCtx.Done():
				return false
			}
		}

		if !send(current) {
			return
		}

		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-sub.Events:
				if !ok {
					return
				}

				switch event.Type {
				case models.SessionEventClosed:
					send(nil)
					return
				case models.SessionEventStatePublished:
					continue
				}

				next, err := s.sessionRepo.GetSession(watchCtx, &sessionRepo.GetSessionInput{
					SessionID: input.SessionID,
				})
				if err != nil {
					if errors.Is(err, sessionRepo.ErrSessionNotFound) {
						send(nil)
						return
					}
					if watchCtx.Err() != nil {
						return
					}
					log.Printf("Failed to refresh session %s: %v", input.SessionID, err)
					continue
				}

				if !send(next) {
					return
				}
			}
		}
	}()

	return &Watcher{
		Sessions: sessions,
		closeFn:  cancel,
	}, nil
}
