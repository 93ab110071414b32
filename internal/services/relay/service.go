package relay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KirkDiggler/partysync/internal/models"
	actionRepo "github.com/KirkDiggler/partysync/internal/repositories/action"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
)

const (
	defaultPollBlock = time.Second
	defaultBatchSize = 32

	// retryDelay is the pause after a failed queue read
	retryDelay = 500 * time.Millisecond
)

// service implements the Service interface
type service struct {
	handlers    []Handler
	pollBlock   time.Duration
	batchSize   int64
	actionRepo  actionRepo.Repository
	sessionRepo sessionRepo.Repository
}

// New creates a new action relay
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.ActionRepo == nil {
		return nil, ErrNilActionRepo
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	pollBlock := cfg.PollBlock
	if pollBlock <= 0 {
		pollBlock = defaultPollBlock
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &service{
		handlers:    cfg.Handlers,
		pollBlock:   pollBlock,
		batchSize:   batchSize,
		actionRepo:  cfg.ActionRepo,
		sessionRepo: cfg.SessionRepo,
	}, nil
}

// Authorize reports whether a player in slot may originate action: the type
// must be on the client allow-list and any target slot must be the
// player's own
func Authorize(action *models.Action, slot int) bool {
	if action == nil || !models.IsClientAction(action.Type) {
		return false
	}

	if action.TargetSlot != nil && *action.TargetSlot != slot {
		return false
	}

	return true
}

// SubmitAction runs the client-side check and queues passing actions.
// The check is advisory; the host repeats it in HandleAction.
func (s *service) SubmitAction(ctx context.Context, input *SubmitActionInput) (*SubmitActionOutput, error) {
	if input == nil || input.SessionID == "" || input.PlayerID == "" || input.Action == nil {
		return nil, ErrInvalidInput
	}

	if !Authorize(input.Action, input.Slot) {
		return &SubmitActionOutput{Dropped: true}, nil
	}

	entry, err := s.actionRepo.AppendAction(ctx, &actionRepo.AppendActionInput{
		SessionID: input.SessionID,
		PlayerID:  input.PlayerID,
		Action:    input.Action,
	})
	if err != nil {
		if errors.Is(err, actionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to submit action: %w", err)
	}

	return &SubmitActionOutput{
		Entry: entry,
	}, nil
}

// SubscribeActions starts feeding queued entries to the host. Each read
// continues after the last delivered ID, so a running feed never delivers
// an entry twice.
func (s *service) SubscribeActions(ctx context.Context, input *SubscribeActionsInput) (*ActionFeed, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
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

	if session.Status != models.SessionStatusInGame {
		return nil, ErrNotInGame
	}

	lastID := input.AfterID
	if lastID == "" {
		lastID = actionRepo.StartID
	}

	actions := make(chan *models.ClientAction)
	feedCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(actions)

		for feedCtx.Err() == nil {
			out, err := s.actionRepo.ReadActions(feedCtx, &actionRepo.ReadActionsInput{
				SessionID: input.SessionID,
				AfterID:   lastID,
				Count:     s.batchSize,
				Block:     s.pollBlock,
			})
			if err != nil {
				if feedCtx.Err() != nil {
					return
				}
				log.Printf("Failed to read actions for session %s: %v", input.SessionID, err)
				select {
				case <-time.After(retryDelay):
					continue
				case <-feedCtx.Done():
					return
				}
			}

			for _, entry := range out.Actions {
				select {
				case actions <- entry:
					lastID = entry.ID
				case <-feedCtx.Done():
					return
				}
			}
		}
	}()

	return &ActionFeed{
		Actions: actions,
		closeFn: cancel,
	}, nil
}

// HandleAction re-checks an entry against the submitter's current slot,
// offers it to the special handlers, falls back to the applier and deletes
// the entry once it has been judged. When the session cannot be read the
// entry stays queued and counted by PendingActions. Handling the same entry
// twice applies it twice.
func (s *service) HandleAction(ctx context.Context, input *HandleActionInput) (output *HandleActionOutput, err error) {
	if input == nil || input.SessionID == "" || input.Entry == nil {
		return nil, ErrInvalidInput
	}

	if input.Applier == nil {
		return nil, ErrNilApplier
	}

	entry := input.Entry

	// Deleting the entry is the acknowledgement. A backend failure before
	// the entry was judged leaves it queued.
	ack := true
	defer func() {
		if !ack {
			return
		}
		ackErr := s.actionRepo.DeleteAction(ctx, &actionRepo.DeleteActionInput{
			SessionID: input.SessionID,
			ActionID:  entry.ID,
		})
		if ackErr != nil && err == nil {
			output = nil
			err = fmt.Errorf("failed to acknowledge action %s: %w", entry.ID, ackErr)
		}
	}()

	session, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		ack = false
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	player, ok := session.Players[entry.PlayerID]
	if !ok {
		log.Printf("Discarded action %s: submitter %s is not in session %s", entry.ID, entry.PlayerID, input.SessionID)
		return &HandleActionOutput{Outcome: OutcomeRejected}, nil
	}

	if !Authorize(entry.Action, player.Slot) {
		log.Printf("Discarded unauthorized action %s from %s in session %s", entry.ID, entry.PlayerID, input.SessionID)
		return &HandleActionOutput{Outcome: OutcomeRejected}, nil
	}

	handlerInput := &HandlerInput{
		Session: session,
		Player:  player,
		Entry:   entry,
	}
	for _, handler := range s.handlers {
		claimed, err := handler.TryHandle(ctx, handlerInput)
		if err != nil {
			return nil, fmt.Errorf("failed to handle action %s: %w", entry.ID, err)
		}
		if claimed {
			return &HandleActionOutput{Outcome: OutcomeClaimed}, nil
		}
	}

	if err := input.Applier.ApplyAction(ctx, entry.Action); err != nil {
		return nil, fmt.Errorf("failed to apply action %s: %w", entry.ID, err)
	}

	return &HandleActionOutput{Outcome: OutcomeApplied}, nil
}

// PendingActions counts the entries still queued for a session
func (s *service) PendingActions(ctx context.Context, input *PendingActionsInput) (int64, error) {
	if input == nil || input.SessionID == "" {
		return 0, ErrSessionNotFound
	}

	count, err := s.actionRepo.CountActions(ctx, &actionRepo.CountActionsInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}

	return count, nil
}
