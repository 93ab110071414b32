package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KirkDiggler/partysync/internal/common/clock"
	"github.com/KirkDiggler/partysync/internal/common/uuid"
	"github.com/KirkDiggler/partysync/internal/models"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
	"github.com/KirkDiggler/partysync/internal/services/presence"
)

const (
	// maxPlayersLimit is the largest session the protocol supports
	maxPlayersLimit = 4

	// createAttempts bounds retries on a session ID collision
	createAttempts = 3

	defaultStaleAge = 24 * time.Hour
)

var defaultPreGamePhases = []string{"lobby", "setup"}

// service implements the Service interface
type service struct {
	preGamePhases map[string]struct{}
	sessionRepo   sessionRepo.Repository
	presence      presence.Service
	clock         clock.Clock
	uuidGenerator uuid.UUID
}

// New creates a new directory service
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

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	phases := cfg.PreGamePhases
	if len(phases) == 0 {
		phases = defaultPreGamePhases
	}

	preGame := make(map[string]struct{}, len(phases))
	for _, phase := range phases {
		preGame[phase] = struct{}{}
	}

	return &service{
		preGamePhases: preGame,
		sessionRepo:   cfg.SessionRepo,
		presence:      cfg.Presence,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
	}, nil
}

// CreateSession writes the whole initial record in one atomic operation
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil || !validPlayer(input.Host) {
		return nil, ErrInvalidPlayer
	}

	config := models.SessionConfig{MaxPlayers: maxPlayersLimit}
	if input.Config != nil {
		config = *input.Config
		if config.MaxPlayers == 0 {
			config.MaxPlayers = maxPlayersLimit
		}
	}

	if config.MaxPlayers < 1 || config.MaxPlayers > maxPlayersLimit {
		return nil, ErrInvalidConfig
	}

	now := s.clock.Now()
	host := &models.SessionPlayer{
		ID:        input.Host.ID,
		Name:      input.Host.Name,
		Slot:      0,
		IsHost:    true,
		Connected: true,
		Config:    input.Host.Config,
	}

	var session *models.Session
	for attempt := 0; attempt < createAttempts; attempt++ {
		session = &models.Session{
			ID:            s.uuidGenerator.NewToken(),
			HostID:        host.ID,
			Status:        models.SessionStatusWaiting,
			Config:        config,
			Players:       map[string]*models.SessionPlayer{host.ID: host},
			CreatedAt:     now,
			LastUpdatedAt: now,
		}

		err := s.sessionRepo.CreateSession(ctx, &sessionRepo.CreateSessionInput{
			Session: session,
		})
		if err == nil {
			break
		}
		if !errors.Is(err, sessionRepo.ErrSessionExists) {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}

		log.Printf("Session ID collision on %s, generating a new one", session.ID)
		session = nil
	}

	if session == nil {
		return nil, errors.New("failed to generate a unique session ID")
	}

	s.registerPresence(ctx, input.ConnectionID, session.ID, host.ID)

	return &CreateSessionOutput{
		SessionID: session.ID,
		Session:   session,
	}, nil
}

// LookupSession always reads through to the backend so a closed session
// is reported as not found
func (s *service) LookupSession(ctx context.Context, input *LookupSessionInput) (*LookupSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, mapRepoError(err, "look up session")
	}

	return &LookupSessionOutput{
		Summary: &models.SessionSummary{
			ID:            session.ID,
			HostID:        session.HostID,
			Status:        session.Status,
			Config:        session.Config,
			Players:       session.Players,
			IsResumedGame: s.isResumedGame(session.State),
		},
	}, nil
}

// JoinSession checks the roster and writes the new record in one
// conditional write. Two players racing for the same slot both read it
// free, but only the first commit wins; the other re-reads and gets
// ErrSlotTaken.
func (s *service) JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	if !validPlayer(input.Player) {
		return nil, ErrInvalidPlayer
	}

	var joined *models.SessionPlayer
	out, err := s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
		SessionID: input.SessionID,
		Mutate: func(session *models.Session) (*sessionRepo.Mutation, error) {
			if session.Status == models.SessionStatusCompleted {
				return nil, ErrSessionCompleted
			}

			if _, ok := session.Players[input.Player.ID]; ok {
				return nil, ErrIdentityConflict
			}

			if len(session.Players) >= session.Config.MaxPlayers {
				return nil, ErrSessionFull
			}

			slot := input.Slot
			if slot == AnySlot {
				slot = freeSlot(session)
			}

			if slot < 0 || slot >= session.Config.MaxPlayers {
				return nil, ErrInvalidSlot
			}

			if session.PlayerInSlot(slot) != nil {
				return nil, ErrSlotTaken
			}

			joined = &models.SessionPlayer{
				ID:        input.Player.ID,
				Name:      input.Player.Name,
				Slot:      slot,
				Connected: true,
				Config:    input.Player.Config,
			}

			return &sessionRepo.Mutation{
				PutPlayers: []*models.SessionPlayer{joined},
			}, nil
		},
	})
	if err != nil {
		return nil, mapRepoError(err, "join session")
	}

	s.registerPresence(ctx, input.ConnectionID, input.SessionID, joined.ID)

	return &JoinSessionOutput{
		Player:  joined,
		Session: out.Session,
	}, nil
}

// ReconnectPlayer marks a returning identity connected again. It never
// creates a record, so a kicked player cannot come back this way.
func (s *service) ReconnectPlayer(ctx context.Context, input *ReconnectPlayerInput) (*ReconnectPlayerOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	out, err := s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
		SessionID: input.SessionID,
		Mutate: func(session *models.Session) (*sessionRepo.Mutation, error) {
			player, ok := session.Players[input.PlayerID]
			if !ok {
				return nil, ErrPlayerNotFound
			}

			if player.Connected {
				return nil, nil
			}

			updated := *player
			updated.Connected = true
			return &sessionRepo.Mutation{
				PutPlayers: []*models.SessionPlayer{&updated},
			}, nil
		},
	})
	if err != nil {
		return nil, mapRepoError(err, "reconnect player")
	}

	s.registerPresence(ctx, input.ConnectionID, input.SessionID, input.PlayerID)

	return &ReconnectPlayerOutput{
		Player:  out.Session.Players[input.PlayerID],
		Session: out.Session,
	}, nil
}

// LeaveSession deletes the caller's roster record and nothing else
func (s *service) LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	out, err := s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
		SessionID: input.SessionID,
		Mutate: func(session *models.Session) (*sessionRepo.Mutation, error) {
			player, ok := session.Players[input.PlayerID]
			if !ok {
				return nil, ErrPlayerNotFound
			}

			if player.IsHost {
				return nil, ErrHostCannotLeave
			}

			return &sessionRepo.Mutation{
				DeletePlayerIDs: []string{input.PlayerID},
			}, nil
		},
	})
	if err != nil {
		return nil, mapRepoError(err, "leave session")
	}

	s.unregisterPresence(ctx, input.ConnectionID, input.SessionID, input.PlayerID)

	return &LeaveSessionOutput{
		Session: out.Session,
	}, nil
}

// KickPlayer is the same write as LeaveSession issued by the host.
// The state snapshot is not touched so the kicked player's progress survives.
func (s *service) KickPlayer(ctx context.Context, input *KickPlayerInput) (*KickPlayerOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	out, err := s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
		SessionID: input.SessionID,
		Mutate: func(session *models.Session) (*sessionRepo.Mutation, error) {
			if session.HostID != input.RequesterID {
				return nil, ErrNotHost
			}

			player, ok := session.Players[input.PlayerID]
			if !ok {
				return nil, ErrPlayerNotFound
			}

			if player.IsHost {
				return nil, ErrCannotKickHost
			}

			return &sessionRepo.Mutation{
				DeletePlayerIDs: []string{input.PlayerID},
			}, nil
		},
	})
	if err != nil {
		return nil, mapRepoError(err, "kick player")
	}

	log.Printf("Player %s was kicked from session %s", input.PlayerID, input.SessionID)

	return &KickPlayerOutput{
		Session: out.Session,
	}, nil
}

// CloseSession deletes the record; subscribers see it vanish
func (s *service) CloseSession(ctx context.Context, input *CloseSessionInput) (*CloseSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, mapRepoError(err, "get session")
	}

	// The host never changes, so checking before the delete is safe
	if session.HostID != input.RequesterID {
		return nil, ErrNotHost
	}

	err = s.sessionRepo.DeleteSession(ctx, &sessionRepo.DeleteSessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, mapRepoError(err, "close session")
	}

	s.unregisterPresence(ctx, input.ConnectionID, input.SessionID, input.RequesterID)

	return &CloseSessionOutput{}, nil
}

// ChangeSlot moves a player with the same collision check as JoinSession
func (s *service) ChangeSlot(ctx context.Context, input *ChangeSlotInput) (*ChangeSlotOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	player, err := s.updatePlayer(ctx, input.SessionID, input.PlayerID, func(session *models.Session, player *models.SessionPlayer) error {
		if input.Slot < 0 || input.Slot >= session.Config.MaxPlayers {
			return ErrInvalidSlot
		}

		if occupant := session.PlayerInSlot(input.Slot); occupant != nil && occupant.ID != player.ID {
			return ErrSlotTaken
		}

		player.Slot = input.Slot
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, "change slot")
	}

	return &ChangeSlotOutput{
		Player: player,
	}, nil
}

// UpdatePlayerConfig replaces the player's name and cosmetic choices
func (s *service) UpdatePlayerConfig(ctx context.Context, input *UpdatePlayerConfigInput) (*UpdatePlayerConfigOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	player, err := s.updatePlayer(ctx, input.SessionID, input.PlayerID, func(_ *models.Session, player *models.SessionPlayer) error {
		if input.Name != "" {
			player.Name = input.Name
		}
		if input.Config != nil {
			config := *input.Config
			player.Config = &config
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, "update player config")
	}

	return &UpdatePlayerConfigOutput{
		Player: player,
	}, nil
}

// SetReady writes the player's readiness flag
func (s *service) SetReady(ctx context.Context, input *SetReadyInput) (*SetReadyOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	player, err := s.updatePlayer(ctx, input.SessionID, input.PlayerID, func(_ *models.Session, player *models.SessionPlayer) error {
		player.Ready = input.Ready
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, "set ready")
	}

	return &SetReadyOutput{
		Player: player,
	}, nil
}

// StartGame opens play. With RequireReady every non-host player must be ready.
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	out, err := s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
		SessionID: input.SessionID,
		Mutate: func(session *models.Session) (*sessionRepo.Mutation, error) {
			if session.HostID != input.RequesterID {
				return nil, ErrNotHost
			}

			if session.Status != models.SessionStatusWaiting {
				return nil, ErrInvalidStatus
			}

			if session.Config.RequireReady {
				for _, player := range session.Players {
					if !player.IsHost && !player.Ready {
						return nil, ErrNotReady
					}
				}
			}

			return &sessionRepo.Mutation{
				Status: models.SessionStatusInGame,
			}, nil
		},
	})
	if err != nil {
		return nil, mapRepoError(err, "start game")
	}

	return &StartGameOutput{
		Session: out.Session,
	}, nil
}

// CompleteSession ends play; the record stays until the host closes it
func (s *service) CompleteSession(ctx context.Context, input *CompleteSessionInput) (*CompleteSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	out, err := s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
		SessionID: input.SessionID,
		Mutate: func(session *models.Session) (*sessionRepo.Mutation, error) {
			if session.HostID != input.RequesterID {
				return nil, ErrNotHost
			}

			if session.Status != models.SessionStatusInGame {
				return nil, ErrInvalidStatus
			}

			return &sessionRepo.Mutation{
				Status: models.SessionStatusCompleted,
			}, nil
		},
	})
	if err != nil {
		return nil, mapRepoError(err, "complete session")
	}

	return &CompleteSessionOutput{
		Session: out.Session,
	}, nil
}

// TouchSession moves the heartbeat to now
func (s *service) TouchSession(ctx context.Context, input *TouchSessionInput) error {
	if input == nil || input.SessionID == "" {
		return ErrSessionNotFound
	}

	err := s.sessionRepo.Touch(ctx, &sessionRepo.TouchInput{
		SessionID: input.SessionID,
		At:        s.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return nil
}

// CleanupStaleSessions deletes sessions nobody has touched within MaxAge
func (s *service) CleanupStaleSessions(ctx context.Context, input *CleanupStaleSessionsInput) (*CleanupStaleSessionsOutput, error) {
	if input == nil {
		input = &CleanupStaleSessionsInput{}
	}

	maxAge := input.MaxAge
	if maxAge <= 0 {
		maxAge = defaultStaleAge
	}

	stale, err := s.sessionRepo.GetStaleSessions(ctx, &sessionRepo.GetStaleSessionsInput{
		OlderThan: s.clock.Now().Add(-maxAge),
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get stale sessions: %w", err)
	}

	output := &CleanupStaleSessionsOutput{
		DeletedSessionIDs: []string{},
	}

	for _, sessionID := range stale.SessionIDs {
		err := s.sessionRepo.DeleteSession(ctx, &sessionRepo.DeleteSessionInput{
			SessionID: sessionID,
		})
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				continue
			}
			return output, fmt.Errorf("failed to delete stale session %s: %w", sessionID, err)
		}
		output.DeletedSessionIDs = append(output.DeletedSessionIDs, sessionID)
	}

	if len(output.DeletedSessionIDs) > 0 {
		log.Printf("Deleted %d stale sessions", len(output.DeletedSessionIDs))
	}

	return output, nil
}

// updatePlayer applies edit to a copy of one roster record and writes it
// back. An edit that changes nothing skips the write.
func (s *service) updatePlayer(ctx context.Context, sessionID, playerID string, edit func(*models.Session, *models.SessionPlayer) error) (*models.SessionPlayer, error) {
	var updated *models.SessionPlayer
	_, err := s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
		SessionID: sessionID,
		Mutate: func(session *models.Session) (*sessionRepo.Mutation, error) {
			player, ok := session.Players[playerID]
			if !ok {
				return nil, ErrPlayerNotFound
			}

			copied := *player
			if err := edit(session, &copied); err != nil {
				return nil, err
			}

			updated = &copied
			if samePlayer(player, &copied) {
				return nil, nil
			}

			return &sessionRepo.Mutation{
				PutPlayers: []*models.SessionPlayer{&copied},
			}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// isResumedGame reports whether a snapshot exists whose top-level phase
// is outside the pre-game set
func (s *service) isResumedGame(snapshot *models.StateSnapshot) bool {
	if snapshot == nil || len(snapshot.State) == 0 || string(snapshot.State) == "null" {
		return false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(snapshot.State, &fields); err != nil {
		return true
	}

	var phase string
	if raw, ok := fields["phase"]; ok {
		if err := json.Unmarshal(raw, &phase); err != nil {
			return true
		}
	}

	_, preGame := s.preGamePhases[phase]
	return !preGame
}

func (s *service) registerPresence(ctx context.Context, connectionID, sessionID, playerID string) {
	if s.presence == nil || connectionID == "" {
		return
	}

	err := s.presence.Register(ctx, &presence.RegisterInput{
		ConnectionID: connectionID,
		SessionID:    sessionID,
		PlayerID:     playerID,
	})
	if err != nil {
		// The keepalive re-registers once it sees the lease missing
		log.Printf("Failed to register presence for %s in %s: %v", playerID, sessionID, err)
	}
}

func (s *service) unregisterPresence(ctx context.Context, connectionID, sessionID, playerID string) {
	if s.presence == nil || connectionID == "" {
		return
	}

	err := s.presence.Unregister(ctx, &presence.UnregisterInput{
		ConnectionID: connectionID,
		SessionID:    sessionID,
		PlayerID:     playerID,
	})
	if err != nil {
		log.Printf("Failed to unregister presence for %s in %s: %v", playerID, sessionID, err)
	}
}

func validPlayer(player *models.PlayerInfo) bool {
	return player != nil && player.ID != "" && player.Name != ""
}

// freeSlot returns the lowest unoccupied slot, or -1
func freeSlot(session *models.Session) int {
	for slot := 0; slot < session.Config.MaxPlayers; slot++ {
		if session.PlayerInSlot(slot) == nil {
			return slot
		}
	}
	return -1
}

func samePlayer(a, b *models.SessionPlayer) bool {
	if a.Name != b.Name || a.Slot != b.Slot || a.Ready != b.Ready || a.Connected != b.Connected {
		return false
	}
	if (a.Config == nil) != (b.Config == nil) {
		return false
	}
	return a.Config == nil || *a.Config == *b.Config
}

// mapRepoError translates repository errors into directory errors
func mapRepoError(err error, action string) error {
	var dirErr DirectoryError
	switch {
	case errors.As(err, &dirErr):
		return dirErr
	case errors.Is(err, sessionRepo.ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, sessionRepo.ErrInvalidStatusTransition):
		return ErrInvalidStatus
	case errors.Is(err, sessionRepo.ErrContention):
		return ErrBusy
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}
