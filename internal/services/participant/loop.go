package participant

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/KirkDiggler/partysync/internal/reducer"
	"github.com/KirkDiggler/partysync/internal/services/directory"
	"github.com/KirkDiggler/partysync/internal/services/dispatch"
	"github.com/KirkDiggler/partysync/internal/services/presence"
	"github.com/KirkDiggler/partysync/internal/services/relay"
)

// NewSingle plays alone: actions go straight through the reducer and
// nothing is published
func NewSingle(ctx context.Context, cfg *Config) (*Participant, error) {
	if err := validate(cfg, true); err != nil {
		return nil, err
	}

	p, err := newParticipant(ctx, cfg, dispatch.RoleSingle)
	if err != nil {
		return nil, err
	}

	profile, err := cfg.Identity.Current()
	if err != nil {
		p.cancel()
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	p.playerID = profile.PlayerID
	p.session = &models.Session{
		HostID: profile.PlayerID,
		Status: models.SessionStatusWaiting,
		Config: models.SessionConfig{MaxPlayers: 1},
		Players: map[string]*models.SessionPlayer{
			profile.PlayerID: {
				ID:        profile.PlayerID,
				Name:      profile.Name,
				IsHost:    true,
				Connected: true,
				Config:    profile.Config,
			},
		},
	}
	p.status = StatusConnected

	go p.loop()
	return p, nil
}

func (p *Participant) startSingle() error {
	initial, err := p.cfg.Reducer.Initial(p.session)
	if err != nil {
		return fmt.Errorf("failed to build initial state: %w", err)
	}

	p.session.Status = models.SessionStatusInGame
	p.store.SetState(initial)
	return nil
}

func (p *Participant) loop() {
	defer close(p.done)
	defer close(p.notifications)
	defer p.closeSubscriptions()

	var tick <-chan time.Time
	if p.role != dispatch.RoleSingle {
		interval := p.cfg.KeepaliveInterval
		if interval <= 0 {
			interval = defaultKeepaliveInterval
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-p.ctx.Done():
			p.end()
			return

		case fn := <-p.inbox:
			fn()

		case next, ok := <-p.sessions:
			if !ok {
				p.sessions = nil
				p.end()
				continue
			}
			p.applySession(next)

		case state, ok := <-p.states:
			if !ok {
				p.states = nil
				continue
			}
			p.store.SetState(state)

		case entry, ok := <-p.actions:
			if !ok {
				log.Printf("Action feed for session %s ended", p.sessionID)
				p.actions = nil
				continue
			}
			p.handleEntry(entry)

		case <-tick:
			p.keepalive()
		}
	}
}

// applySession diffs a roster snapshot against the last one and reacts to
// removal, closure and late joiners
func (p *Participant) applySession(next *models.Session) {
	events := presence.DiffRoster(p.playerID, p.session, next)

	if next != nil {
		p.session = next
		if me, ok := next.Players[p.playerID]; ok {
			p.slot = me.Slot
		}
	}

	for _, event := range events {
		p.notify(&Notification{Type: NotificationRoster, Event: event})

		switch event.Type {
		case presence.RosterEventKicked, presence.RosterEventHostClosed:
			log.Printf("Player %s left session %s: %s", p.playerID, p.sessionID, event.Type)
			p.end()
			return
		case presence.RosterEventJoined:
			if p.role == dispatch.RoleHost && next.Status == models.SessionStatusInGame {
				p.lateJoin(event.Player)
			}
		}
	}
}

// lateJoin seats a player who joined mid-game when the reducer supports it
func (p *Participant) lateJoin(player *models.SessionPlayer) {
	joiner, ok := p.cfg.Reducer.(reducer.LateJoiner)
	if !ok {
		return
	}

	current := p.store.State()
	if current == nil {
		return
	}

	next, err := joiner.LateJoin(current, player)
	if err != nil {
		log.Printf("Failed to seat late player %s in session %s: %v", player.ID, p.sessionID, err)
		return
	}

	if bytes.Equal(current, next) {
		return
	}

	p.store.SetState(next)
	if err := p.publish(p.ctx, next); err != nil {
		log.Printf("Failed to publish after late join in session %s: %v", p.sessionID, err)
	}
}

func (p *Participant) handleEntry(entry *models.ClientAction) {
	out, err := p.cfg.Relay.HandleAction(p.ctx, &relay.HandleActionInput{
		SessionID: p.sessionID,
		Entry:     entry,
		Applier:   p.applier,
	})
	if err != nil {
		log.Printf("Failed to handle action %s in session %s: %v", entry.ID, p.sessionID, err)
		return
	}

	if out.Outcome != relay.OutcomeApplied {
		log.Printf("Action %s from %s in session %s was %s", entry.ID, entry.PlayerID, p.sessionID, out.Outcome)
	}
}

// keepalive renews the lease and, for the host, the session heartbeat. A
// lapsed lease means a sweeper already marked us disconnected, so the
// record is resumed.
func (p *Participant) keepalive() {
	err := p.cfg.Presence.Renew(p.ctx, &presence.RenewInput{
		ConnectionID: p.connectionID,
	})
	if errors.Is(err, presence.ErrLeaseExpired) {
		_, err = p.cfg.Directory.ReconnectPlayer(p.ctx, &directory.ReconnectPlayerInput{
			SessionID:    p.sessionID,
			PlayerID:     p.playerID,
			ConnectionID: p.connectionID,
		})
		if errors.Is(err, directory.ErrPlayerNotFound) || errors.Is(err, directory.ErrSessionNotFound) {
			// The roster watcher reports removal
			return
		}
	}

	if err == nil && p.role == dispatch.RoleHost {
		err = p.cfg.Directory.TouchSession(p.ctx, &directory.TouchSessionInput{
			SessionID: p.sessionID,
		})
	}

	if err != nil {
		if p.ctx.Err() != nil {
			return
		}
		log.Printf("Keepalive failed for %s in session %s: %v", p.playerID, p.sessionID, err)
		p.setStatus(StatusConnecting)
		return
	}

	p.setStatus(StatusConnected)
}
