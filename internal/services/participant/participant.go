package participant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KirkDiggler/partysync/internal/common/identity"
	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/KirkDiggler/partysync/internal/services/channel"
	"github.com/KirkDiggler/partysync/internal/services/directory"
	"github.com/KirkDiggler/partysync/internal/services/dispatch"
	"github.com/KirkDiggler/partysync/internal/services/presence"
	"github.com/KirkDiggler/partysync/internal/services/relay"
)

const (
	defaultKeepaliveInterval  = 10 * time.Second
	defaultNotificationBuffer = 64
)

// Participant is one player's membership in one session. A single loop
// goroutine owns the local state, roster view, connection status and
// subscriptions; every method runs on that goroutine.
type Participant struct {
	cfg           *Config
	inbox         chan func()
	notifications chan *Notification
	done          chan struct{}
	ctx           context.Context
	cancel        context.CancelFunc

	// Owned by the loop
	role         dispatch.Role
	sessionID    string
	playerID     string
	connectionID string
	slot         int
	session      *models.Session
	status       ConnectionStatus
	ended        bool
	store        *stateStore
	dispatcher   dispatch.Dispatcher
	applier      relay.Applier
	watcher      *presence.Watcher
	stateSub     *channel.StateSubscription
	actionFeed   *relay.ActionFeed
	sessions     <-chan *models.Session
	states       <-chan json.RawMessage
	actions      <-chan *models.ClientAction
}

// stateStore is the local state; SetState tells the owner about it
type stateStore struct {
	*dispatch.MemoryState
	onSet func(json.RawMessage)
}

func (s *stateStore) SetState(state json.RawMessage) {
	s.MemoryState.SetState(state)
	if s.onSet != nil {
		s.onSet(state)
	}
}

func validate(cfg *Config, needReducer bool) error {
	if cfg == nil {
		return ErrNilConfig
	}

	if needReducer && cfg.Reducer == nil {
		return ErrNilReducer
	}

	if cfg.Directory == nil {
		return ErrNilDirectory
	}

	if cfg.Presence == nil {
		return ErrNilPresence
	}

	if cfg.Channel == nil {
		return ErrNilChannel
	}

	if cfg.Relay == nil {
		return ErrNilRelay
	}

	if cfg.Identity == nil {
		return ErrNilIdentity
	}

	if cfg.UUIDGenerator == nil {
		return ErrNilUUIDGenerator
	}

	return nil
}

func newParticipant(ctx context.Context, cfg *Config, role dispatch.Role) (*Participant, error) {
	p := &Participant{
		cfg:    cfg,
		inbox:  make(chan func()),
		done:   make(chan struct{}),
		role:   role,
		status: StatusDisconnected,
	}

	buffer := cfg.NotificationBuffer
	if buffer <= 0 {
		buffer = defaultNotificationBuffer
	}
	p.notifications = make(chan *Notification, buffer)

	p.store = &stateStore{
		MemoryState: dispatch.NewMemoryState(nil),
		onSet: func(state json.RawMessage) {
			p.notify(&Notification{Type: NotificationState, State: state})
		},
	}

	if cfg.Reducer != nil {
		applier, err := dispatch.NewLocalApplier(&dispatch.LocalApplierConfig{
			Seat:    p.seat,
			Reducer: cfg.Reducer,
			Store:   p.store,
			Channel: cfg.Channel,
		})
		if err != nil {
			return nil, err
		}
		p.applier = applier
	} else {
		p.applier = relay.ApplierFunc(func(context.Context, *models.Action) error {
			return ErrNilReducer
		})
	}

	dispatcher, err := dispatch.New(&dispatch.Config{
		Seat:  p.seat,
		Local: p.applier,
		Relay: cfg.Relay,
	})
	if err != nil {
		return nil, err
	}
	p.dispatcher = dispatcher

	p.ctx, p.cancel = context.WithCancel(ctx)
	return p, nil
}

// NewHost creates a session and hosts it until Close or ctx is done
func NewHost(ctx context.Context, cfg *Config, input *HostInput) (*Participant, error) {
	if err := validate(cfg, true); err != nil {
		return nil, err
	}

	p, err := newParticipant(ctx, cfg, dispatch.RoleHost)
	if err != nil {
		return nil, err
	}
	p.status = StatusConnecting

	profile, err := cfg.Identity.Current()
	if err != nil {
		p.cancel()
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	var sessionConfig *models.SessionConfig
	if input != nil {
		sessionConfig = input.Config
	}

	p.connectionID = cfg.UUIDGenerator.NewUUID()
	out, err := cfg.Directory.CreateSession(ctx, &directory.CreateSessionInput{
		Host:         profile.Info(),
		Config:       sessionConfig,
		ConnectionID: p.connectionID,
	})
	if err != nil {
		p.cancel()
		return nil, err
	}

	p.sessionID = out.SessionID
	p.playerID = profile.PlayerID
	p.slot = 0

	if err := p.start(); err != nil {
		p.cancel()
		return nil, err
	}

	return p, nil
}

// NewClient takes part in an existing session. An identity that is still in
// the roster resumes its record; a reloaded host resumes hosting. A
// colliding identity is replaced once and the join retried.
func NewClient(ctx context.Context, cfg *Config, input *JoinInput) (*Participant, error) {
	if err := validate(cfg, false); err != nil {
		return nil, err
	}

	if input == nil || input.SessionID == "" {
		return nil, directory.ErrSessionNotFound
	}

	p, err := newParticipant(ctx, cfg, dispatch.RoleClient)
	if err != nil {
		return nil, err
	}
	p.status = StatusConnecting
	p.sessionID = input.SessionID
	p.connectionID = cfg.UUIDGenerator.NewUUID()

	player, err := p.resumeOrJoin(ctx, input)
	if err != nil {
		p.cancel()
		return nil, err
	}

	p.playerID = player.ID
	p.slot = player.Slot
	if player.IsHost {
		if cfg.Reducer == nil {
			p.cancel()
			return nil, ErrNilReducer
		}
		p.role = dispatch.RoleHost
	}

	if err := p.start(); err != nil {
		p.cancel()
		return nil, err
	}

	return p, nil
}

func (p *Participant) resumeOrJoin(ctx context.Context, input *JoinInput) (*models.SessionPlayer, error) {
	profile, err := p.cfg.Identity.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	resumed, err := p.cfg.Directory.ReconnectPlayer(ctx, &directory.ReconnectPlayerInput{
		SessionID:    input.SessionID,
		PlayerID:     profile.PlayerID,
		ConnectionID: p.connectionID,
	})
	if err == nil {
		log.Printf("Resumed player %s in session %s", profile.PlayerID, input.SessionID)
		return resumed.Player, nil
	}
	if !errors.Is(err, directory.ErrPlayerNotFound) {
		return nil, err
	}

	joined, err := p.join(ctx, input, profile)
	if errors.Is(err, directory.ErrIdentityConflict) {
		log.Printf("Identity %s already in session %s, minting a new one", profile.PlayerID, input.SessionID)
		if profile, err = p.cfg.Identity.Rotate(); err != nil {
			return nil, fmt.Errorf("failed to rotate identity: %w", err)
		}
		joined, err = p.join(ctx, input, profile)
	}
	if err != nil {
		return nil, err
	}

	return joined, nil
}

func (p *Participant) join(ctx context.Context, input *JoinInput, profile *identity.Profile) (*models.SessionPlayer, error) {
	out, err := p.cfg.Directory.JoinSession(ctx, &directory.JoinSessionInput{
		SessionID:    input.SessionID,
		Player:       profile.Info(),
		Slot:         input.Slot,
		ConnectionID: p.connectionID,
	})
	if err != nil {
		return nil, err
	}

	return out.Player, nil
}

// start opens the subscriptions, reads the first roster snapshot and
// starts the loop
func (p *Participant) start() error {
	watcher, err := p.cfg.Presence.Watch(p.ctx, &presence.WatchInput{
		SessionID: p.sessionID,
	})
	if err != nil {
		if errors.Is(err, presence.ErrSessionNotFound) {
			return ErrSessionClosed
		}
		return err
	}

	var first *models.Session
	select {
	case first = <-watcher.Sessions:
	case <-p.ctx.Done():
		watcher.Close()
		return p.ctx.Err()
	}
	if first == nil {
		watcher.Close()
		return ErrSessionClosed
	}

	p.watcher = watcher
	p.sessions = watcher.Sessions
	p.session = first

	if p.role == dispatch.RoleHost {
		// A reloaded host picks up where its last publish left off
		if first.State != nil {
			p.store.MemoryState.SetState(first.State.State)
		}
		if first.Status == models.SessionStatusInGame {
			if err := p.subscribeActions(); err != nil {
				p.closeSubscriptions()
				return err
			}
		}
	} else {
		sub, err := p.cfg.Channel.SubscribeState(p.ctx, &channel.SubscribeStateInput{
			SessionID: p.sessionID,
		})
		if err != nil {
			p.closeSubscriptions()
			return err
		}
		p.stateSub = sub
		p.states = sub.Updates
	}

	p.status = StatusConnected
	go p.loop()
	return nil
}

func (p *Participant) subscribeActions() error {
	feed, err := p.cfg.Relay.SubscribeActions(p.ctx, &relay.SubscribeActionsInput{
		SessionID: p.sessionID,
	})
	if err != nil {
		return err
	}

	p.actionFeed = feed
	p.actions = feed.Actions
	return nil
}

// seat is read by the dispatcher on the loop goroutine
func (p *Participant) seat() dispatch.Seat {
	return dispatch.Seat{
		Role:      p.role,
		SessionID: p.sessionID,
		PlayerID:  p.playerID,
		Slot:      p.slot,
	}
}

// call runs fn on the loop goroutine and waits for it
func (p *Participant) call(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	select {
	case p.inbox <- func() {
		defer close(ran)
		fn()
	}:
	case <-p.done:
		return ErrEnded
	case <-ctx.Done():
		return ctx.Err()
	}

	<-ran
	return nil
}

// do runs a fallible operation on the loop goroutine
func (p *Participant) do(ctx context.Context, fn func() error) error {
	var opErr error
	err := p.call(ctx, func() {
		if p.ended {
			opErr = ErrEnded
			return
		}
		opErr = fn()
	})
	if err != nil {
		return err
	}
	return opErr
}

// read runs fn on the loop goroutine, or directly once the loop is gone
func (p *Participant) read(fn func()) {
	if err := p.call(context.Background(), fn); err != nil {
		fn()
	}
}

func (p *Participant) notify(n *Notification) {
	select {
	case p.notifications <- n:
	default:
		log.Printf("Dropped %s notification for %s: buffer full", n.Type, p.playerID)
	}
}

func (p *Participant) setStatus(status ConnectionStatus) {
	if p.status == status {
		return
	}

	log.Printf("Player %s in session %s is %s", p.playerID, p.sessionID, status)
	p.status = status
	p.notify(&Notification{Type: NotificationConnection, Status: status})
}

func (p *Participant) closeSubscriptions() {
	if p.watcher != nil {
		p.watcher.Close()
	}
	if p.stateSub != nil {
		p.stateSub.Close()
	}
	if p.actionFeed != nil {
		p.actionFeed.Close()
	}
	p.sessions, p.states, p.actions = nil, nil, nil
}

// end tears the participant down; the loop exits after the current step
func (p *Participant) end() {
	if p.ended {
		return
	}

	p.ended = true
	p.closeSubscriptions()
	p.setStatus(StatusDisconnected)
	p.notify(&Notification{Type: NotificationEnded})
	p.cancel()
}

func (p *Participant) requireHost() error {
	if p.role == dispatch.RoleSingle {
		return ErrNotInSession
	}
	if p.role != dispatch.RoleHost {
		return ErrNotHost
	}
	return nil
}

func (p *Participant) publish(ctx context.Context, state json.RawMessage) error {
	_, err := p.cfg.Channel.PublishState(ctx, &channel.PublishStateInput{
		SessionID:   p.sessionID,
		PublisherID: p.playerID,
		State:       state,
	})
	return err
}

// StartGame moves the session in game, publishes the reducer's first state
// and starts handling client actions
func (p *Participant) StartGame(ctx context.Context) error {
	return p.do(ctx, func() error {
		if p.role == dispatch.RoleSingle {
			return p.startSingle()
		}

		if err := p.requireHost(); err != nil {
			return err
		}

		out, err := p.cfg.Directory.StartGame(ctx, &directory.StartGameInput{
			SessionID:   p.sessionID,
			RequesterID: p.playerID,
		})
		if err != nil {
			return err
		}
		p.session = out.Session

		// The session is in game from here on and StartGame cannot be
		// retried, so the feed starts before anything else can fail
		if err := p.subscribeActions(); err != nil {
			return fmt.Errorf("failed to subscribe to actions: %w", err)
		}

		initial, err := p.cfg.Reducer.Initial(out.Session)
		if err != nil {
			return fmt.Errorf("failed to build initial state: %w", err)
		}

		p.store.SetState(initial)
		if err := p.publish(ctx, initial); err != nil {
			return fmt.Errorf("failed to publish initial state: %w", err)
		}

		return nil
	})
}

// Publish replaces the shared state; host only
func (p *Participant) Publish(ctx context.Context, state json.RawMessage) error {
	return p.do(ctx, func() error {
		if err := p.requireHost(); err != nil {
			return err
		}

		if err := p.publish(ctx, state); err != nil {
			return err
		}

		p.store.SetState(state)
		return nil
	})
}

// Dispatch applies the action here when hosting or playing alone, and
// submits it to the host otherwise
func (p *Participant) Dispatch(ctx context.Context, action *models.Action) (*dispatch.DispatchOutput, error) {
	var out *dispatch.DispatchOutput
	err := p.do(ctx, func() error {
		var err error
		out, err = p.dispatcher.Dispatch(ctx, &dispatch.DispatchInput{Action: action})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Kick removes another player; host only
func (p *Participant) Kick(ctx context.Context, playerID string) error {
	return p.do(ctx, func() error {
		if err := p.requireHost(); err != nil {
			return err
		}

		out, err := p.cfg.Directory.KickPlayer(ctx, &directory.KickPlayerInput{
			SessionID:   p.sessionID,
			RequesterID: p.playerID,
			PlayerID:    playerID,
		})
		if err != nil {
			return err
		}

		p.applySession(out.Session)
		return nil
	})
}

// Complete ends the game for everyone; host only
func (p *Participant) Complete(ctx context.Context) error {
	return p.do(ctx, func() error {
		if err := p.requireHost(); err != nil {
			return err
		}

		out, err := p.cfg.Directory.CompleteSession(ctx, &directory.CompleteSessionInput{
			SessionID:   p.sessionID,
			RequesterID: p.playerID,
		})
		if err != nil {
			return err
		}

		p.applySession(out.Session)
		return nil
	})
}

// Leave removes the caller from the session. The host closes instead.
func (p *Participant) Leave(ctx context.Context) error {
	return p.do(ctx, func() error {
		if p.role == dispatch.RoleSingle {
			p.end()
			return nil
		}

		if p.role == dispatch.RoleHost {
			return directory.ErrHostCannotLeave
		}

		_, err := p.cfg.Directory.LeaveSession(ctx, &directory.LeaveSessionInput{
			SessionID:    p.sessionID,
			PlayerID:     p.playerID,
			ConnectionID: p.connectionID,
		})
		if err != nil && !errors.Is(err, directory.ErrSessionNotFound) && !errors.Is(err, directory.ErrPlayerNotFound) {
			return err
		}

		p.end()
		return nil
	})
}

// Close deletes the whole session; host only
func (p *Participant) Close(ctx context.Context) error {
	return p.do(ctx, func() error {
		if p.role == dispatch.RoleSingle {
			p.end()
			return nil
		}

		if err := p.requireHost(); err != nil {
			return err
		}

		_, err := p.cfg.Directory.CloseSession(ctx, &directory.CloseSessionInput{
			SessionID:    p.sessionID,
			RequesterID:  p.playerID,
			ConnectionID: p.connectionID,
		})
		if err != nil && !errors.Is(err, directory.ErrSessionNotFound) {
			return err
		}

		p.end()
		return nil
	})
}

// Disconnect drops the connection the way a closed tab does: the roster
// record stays and is marked disconnected
func (p *Participant) Disconnect(ctx context.Context) error {
	return p.do(ctx, func() error {
		if p.role != dispatch.RoleSingle {
			_, err := p.cfg.Presence.Disconnect(ctx, &presence.DisconnectInput{
				ConnectionID: p.connectionID,
			})
			if err != nil {
				return err
			}
		}

		p.end()
		return nil
	})
}

// SetReady flips the caller's readiness gate
func (p *Participant) SetReady(ctx context.Context, ready bool) error {
	return p.do(ctx, func() error {
		if p.role == dispatch.RoleSingle {
			return ErrNotInSession
		}

		_, err := p.cfg.Directory.SetReady(ctx, &directory.SetReadyInput{
			SessionID: p.sessionID,
			PlayerID:  p.playerID,
			Ready:     ready,
		})
		return err
	})
}

// ChangeSlot moves the caller to another free slot
func (p *Participant) ChangeSlot(ctx context.Context, slot int) error {
	return p.do(ctx, func() error {
		if p.role == dispatch.RoleSingle {
			return ErrNotInSession
		}

		out, err := p.cfg.Directory.ChangeSlot(ctx, &directory.ChangeSlotInput{
			SessionID: p.sessionID,
			PlayerID:  p.playerID,
			Slot:      slot,
		})
		if err != nil {
			return err
		}

		p.slot = out.Player.Slot
		return nil
	})
}

// UpdateProfile changes the caller's display name or cosmetic choices
func (p *Participant) UpdateProfile(ctx context.Context, name string, config *models.PlayerConfig) error {
	return p.do(ctx, func() error {
		if p.role == dispatch.RoleSingle {
			return ErrNotInSession
		}

		_, err := p.cfg.Directory.UpdatePlayerConfig(ctx, &directory.UpdatePlayerConfigInput{
			SessionID: p.sessionID,
			PlayerID:  p.playerID,
			Name:      name,
			Config:    config,
		})
		return err
	})
}

// State returns the local copy of the game state
func (p *Participant) State() json.RawMessage {
	var state json.RawMessage
	p.read(func() { state = p.store.State() })
	return state
}

// Session returns the last roster snapshot seen
func (p *Participant) Session() *models.Session {
	var session *models.Session
	p.read(func() { session = p.session })
	return session
}

// Status returns the connection status
func (p *Participant) Status() ConnectionStatus {
	var status ConnectionStatus
	p.read(func() { status = p.status })
	return status
}

// Role returns how the participant takes part
func (p *Participant) Role() dispatch.Role {
	var role dispatch.Role
	p.read(func() { role = p.role })
	return role
}

// SessionID returns the session ID, empty when playing alone
func (p *Participant) SessionID() string {
	var id string
	p.read(func() { id = p.sessionID })
	return id
}

// PlayerID returns the caller's player ID
func (p *Participant) PlayerID() string {
	var id string
	p.read(func() { id = p.playerID })
	return id
}

// Slot returns the caller's current slot
func (p *Participant) Slot() int {
	var slot int
	p.read(func() { slot = p.slot })
	return slot
}

// Notifications delivers what the participant observes. It is closed
// after the ended notification.
func (p *Participant) Notifications() <-chan *Notification {
	return p.notifications
}

// Done is closed once the participant has ended
func (p *Participant) Done() <-chan struct{} {
	return p.done
}
