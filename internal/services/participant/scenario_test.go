package participant

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/KirkDiggler/partysync/internal/common/clock"
	"github.com/KirkDiggler/partysync/internal/common/identity"
	"github.com/KirkDiggler/partysync/internal/common/uuid"
	"github.com/KirkDiggler/partysync/internal/models"
	actionRepo "github.com/KirkDiggler/partysync/internal/repositories/action"
	presenceRepo "github.com/KirkDiggler/partysync/internal/repositories/presence"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
	"github.com/KirkDiggler/partysync/internal/services/channel"
	"github.com/KirkDiggler/partysync/internal/services/directory"
	"github.com/KirkDiggler/partysync/internal/services/dispatch"
	"github.com/KirkDiggler/partysync/internal/services/presence"
	"github.com/KirkDiggler/partysync/internal/services/relay"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

const waitFor = 3 * time.Second

// logState is the state of logReducer
type logState struct {
	Phase string   `json:"phase"`
	Log   []string `json:"log"`
}

// logReducer records every action it applies and every late joiner
type logReducer struct{}

func (logReducer) Initial(*models.Session) (json.RawMessage, error) {
	return json.Marshal(&logState{Phase: "playing", Log: []string{}})
}

func (logReducer) Apply(raw json.RawMessage, action *models.Action) (json.RawMessage, error) {
	var state logState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}

	entry := string(action.Type)
	if action.TargetSlot != nil {
		entry = fmt.Sprintf("%s:%d", action.Type, *action.TargetSlot)
	}
	state.Log = append(state.Log, entry)
	return json.Marshal(&state)
}

func (logReducer) LateJoin(raw json.RawMessage, player *models.SessionPlayer) (json.RawMessage, error) {
	var state logState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}

	state.Log = append(state.Log, fmt.Sprintf("joined:%d", player.Slot))
	return json.Marshal(&state)
}

// ScenarioTestSuite runs hosts and clients against one miniredis
type ScenarioTestSuite struct {
	suite.Suite
	mr          *miniredis.Miniredis
	client      *redis.Client
	sessionRepo sessionRepo.Repository
	directory   directory.Service
	presence    presence.Service
	channel     channel.Service
	relay       relay.Service
	ctx         context.Context
	cancel      context.CancelFunc
}

func (s *ScenarioTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.ctx, s.cancel = context.WithCancel(context.Background())

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.sessionRepo = sessions

	actions, err := actionRepo.NewRedis(&actionRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	leases, err := presenceRepo.NewRedis(&presenceRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	realClock := &clock.DefaultClock{}

	s.presence, err = presence.New(&presence.Config{
		LeaseTTL:     time.Minute,
		PresenceRepo: leases,
		SessionRepo:  sessions,
		Clock:        realClock,
	})
	s.Require().NoError(err)

	s.directory, err = directory.New(&directory.Config{
		SessionRepo:   sessions,
		Presence:      s.presence,
		Clock:         realClock,
		UUIDGenerator: uuid.New(),
	})
	s.Require().NoError(err)

	s.channel, err = channel.New(&channel.Config{
		SessionRepo: sessions,
		Clock:       realClock,
	})
	s.Require().NoError(err)

	s.relay, err = relay.New(&relay.Config{
		PollBlock:   50 * time.Millisecond,
		ActionRepo:  actions,
		SessionRepo: sessions,
	})
	s.Require().NoError(err)
}

func (s *ScenarioTestSuite) TearDownTest() {
	s.cancel()
	s.client.Close()
	s.mr.Close()
}

func TestScenarioTestSuite(t *testing.T) {
	suite.Run(t, new(ScenarioTestSuite))
}

// profileStore returns a store already holding playerID, like a client
// that has loaded the page before
func (s *ScenarioTestSuite) profileStore(playerID string) identity.Store {
	store := identity.NewMemoryStore()
	s.Require().NoError(store.Save(&identity.Profile{PlayerID: playerID, Name: playerID}))
	return store
}

func (s *ScenarioTestSuite) config(store identity.Store) *Config {
	provider, err := identity.New(&identity.Config{
		Store:         store,
		UUIDGenerator: uuid.New(),
		Clock:         &clock.DefaultClock{},
	})
	s.Require().NoError(err)

	return &Config{
		Directory:         s.directory,
		Presence:          s.presence,
		Channel:           s.channel,
		Relay:             s.relay,
		Reducer:           logReducer{},
		Identity:          provider,
		UUIDGenerator:     uuid.New(),
		KeepaliveInterval: time.Hour,
	}
}

func (s *ScenarioTestSuite) newHost() *Participant {
	host, err := NewHost(s.ctx, s.config(s.profileStore("host")), &HostInput{
		Config: &models.SessionConfig{MaxPlayers: 4},
	})
	s.Require().NoError(err)
	return host
}

func (s *ScenarioTestSuite) newClient(store identity.Store, sessionID string, slot int) *Participant {
	p, err := NewClient(s.ctx, s.config(store), &JoinInput{SessionID: sessionID, Slot: slot})
	s.Require().NoError(err)
	return p
}

func (s *ScenarioTestSuite) decode(raw json.RawMessage) *logState {
	var state logState
	s.Require().NoError(json.Unmarshal(raw, &state))
	return &state
}

func (s *ScenarioTestSuite) logOf(p *Participant) []string {
	raw := p.State()
	if raw == nil {
		return nil
	}
	return s.decode(raw).Log
}

func (s *ScenarioTestSuite) rosterSize(p *Participant) int {
	return len(p.Session().Players)
}

func (s *ScenarioTestSuite) snapshot(sessionID string) *models.StateSnapshot {
	snapshot, err := s.sessionRepo.GetState(s.ctx, &sessionRepo.GetStateInput{SessionID: sessionID})
	s.Require().NoError(err)
	return snapshot
}

func (s *ScenarioTestSuite) pending(sessionID string) int64 {
	count, err := s.relay.PendingActions(s.ctx, &relay.PendingActionsInput{SessionID: sessionID})
	s.Require().NoError(err)
	return count
}

// drain collects notifications until the channel closes
func (s *ScenarioTestSuite) drain(p *Participant) []*Notification {
	var seen []*Notification
	timeout := time.After(waitFor)
	for {
		select {
		case n, ok := <-p.Notifications():
			if !ok {
				return seen
			}
			seen = append(seen, n)
		case <-timeout:
			s.FailNow("notifications did not close")
			return nil
		}
	}
}

func (s *ScenarioTestSuite) hasRosterEvent(seen []*Notification, eventType presence.RosterEventType) bool {
	for _, n := range seen {
		if n.Type == NotificationRoster && n.Event.Type == eventType {
			return true
		}
	}
	return false
}

func (s *ScenarioTestSuite) TestHostClientLifecycle() {
	host := s.newHost()
	sessionID := host.SessionID()
	s.Equal(dispatch.RoleHost, host.Role())
	s.Equal(models.SessionStatusWaiting, host.Session().Status)

	// Client joins slot 1
	aliceStore := s.profileStore("alice")
	alice := s.newClient(aliceStore, sessionID, 1)
	s.Equal(dispatch.RoleClient, alice.Role())
	s.Equal(1, alice.Slot())
	s.Equal(StatusConnected, alice.Status())
	s.Eventually(func() bool { return s.rosterSize(host) == 2 }, waitFor, 10*time.Millisecond)

	// Host publishes v1
	s.Require().NoError(host.StartGame(s.ctx))
	s.Equal(int64(1), s.snapshot(sessionID).Version)
	s.Eventually(func() bool { return alice.State() != nil }, waitFor, 10*time.Millisecond)

	// Client action reaches the host, v2 is published and the queue drains
	out, err := alice.Dispatch(s.ctx, models.Action{Type: models.ActionRollDice}.Targets(1))
	s.Require().NoError(err)
	s.False(out.Dropped)
	s.False(out.Local)

	s.Eventually(func() bool {
		return len(s.logOf(alice)) == 1 && s.logOf(alice)[0] == "roll_dice:1"
	}, waitFor, 10*time.Millisecond)
	s.Equal([]string{"roll_dice:1"}, s.logOf(host))
	s.Equal(int64(2), s.snapshot(sessionID).Version)
	s.Eventually(func() bool { return s.pending(sessionID) == 0 }, waitFor, 10*time.Millisecond)

	// Kicking removes the record and leaves the snapshot untouched
	before := s.snapshot(sessionID)
	s.Require().NoError(host.Kick(s.ctx, alice.PlayerID()))
	s.Equal(1, s.rosterSize(host))

	seen := s.drain(alice)
	s.True(s.hasRosterEvent(seen, presence.RosterEventKicked))
	s.Equal(StatusDisconnected, alice.Status())
	s.Equal(before, s.snapshot(sessionID))

	_, err = alice.Dispatch(s.ctx, models.Action{Type: models.ActionRollDice}.Targets(1))
	s.ErrorIs(err, ErrEnded)

	// The same identity may join the freed slot again, mid-game
	again := s.newClient(aliceStore, sessionID, 1)
	s.Equal(alice.PlayerID(), again.PlayerID())
	s.Eventually(func() bool { return s.rosterSize(host) == 2 }, waitFor, 10*time.Millisecond)

	// The host seats the late joiner and publishes
	s.Eventually(func() bool {
		log := s.logOf(again)
		return len(log) == 2 && log[1] == "joined:1"
	}, waitFor, 10*time.Millisecond)

	// Closing ends every participant and the session is gone
	s.Require().NoError(host.Close(s.ctx))
	s.True(s.hasRosterEvent(s.drain(again), presence.RosterEventHostClosed))

	_, err = s.directory.LookupSession(s.ctx, &directory.LookupSessionInput{SessionID: sessionID})
	s.ErrorIs(err, directory.ErrSessionNotFound)

	select {
	case <-host.Done():
	case <-time.After(waitFor):
		s.FailNow("host did not end")
	}
}

func (s *ScenarioTestSuite) TestClientSideCheckDropsForeignSlot() {
	host := s.newHost()
	alice := s.newClient(s.profileStore("alice"), host.SessionID(), 1)
	s.Require().NoError(host.StartGame(s.ctx))

	out, err := alice.Dispatch(s.ctx, models.Action{Type: models.ActionRollDice}.Targets(0))
	s.Require().NoError(err)
	s.True(out.Dropped)

	out, err = alice.Dispatch(s.ctx, &models.Action{Type: models.ActionStartRound})
	s.Require().NoError(err)
	s.True(out.Dropped)

	s.Zero(s.pending(host.SessionID()))
}

func (s *ScenarioTestSuite) TestHostDispatchAppliesAndPublishes() {
	host := s.newHost()
	s.Require().NoError(host.StartGame(s.ctx))

	out, err := host.Dispatch(s.ctx, &models.Action{Type: models.ActionStartRound})
	s.Require().NoError(err)
	s.True(out.Local)

	s.Equal([]string{"start_round"}, s.logOf(host))
	s.JSONEq(string(host.State()), string(s.snapshot(host.SessionID()).State))
}

func (s *ScenarioTestSuite) TestReloadResumesRecord() {
	host := s.newHost()
	aliceStore := s.profileStore("alice")
	alice := s.newClient(aliceStore, host.SessionID(), 2)

	// A closed tab leaves the record behind, marked disconnected
	s.Require().NoError(alice.Disconnect(s.ctx))
	s.Eventually(func() bool {
		player := host.Session().Players["alice"]
		return player != nil && !player.Connected
	}, waitFor, 10*time.Millisecond)

	reloaded := s.newClient(aliceStore, host.SessionID(), directory.AnySlot)
	s.Equal("alice", reloaded.PlayerID())
	s.Equal(2, reloaded.Slot())
	s.Eventually(func() bool {
		player := host.Session().Players["alice"]
		return player != nil && player.Connected
	}, waitFor, 10*time.Millisecond)

	seen := s.drainUntil(host, presence.RosterEventReconnected)
	s.True(s.hasRosterEvent(seen, presence.RosterEventDropped))
}

// drainUntil collects notifications until one of eventType arrives
func (s *ScenarioTestSuite) drainUntil(p *Participant, eventType presence.RosterEventType) []*Notification {
	var seen []*Notification
	timeout := time.After(waitFor)
	for {
		select {
		case n, ok := <-p.Notifications():
			s.Require().True(ok, "notifications closed early")
			seen = append(seen, n)
			if n.Type == NotificationRoster && n.Event.Type == eventType {
				return seen
			}
		case <-timeout:
			s.FailNow("no " + string(eventType) + " notification")
			return nil
		}
	}
}

func (s *ScenarioTestSuite) TestReloadedHostResumes() {
	hostStore := s.profileStore("host")
	host, err := NewHost(s.ctx, s.config(hostStore), &HostInput{
		Config: &models.SessionConfig{MaxPlayers: 4},
	})
	s.Require().NoError(err)
	sessionID := host.SessionID()

	s.Require().NoError(host.StartGame(s.ctx))
	_, err = host.Dispatch(s.ctx, &models.Action{Type: models.ActionStartRound})
	s.Require().NoError(err)
	s.Require().NoError(host.Disconnect(s.ctx))

	resumed := s.newClient(hostStore, sessionID, directory.AnySlot)
	s.Equal(dispatch.RoleHost, resumed.Role())
	s.Equal([]string{"start_round"}, s.logOf(resumed))

	// Clients queued while the host was away are still handled
	alice := s.newClient(s.profileStore("alice"), sessionID, 1)
	_, err = alice.Dispatch(s.ctx, models.Action{Type: models.ActionEndTurn}.Targets(1))
	s.Require().NoError(err)

	// The late join and the action may be handled in either order
	s.Eventually(func() bool { return len(s.logOf(resumed)) == 3 }, waitFor, 10*time.Millisecond)
	s.Contains(s.logOf(resumed), "end_turn:1")
	s.Contains(s.logOf(resumed), "joined:1")
}

func (s *ScenarioTestSuite) TestHostOnlyOperations() {
	host := s.newHost()
	alice := s.newClient(s.profileStore("alice"), host.SessionID(), 1)

	s.ErrorIs(alice.StartGame(s.ctx), ErrNotHost)
	s.ErrorIs(alice.Kick(s.ctx, "host"), ErrNotHost)
	s.ErrorIs(alice.Close(s.ctx), ErrNotHost)
	s.ErrorIs(alice.Publish(s.ctx, json.RawMessage(`{}`)), ErrNotHost)
	s.ErrorIs(host.Leave(s.ctx), directory.ErrHostCannotLeave)
}

func (s *ScenarioTestSuite) TestLeaveAndSlotChanges() {
	host := s.newHost()
	alice := s.newClient(s.profileStore("alice"), host.SessionID(), directory.AnySlot)
	s.Equal(1, alice.Slot())

	s.Require().NoError(alice.ChangeSlot(s.ctx, 3))
	s.Equal(3, alice.Slot())
	s.Require().NoError(alice.SetReady(s.ctx, true))
	s.Require().NoError(alice.UpdateProfile(s.ctx, "Alice", &models.PlayerConfig{Color: "red"}))

	s.Eventually(func() bool {
		player := host.Session().Players["alice"]
		return player != nil && player.Slot == 3 && player.Ready && player.Name == "Alice"
	}, waitFor, 10*time.Millisecond)

	s.Require().NoError(alice.Leave(s.ctx))
	s.Eventually(func() bool { return s.rosterSize(host) == 1 }, waitFor, 10*time.Millisecond)

	select {
	case <-alice.Done():
	case <-time.After(waitFor):
		s.FailNow("client did not end")
	}
}

func (s *ScenarioTestSuite) TestSinglePlayer() {
	solo, err := NewSingle(s.ctx, s.config(s.profileStore("solo")))
	s.Require().NoError(err)
	s.Equal(dispatch.RoleSingle, solo.Role())

	s.Require().NoError(solo.StartGame(s.ctx))
	out, err := solo.Dispatch(s.ctx, &models.Action{Type: models.ActionStartRound})
	s.Require().NoError(err)
	s.True(out.Local)
	s.Equal([]string{"start_round"}, s.logOf(solo))

	s.ErrorIs(solo.SetReady(s.ctx, true), ErrNotInSession)
	s.ErrorIs(solo.Kick(s.ctx, "x"), ErrNotInSession)
	s.Require().NoError(solo.Close(s.ctx))
}
