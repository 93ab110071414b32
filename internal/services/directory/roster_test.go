package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	clockMocks "github.com/KirkDiggler/partysync/internal/common/clock/mocks"
	"github.com/KirkDiggler/partysync/internal/common/uuid"
	"github.com/KirkDiggler/partysync/internal/models"
	presenceRepo "github.com/KirkDiggler/partysync/internal/repositories/presence"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
	"github.com/KirkDiggler/partysync/internal/services/presence"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// RosterTestSuite runs the directory against miniredis so the conditional
// writes are exercised for real
type RosterTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockClock   *clockMocks.MockClock
	mr          *miniredis.Miniredis
	client      *redis.Client
	sessionRepo sessionRepo.Repository
	presence    presence.Service
	service     Service
	ctx         context.Context
	now         time.Time

	sessionID string
}

func (s *RosterTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.now = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.ctx = context.Background()

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.sessionRepo = sessions

	leases, err := presenceRepo.NewRedis(&presenceRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	presenceSvc, err := presence.New(&presence.Config{
		LeaseTTL:     time.Minute,
		PresenceRepo: leases,
		SessionRepo:  sessions,
		Clock:        s.mockClock,
	})
	s.Require().NoError(err)
	s.presence = presenceSvc

	svc, err := New(&Config{
		SessionRepo:   sessions,
		Presence:      presenceSvc,
		Clock:         s.mockClock,
		UUIDGenerator: uuid.New(),
	})
	s.Require().NoError(err)
	s.service = svc

	out, err := s.service.CreateSession(s.ctx, &CreateSessionInput{
		Host:         &models.PlayerInfo{ID: "host", Name: "Host"},
		Config:       &models.SessionConfig{MaxPlayers: 4},
		ConnectionID: "conn-host",
	})
	s.Require().NoError(err)
	s.sessionID = out.SessionID
}

func (s *RosterTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
	s.mockCtrl.Finish()
}

func TestRosterTestSuite(t *testing.T) {
	suite.Run(t, new(RosterTestSuite))
}

func (s *RosterTestSuite) join(id string, slot int) (*JoinSessionOutput, error) {
	return s.service.JoinSession(s.ctx, &JoinSessionInput{
		SessionID:    s.sessionID,
		Player:       &models.PlayerInfo{ID: id, Name: id},
		Slot:         slot,
		ConnectionID: "conn-" + id,
	})
}

func (s *RosterTestSuite) session() *models.Session {
	session, err := s.sessionRepo.GetSession(s.ctx, &sessionRepo.GetSessionInput{SessionID: s.sessionID})
	s.Require().NoError(err)
	return session
}

// assertRosterInvariants checks one host and unique slots
func (s *RosterTestSuite) assertRosterInvariants(session *models.Session) {
	hosts := 0
	slots := map[int]string{}
	for id, player := range session.Players {
		if player.IsHost {
			hosts++
			s.Equal(session.HostID, id)
		}
		if other, taken := slots[player.Slot]; taken {
			s.Failf("duplicate slot", "slot %d held by %s and %s", player.Slot, other, id)
		}
		slots[player.Slot] = id
	}
	s.Equal(1, hosts)
}

func (s *RosterTestSuite) TestCreateSession_Record() {
	session := s.session()
	s.Equal(models.SessionStatusWaiting, session.Status)
	s.Nil(session.State)
	s.Require().Len(session.Players, 1)
	s.True(session.Players["host"].IsHost)
	s.Equal(0, session.Players["host"].Slot)

	count, err := s.client.ZCard(s.ctx, "presence:leases").Result()
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *RosterTestSuite) TestJoinSession_Success() {
	out, err := s.join("alice", 1)
	s.Require().NoError(err)
	s.Equal(1, out.Player.Slot)
	s.True(out.Player.Connected)
	s.False(out.Player.IsHost)

	session := s.session()
	s.Len(session.Players, 2)
	s.assertRosterInvariants(session)
}

func (s *RosterTestSuite) TestJoinSession_AnySlotTakesLowestFree() {
	_, err := s.join("alice", 2)
	s.Require().NoError(err)

	out, err := s.join("bobby", AnySlot)
	s.Require().NoError(err)
	s.Equal(1, out.Player.Slot)
}

func (s *RosterTestSuite) TestJoinSession_Rejections() {
	_, err := s.join("alice", 1)
	s.Require().NoError(err)

	_, err = s.join("bobby", 1)
	s.Equal(ErrSlotTaken, err)

	_, err = s.join("alice", 2)
	s.Equal(ErrIdentityConflict, err)

	_, err = s.join("bobby", 4)
	s.Equal(ErrInvalidSlot, err)

	_, err = s.service.JoinSession(s.ctx, &JoinSessionInput{
		SessionID: "missing",
		Player:    &models.PlayerInfo{ID: "bobby", Name: "Bobby"},
		Slot:      2,
	})
	s.Equal(ErrSessionNotFound, err)

	_, err = s.join("bobby", 2)
	s.Require().NoError(err)
	_, err = s.join("carol", 3)
	s.Require().NoError(err)

	_, err = s.join("dave", AnySlot)
	s.Equal(ErrSessionFull, err)
	s.True(IsConflict(err))
}

func (s *RosterTestSuite) TestJoinSession_CompletedSession() {
	_, err := s.service.StartGame(s.ctx, &StartGameInput{SessionID: s.sessionID, RequesterID: "host"})
	s.Require().NoError(err)
	_, err = s.service.CompleteSession(s.ctx, &CompleteSessionInput{SessionID: s.sessionID, RequesterID: "host"})
	s.Require().NoError(err)

	_, err = s.join("alice", 1)
	s.Equal(ErrSessionCompleted, err)
}

func (s *RosterTestSuite) TestJoinSession_HotJoin() {
	_, err := s.service.StartGame(s.ctx, &StartGameInput{SessionID: s.sessionID, RequesterID: "host"})
	s.Require().NoError(err)

	out, err := s.join("alice", 1)
	s.Require().NoError(err)
	s.Equal(models.SessionStatusInGame, out.Session.Status)
}

func (s *RosterTestSuite) TestJoinSession_SlotRace() {
	const contenders = 8

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	start := make(chan struct{})

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = s.join(fmt.Sprintf("player-%d", i), 1)
		}(i)
	}
	close(start)
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		s.Equal(ErrSlotTaken, err)
	}
	s.Equal(1, winners)

	session := s.session()
	s.Len(session.Players, 2)
	s.assertRosterInvariants(session)
}

func (s *RosterTestSuite) TestJoinSession_ConcurrentAnySlot() {
	var wg sync.WaitGroup
	errs := make([]error, 3)

	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.join(fmt.Sprintf("player-%d", i), AnySlot)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}

	session := s.session()
	s.Len(session.Players, 4)
	s.assertRosterInvariants(session)
}

func (s *RosterTestSuite) TestKickPlayer_PreservesSnapshot() {
	_, err := s.join("alice", 1)
	s.Require().NoError(err)
	_, err = s.service.UpdatePlayerConfig(s.ctx, &UpdatePlayerConfigInput{
		SessionID: s.sessionID,
		PlayerID:  "alice",
		Config:    &models.PlayerConfig{Avatar: "wizard", Color: "teal"},
	})
	s.Require().NoError(err)

	_, err = s.sessionRepo.SaveState(s.ctx, &sessionRepo.SaveStateInput{
		SessionID: s.sessionID,
		State:     json.RawMessage(`{"phase":"rolling","scores":{"1":12},"holes":[1,null,3]}`),
	})
	s.Require().NoError(err)
	before, err := s.client.Get(s.ctx, "session:"+s.sessionID+":state").Result()
	s.Require().NoError(err)

	out, err := s.service.KickPlayer(s.ctx, &KickPlayerInput{
		SessionID:   s.sessionID,
		RequesterID: "host",
		PlayerID:    "alice",
	})
	s.Require().NoError(err)
	s.Len(out.Session.Players, 1)

	after, err := s.client.Get(s.ctx, "session:"+s.sessionID+":state").Result()
	s.Require().NoError(err)
	s.Equal(before, after)

	// A different identity in the freed slot starts with its own config
	joined, err := s.join("bobby", 1)
	s.Require().NoError(err)
	s.Nil(joined.Player.Config)
	s.Nil(s.session().Players["bobby"].Config)

	// The kicked identity can come back to another free slot
	_, err = s.join("alice", 2)
	s.NoError(err)
}

func (s *RosterTestSuite) TestKickPlayer_Authority() {
	_, err := s.join("alice", 1)
	s.Require().NoError(err)
	_, err = s.join("bobby", 2)
	s.Require().NoError(err)

	_, err = s.service.KickPlayer(s.ctx, &KickPlayerInput{SessionID: s.sessionID, RequesterID: "alice", PlayerID: "bobby"})
	s.Equal(ErrNotHost, err)

	_, err = s.service.KickPlayer(s.ctx, &KickPlayerInput{SessionID: s.sessionID, RequesterID: "host", PlayerID: "host"})
	s.Equal(ErrCannotKickHost, err)

	_, err = s.service.KickPlayer(s.ctx, &KickPlayerInput{SessionID: s.sessionID, RequesterID: "host", PlayerID: "nobody"})
	s.Equal(ErrPlayerNotFound, err)
}

func (s *RosterTestSuite) TestLeaveSession() {
	_, err := s.join("alice", 1)
	s.Require().NoError(err)

	_, err = s.service.LeaveSession(s.ctx, &LeaveSessionInput{SessionID: s.sessionID, PlayerID: "host"})
	s.Equal(ErrHostCannotLeave, err)

	out, err := s.service.LeaveSession(s.ctx, &LeaveSessionInput{
		SessionID:    s.sessionID,
		PlayerID:     "alice",
		ConnectionID: "conn-alice",
	})
	s.Require().NoError(err)
	s.NotContains(out.Session.Players, "alice")

	_, err = s.service.LeaveSession(s.ctx, &LeaveSessionInput{SessionID: s.sessionID, PlayerID: "alice"})
	s.Equal(ErrPlayerNotFound, err)
}

func (s *RosterTestSuite) TestChangeSlot() {
	_, err := s.join("alice", 1)
	s.Require().NoError(err)
	_, err = s.join("bobby", 2)
	s.Require().NoError(err)

	_, err = s.service.ChangeSlot(s.ctx, &ChangeSlotInput{SessionID: s.sessionID, PlayerID: "alice", Slot: 2})
	s.Equal(ErrSlotTaken, err)

	_, err = s.service.ChangeSlot(s.ctx, &ChangeSlotInput{SessionID: s.sessionID, PlayerID: "alice", Slot: 9})
	s.Equal(ErrInvalidSlot, err)

	out, err := s.service.ChangeSlot(s.ctx, &ChangeSlotInput{SessionID: s.sessionID, PlayerID: "alice", Slot: 3})
	s.Require().NoError(err)
	s.Equal(3, out.Player.Slot)

	session := s.session()
	s.Equal(3, session.Players["alice"].Slot)
	s.assertRosterInvariants(session)
}

func (s *RosterTestSuite) TestStartGame_RequireReady() {
	out, err := s.service.CreateSession(s.ctx, &CreateSessionInput{
		Host:   &models.PlayerInfo{ID: "host", Name: "Host"},
		Config: &models.SessionConfig{MaxPlayers: 2, RequireReady: true},
	})
	s.Require().NoError(err)
	sessionID := out.SessionID

	_, err = s.service.JoinSession(s.ctx, &JoinSessionInput{
		SessionID: sessionID,
		Player:    &models.PlayerInfo{ID: "alice", Name: "Alice"},
		Slot:      1,
	})
	s.Require().NoError(err)

	_, err = s.service.StartGame(s.ctx, &StartGameInput{SessionID: sessionID, RequesterID: "alice"})
	s.Equal(ErrNotHost, err)

	_, err = s.service.StartGame(s.ctx, &StartGameInput{SessionID: sessionID, RequesterID: "host"})
	s.Equal(ErrNotReady, err)

	ready, err := s.service.SetReady(s.ctx, &SetReadyInput{SessionID: sessionID, PlayerID: "alice", Ready: true})
	s.Require().NoError(err)
	s.True(ready.Player.Ready)

	started, err := s.service.StartGame(s.ctx, &StartGameInput{SessionID: sessionID, RequesterID: "host"})
	s.Require().NoError(err)
	s.Equal(models.SessionStatusInGame, started.Session.Status)

	// Status only moves forward
	_, err = s.service.StartGame(s.ctx, &StartGameInput{SessionID: sessionID, RequesterID: "host"})
	s.Equal(ErrInvalidStatus, err)
}

func (s *RosterTestSuite) TestCompleteSession_RequiresInGame() {
	_, err := s.service.CompleteSession(s.ctx, &CompleteSessionInput{SessionID: s.sessionID, RequesterID: "host"})
	s.Equal(ErrInvalidStatus, err)
}

func (s *RosterTestSuite) TestReconnectPlayer() {
	_, err := s.join("alice", 1)
	s.Require().NoError(err)

	_, err = s.presence.Disconnect(s.ctx, &presence.DisconnectInput{ConnectionID: "conn-alice"})
	s.Require().NoError(err)
	s.False(s.session().Players["alice"].Connected)

	out, err := s.service.ReconnectPlayer(s.ctx, &ReconnectPlayerInput{
		SessionID:    s.sessionID,
		PlayerID:     "alice",
		ConnectionID: "conn-alice-2",
	})
	s.Require().NoError(err)
	s.True(out.Player.Connected)
	s.Equal(1, out.Player.Slot)
	s.True(s.session().Players["alice"].Connected)

	_, err = s.service.ReconnectPlayer(s.ctx, &ReconnectPlayerInput{SessionID: s.sessionID, PlayerID: "nobody"})
	s.Equal(ErrPlayerNotFound, err)
}

func (s *RosterTestSuite) TestLookupSession_AfterClose() {
	_, err := s.join("alice", 1)
	s.Require().NoError(err)

	out, err := s.service.LookupSession(s.ctx, &LookupSessionInput{SessionID: s.sessionID})
	s.Require().NoError(err)
	s.Len(out.Summary.Players, 2)
	s.False(out.Summary.IsResumedGame)

	_, err = s.service.CloseSession(s.ctx, &CloseSessionInput{SessionID: s.sessionID, RequesterID: "host"})
	s.Require().NoError(err)

	_, err = s.service.LookupSession(s.ctx, &LookupSessionInput{SessionID: s.sessionID})
	s.Equal(ErrSessionNotFound, err)

	_, err = s.service.CloseSession(s.ctx, &CloseSessionInput{SessionID: s.sessionID, RequesterID: "host"})
	s.Equal(ErrSessionNotFound, err)
}

func (s *RosterTestSuite) TestCleanupStaleSessions() {
	s.now = s.now.Add(2 * time.Hour)
	fresh, err := s.service.CreateSession(s.ctx, &CreateSessionInput{
		Host: &models.PlayerInfo{ID: "other-host", Name: "Other"},
	})
	s.Require().NoError(err)

	out, err := s.service.CleanupStaleSessions(s.ctx, &CleanupStaleSessionsInput{MaxAge: time.Hour})
	s.Require().NoError(err)
	s.Equal([]string{s.sessionID}, out.DeletedSessionIDs)

	_, err = s.service.LookupSession(s.ctx, &LookupSessionInput{SessionID: s.sessionID})
	s.Equal(ErrSessionNotFound, err)

	_, err = s.service.LookupSession(s.ctx, &LookupSessionInput{SessionID: fresh.SessionID})
	s.NoError(err)
}

func (s *RosterTestSuite) TestTouchSession_KeepsSessionAlive() {
	s.now = s.now.Add(2 * time.Hour)
	s.Require().NoError(s.service.TouchSession(s.ctx, &TouchSessionInput{SessionID: s.sessionID}))

	out, err := s.service.CleanupStaleSessions(s.ctx, &CleanupStaleSessionsInput{MaxAge: time.Hour})
	s.Require().NoError(err)
	s.Empty(out.DeletedSessionIDs)
}
