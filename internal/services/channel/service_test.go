package channel

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/KirkDiggler/partysync/internal/common/clock/mocks"
	"github.com/KirkDiggler/partysync/internal/models"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ChannelServiceTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockClock   *mocks.MockClock
	mr          *miniredis.Miniredis
	client      *redis.Client
	sessionRepo sessionRepo.Repository
	service     Service
	ctx         context.Context
	now         time.Time
}

func (s *ChannelServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.now = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.ctx = context.Background()

	repo, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.sessionRepo = repo

	svc, err := New(&Config{
		SessionRepo: repo,
		Clock:       s.mockClock,
	})
	s.Require().NoError(err)
	s.service = svc

	s.Require().NoError(repo.CreateSession(s.ctx, &sessionRepo.CreateSessionInput{
		Session: &models.Session{
			ID:     "session-1",
			HostID: "host",
			Status: models.SessionStatusInGame,
			Config: models.SessionConfig{MaxPlayers: 4},
			Players: map[string]*models.SessionPlayer{
				"host": {ID: "host", Name: "Host", IsHost: true, Connected: true},
			},
			CreatedAt:     s.now,
			LastUpdatedAt: s.now,
		},
	}))
}

func (s *ChannelServiceTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
	s.mockCtrl.Finish()
}

func TestChannelServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ChannelServiceTestSuite))
}

func (s *ChannelServiceTestSuite) publish(state string) *models.StateSnapshot {
	out, err := s.service.PublishState(s.ctx, &PublishStateInput{
		SessionID:   "session-1",
		PublisherID: "host",
		State:       json.RawMessage(state),
	})
	s.Require().NoError(err)
	return out.Snapshot
}

func (s *ChannelServiceTestSuite) receive(sub *StateSubscription) json.RawMessage {
	select {
	case state, ok := <-sub.Updates:
		s.Require().True(ok, "state feed closed early")
		return state
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for state")
		return nil
	}
}

func (s *ChannelServiceTestSuite) TestPublishState_VersionsIncrease() {
	first := s.publish(`{"phase":"lobby"}`)
	second := s.publish(`{"phase":"rolling"}`)

	s.Equal(int64(1), first.Version)
	s.Equal(int64(2), second.Version)
	s.False(second.SyncedAt.IsZero())
}

func (s *ChannelServiceTestSuite) TestPublishState_TouchesHeartbeat() {
	s.now = s.now.Add(time.Hour)
	s.publish(`{"phase":"rolling"}`)

	session, err := s.sessionRepo.GetSession(s.ctx, &sessionRepo.GetSessionInput{SessionID: "session-1"})
	s.Require().NoError(err)
	s.Equal(s.now, session.LastUpdatedAt)
}

func (s *ChannelServiceTestSuite) TestPublishState_Lossless() {
	state := `{"scores":[3,null,null,7],"item":null,"nested":{"holes":[null]}}`
	s.publish(state)

	snapshot, err := s.sessionRepo.GetState(s.ctx, &sessionRepo.GetStateInput{SessionID: "session-1"})
	s.Require().NoError(err)
	s.JSONEq(state, string(snapshot.State))
}

func (s *ChannelServiceTestSuite) TestPublishState_Rejections() {
	_, err := s.service.PublishState(s.ctx, &PublishStateInput{
		SessionID:   "session-1",
		PublisherID: "alice",
		State:       json.RawMessage(`{}`),
	})
	s.Equal(ErrNotHost, err)

	_, err = s.service.PublishState(s.ctx, &PublishStateInput{
		SessionID:   "session-1",
		PublisherID: "host",
		State:       json.RawMessage(`{"broken":`),
	})
	s.Equal(ErrInvalidState, err)

	_, err = s.service.PublishState(s.ctx, &PublishStateInput{
		SessionID:   "missing",
		PublisherID: "host",
		State:       json.RawMessage(`{}`),
	})
	s.Equal(ErrSessionNotFound, err)
}

func (s *ChannelServiceTestSuite) TestSubscribeState_CurrentThenNewer() {
	s.publish(`{"round":1}`)

	sub, err := s.service.SubscribeState(s.ctx, &SubscribeStateInput{SessionID: "session-1"})
	s.Require().NoError(err)
	defer sub.Close()

	s.JSONEq(`{"round":1}`, string(s.receive(sub)))

	s.publish(`{"round":2}`)
	s.publish(`{"round":3}`)

	s.JSONEq(`{"round":2}`, string(s.receive(sub)))
	s.JSONEq(`{"round":3}`, string(s.receive(sub)))
}

func (s *ChannelServiceTestSuite) TestSubscribeState_NoSnapshotYet() {
	sub, err := s.service.SubscribeState(s.ctx, &SubscribeStateInput{SessionID: "session-1"})
	s.Require().NoError(err)
	defer sub.Close()

	s.publish(`{"round":1}`)
	s.JSONEq(`{"round":1}`, string(s.receive(sub)))
}

func (s *ChannelServiceTestSuite) TestSubscribeState_EndsWhenSessionCloses() {
	sub, err := s.service.SubscribeState(s.ctx, &SubscribeStateInput{SessionID: "session-1"})
	s.Require().NoError(err)
	defer sub.Close()

	s.Require().NoError(s.sessionRepo.DeleteSession(s.ctx, &sessionRepo.DeleteSessionInput{SessionID: "session-1"}))

	select {
	case _, ok := <-sub.Updates:
		s.False(ok)
	case <-time.After(2 * time.Second):
		s.FailNow("state feed did not end")
	}
}

func (s *ChannelServiceTestSuite) TestSubscribeState_Close() {
	sub, err := s.service.SubscribeState(s.ctx, &SubscribeStateInput{SessionID: "session-1"})
	s.Require().NoError(err)

	sub.Close()
	sub.Close()

	select {
	case _, ok := <-sub.Updates:
		s.False(ok)
	case <-time.After(2 * time.Second):
		s.FailNow("state feed did not end")
	}
}

func (s *ChannelServiceTestSuite) TestSubscribeState_MissingSession() {
	_, err := s.service.SubscribeState(s.ctx, &SubscribeStateInput{SessionID: "missing"})
	s.Equal(ErrSessionNotFound, err)
}
