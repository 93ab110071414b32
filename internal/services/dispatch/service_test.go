package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/KirkDiggler/partysync/internal/models"
	reducerMocks "github.com/KirkDiggler/partysync/internal/reducer/mocks"
	"github.com/KirkDiggler/partysync/internal/services/channel"
	channelMocks "github.com/KirkDiggler/partysync/internal/services/channel/mocks"
	"github.com/KirkDiggler/partysync/internal/services/relay"
	relayMocks "github.com/KirkDiggler/partysync/internal/services/relay/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DispatchTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockRelay   *relayMocks.MockService
	mockApplier *relayMocks.MockApplier
	mockReducer *reducerMocks.MockReducer
	mockChannel *channelMocks.MockService
	seat        Seat
	ctx         context.Context
}

func (s *DispatchTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRelay = relayMocks.NewMockService(s.mockCtrl)
	s.mockApplier = relayMocks.NewMockApplier(s.mockCtrl)
	s.mockReducer = reducerMocks.NewMockReducer(s.mockCtrl)
	s.mockChannel = channelMocks.NewMockService(s.mockCtrl)
	s.ctx = context.Background()
}

func (s *DispatchTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestDispatchTestSuite(t *testing.T) {
	suite.Run(t, new(DispatchTestSuite))
}

func (s *DispatchTestSuite) currentSeat() Seat {
	return s.seat
}

func (s *DispatchTestSuite) newDispatcher() Dispatcher {
	d, err := New(&Config{
		Seat:  s.currentSeat,
		Local: s.mockApplier,
		Relay: s.mockRelay,
	})
	s.Require().NoError(err)
	return d
}

func (s *DispatchTestSuite) TestNew_Validation() {
	_, err := New(nil)
	s.Equal(ErrNilConfig, err)

	_, err = New(&Config{Local: s.mockApplier, Relay: s.mockRelay})
	s.Equal(ErrNilSeat, err)

	_, err = New(&Config{Seat: s.currentSeat, Relay: s.mockRelay})
	s.Equal(ErrNilApplier, err)

	_, err = New(&Config{Seat: s.currentSeat, Local: s.mockApplier})
	s.Equal(ErrNilRelay, err)
}

func (s *DispatchTestSuite) TestDispatch_HostAppliesLocally() {
	s.seat = Seat{Role: RoleHost, SessionID: "session-1", PlayerID: "host"}
	action := &models.Action{Type: models.ActionStartRound}

	s.mockApplier.EXPECT().ApplyAction(s.ctx, action).Return(nil)

	out, err := s.newDispatcher().Dispatch(s.ctx, &DispatchInput{Action: action})
	s.Require().NoError(err)
	s.True(out.Local)
}

func (s *DispatchTestSuite) TestDispatch_SingleAppliesLocally() {
	s.seat = Seat{Role: RoleSingle}
	action := &models.Action{Type: models.ActionRollDice}

	s.mockApplier.EXPECT().ApplyAction(s.ctx, action).Return(nil)

	out, err := s.newDispatcher().Dispatch(s.ctx, &DispatchInput{Action: action})
	s.Require().NoError(err)
	s.True(out.Local)
}

func (s *DispatchTestSuite) TestDispatch_ClientSubmits() {
	s.seat = Seat{Role: RoleClient, SessionID: "session-1", PlayerID: "alice", Slot: 1}
	action := models.Action{Type: models.ActionRollDice}.Targets(1)
	entry := &models.ClientAction{ID: "1-0", PlayerID: "alice", Action: action}

	s.mockRelay.EXPECT().SubmitAction(s.ctx, &relay.SubmitActionInput{
		SessionID: "session-1",
		PlayerID:  "alice",
		Slot:      1,
		Action:    action,
	}).Return(&relay.SubmitActionOutput{Entry: entry}, nil)

	out, err := s.newDispatcher().Dispatch(s.ctx, &DispatchInput{Action: action})
	s.Require().NoError(err)
	s.False(out.Local)
	s.Equal(entry, out.Entry)
}

func (s *DispatchTestSuite) TestDispatch_ClientDropped() {
	s.seat = Seat{Role: RoleClient, SessionID: "session-1", PlayerID: "alice", Slot: 1}
	action := &models.Action{Type: models.ActionStartRound}

	s.mockRelay.EXPECT().SubmitAction(s.ctx, gomock.Any()).Return(&relay.SubmitActionOutput{Dropped: true}, nil)

	out, err := s.newDispatcher().Dispatch(s.ctx, &DispatchInput{Action: action})
	s.Require().NoError(err)
	s.True(out.Dropped)
}

func (s *DispatchTestSuite) TestDispatch_RoleChangeTakesEffect() {
	d := s.newDispatcher()
	action := &models.Action{Type: models.ActionRollDice}

	s.seat = Seat{Role: RoleClient, SessionID: "session-1", PlayerID: "alice"}
	s.mockRelay.EXPECT().SubmitAction(s.ctx, gomock.Any()).Return(&relay.SubmitActionOutput{}, nil)
	_, err := d.Dispatch(s.ctx, &DispatchInput{Action: action})
	s.Require().NoError(err)

	s.seat = Seat{Role: RoleSingle}
	s.mockApplier.EXPECT().ApplyAction(s.ctx, action).Return(nil)
	_, err = d.Dispatch(s.ctx, &DispatchInput{Action: action})
	s.Require().NoError(err)
}

func (s *DispatchTestSuite) TestDispatch_Invalid() {
	d := s.newDispatcher()

	_, err := d.Dispatch(s.ctx, &DispatchInput{})
	s.Equal(ErrInvalidAction, err)

	s.seat = Seat{}
	_, err = d.Dispatch(s.ctx, &DispatchInput{Action: &models.Action{Type: models.ActionRollDice}})
	s.Equal(ErrUnknownRole, err)
}

func (s *DispatchTestSuite) newApplier(store StateStore) relay.Applier {
	a, err := NewLocalApplier(&LocalApplierConfig{
		Seat:    s.currentSeat,
		Reducer: s.mockReducer,
		Store:   store,
		Channel: s.mockChannel,
	})
	s.Require().NoError(err)
	return a
}

func (s *DispatchTestSuite) TestLocalApplier_HostPublishes() {
	s.seat = Seat{Role: RoleHost, SessionID: "session-1", PlayerID: "host"}
	store := NewMemoryState(json.RawMessage(`{"round":0}`))
	action := &models.Action{Type: models.ActionStartRound}

	s.mockReducer.EXPECT().Apply(json.RawMessage(`{"round":0}`), action).Return(json.RawMessage(`{"round":1}`), nil)
	s.mockChannel.EXPECT().PublishState(s.ctx, &channel.PublishStateInput{
		SessionID:   "session-1",
		PublisherID: "host",
		State:       json.RawMessage(`{"round":1}`),
	}).Return(&channel.PublishStateOutput{Snapshot: &models.StateSnapshot{Version: 1}}, nil)

	s.Require().NoError(s.newApplier(store).ApplyAction(s.ctx, action))
	s.JSONEq(`{"round":1}`, string(store.State()))
}

func (s *DispatchTestSuite) TestLocalApplier_SingleDoesNotPublish() {
	s.seat = Seat{Role: RoleSingle}
	store := NewMemoryState(json.RawMessage(`{"round":0}`))
	action := &models.Action{Type: models.ActionStartRound}

	s.mockReducer.EXPECT().Apply(gomock.Any(), action).Return(json.RawMessage(`{"round":1}`), nil)

	s.Require().NoError(s.newApplier(store).ApplyAction(s.ctx, action))
	s.JSONEq(`{"round":1}`, string(store.State()))
}

func (s *DispatchTestSuite) TestLocalApplier_UnchangedStateNotPublished() {
	s.seat = Seat{Role: RoleHost, SessionID: "session-1", PlayerID: "host"}
	store := NewMemoryState(json.RawMessage(`{"round":0}`))
	action := models.Action{Type: models.ActionRollDice}.Targets(2)

	s.mockReducer.EXPECT().Apply(gomock.Any(), action).Return(json.RawMessage(`{"round":0}`), nil)

	s.Require().NoError(s.newApplier(store).ApplyAction(s.ctx, action))
}

func (s *DispatchTestSuite) TestLocalApplier_ReducerErrorKeepsState() {
	s.seat = Seat{Role: RoleHost, SessionID: "session-1", PlayerID: "host"}
	store := NewMemoryState(json.RawMessage(`{"round":0}`))
	action := &models.Action{Type: models.ActionStartRound}
	reducerErr := errors.New("bad state")

	s.mockReducer.EXPECT().Apply(gomock.Any(), action).Return(nil, reducerErr)

	err := s.newApplier(store).ApplyAction(s.ctx, action)
	s.ErrorIs(err, reducerErr)
	s.JSONEq(`{"round":0}`, string(store.State()))
}
