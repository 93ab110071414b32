package identity

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	clockMocks "github.com/KirkDiggler/partysync/internal/common/clock/mocks"
	uuidMocks "github.com/KirkDiggler/partysync/internal/common/uuid/mocks"
	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type IdentityTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockUUID  *uuidMocks.MockUUID
	mockClock *clockMocks.MockClock
	now       time.Time
}

func (s *IdentityTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.now = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().Return(s.now).AnyTimes()
}

func (s *IdentityTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestIdentityTestSuite(t *testing.T) {
	suite.Run(t, new(IdentityTestSuite))
}

func (s *IdentityTestSuite) newProvider(store Store) Provider {
	provider, err := New(&Config{
		Store:         store,
		UUIDGenerator: s.mockUUID,
		Clock:         s.mockClock,
		DefaultName:   "Player",
	})
	s.Require().NoError(err)
	return provider
}

func (s *IdentityTestSuite) TestCurrent_MintsOnceAndReuses() {
	store := NewMemoryStore()
	provider := s.newProvider(store)

	s.mockUUID.EXPECT().NewUUID().Return("player-1").Times(1)

	first, err := provider.Current()
	s.Require().NoError(err)
	s.Equal("player-1", first.PlayerID)
	s.Equal("Player", first.Name)

	second, err := provider.Current()
	s.Require().NoError(err)
	s.Equal("player-1", second.PlayerID)
}

func (s *IdentityTestSuite) TestRotate_KeepsNameAndConfig() {
	store := NewMemoryStore()
	s.Require().NoError(store.Save(&Profile{
		PlayerID: "player-1",
		Name:     "Alice",
		Config:   &models.PlayerConfig{Color: "red"},
	}))
	provider := s.newProvider(store)

	s.mockUUID.EXPECT().NewUUID().Return("player-2")

	rotated, err := provider.Rotate()
	s.Require().NoError(err)
	s.Equal("player-2", rotated.PlayerID)
	s.Equal("Alice", rotated.Name)
	s.Equal("red", rotated.Config.Color)

	current, err := provider.Current()
	s.Require().NoError(err)
	s.Equal("player-2", current.PlayerID)
}

func (s *IdentityTestSuite) TestFileStore_SurvivesReload() {
	path := filepath.Join(s.T().TempDir(), "nested", "identity.yaml")

	s.mockUUID.EXPECT().NewUUID().Return("player-1").Times(1)

	first, err := s.newProvider(NewFileStore(path)).Current()
	s.Require().NoError(err)

	// A new provider over the same file is a reloaded client
	reloaded, err := s.newProvider(NewFileStore(path)).Current()
	s.Require().NoError(err)
	s.Equal(first.PlayerID, reloaded.PlayerID)
	s.True(s.now.Equal(reloaded.CreatedAt))

	data, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Contains(string(data), "player_id: player-1")
}

func (s *IdentityTestSuite) TestFileStore_MissingAndCorrupt() {
	dir := s.T().TempDir()

	_, err := NewFileStore(filepath.Join(dir, "missing.yaml")).Load()
	s.ErrorIs(err, ErrNoProfile)

	corrupt := filepath.Join(dir, "corrupt.yaml")
	s.Require().NoError(os.WriteFile(corrupt, []byte("player_id: [unterminated"), 0o600))

	_, err = NewFileStore(corrupt).Load()
	s.Error(err)
	s.NotErrorIs(err, ErrNoProfile)
}

func (s *IdentityTestSuite) TestNew_Validation() {
	_, err := New(nil)
	s.Error(err)

	_, err = New(&Config{UUIDGenerator: s.mockUUID, Clock: s.mockClock})
	s.Error(err)
}
