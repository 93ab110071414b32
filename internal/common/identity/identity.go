package identity

//go:generate mockgen -package=mocks -destination=mocks/mock_identity.go github.com/KirkDiggler/partysync/internal/common/identity Store,Provider

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/KirkDiggler/partysync/internal/common/clock"
	"github.com/KirkDiggler/partysync/internal/common/uuid"
	"github.com/KirkDiggler/partysync/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrNoProfile is returned by a Store that has never been saved to
var ErrNoProfile = errors.New("no identity profile")

// Profile is the client-local identity. It is the only thing that links a
// reloaded client to its roster record.
type Profile struct {
	PlayerID  string               `yaml:"player_id"`
	Name      string               `yaml:"name"`
	Config    *models.PlayerConfig `yaml:"config,omitempty"`
	CreatedAt time.Time            `yaml:"created_at"`
}

// Info returns the profile as join input
func (p *Profile) Info() *models.PlayerInfo {
	return &models.PlayerInfo{
		ID:     p.PlayerID,
		Name:   p.Name,
		Config: p.Config,
	}
}

// Store persists one profile
type Store interface {
	Load() (*Profile, error)
	Save(profile *Profile) error
}

// Provider hands out the current identity
type Provider interface {
	// Current returns the stored profile, minting one on first use
	Current() (*Profile, error)

	// Rotate replaces the player id, keeping name and config
	Rotate() (*Profile, error)
}

// FileStore keeps the profile in a YAML file
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the profile file
func (f *FileStore) Load() (*Profile, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	profile := &Profile{}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse identity file: %w", err)
	}

	if profile.PlayerID == "" {
		return nil, ErrNoProfile
	}

	return profile, nil
}

// Save writes the profile file, creating its directory
func (f *FileStore) Save(profile *Profile) error {
	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create identity directory: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}

	return nil
}

// MemoryStore keeps the profile in memory
type MemoryStore struct {
	mu      sync.Mutex
	profile *Profile
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the saved profile
func (m *MemoryStore) Load() (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.profile == nil {
		return nil, ErrNoProfile
	}

	profile := *m.profile
	return &profile, nil
}

// Save stores a copy of profile
func (m *MemoryStore) Save(profile *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *profile
	m.profile = &saved
	return nil
}

// Config holds configuration for the identity provider
type Config struct {
	Store         Store
	UUIDGenerator uuid.UUID
	Clock         clock.Clock

	// DefaultName is used when minting the first profile
	DefaultName string
}

type provider struct {
	mu            sync.Mutex
	store         Store
	uuidGenerator uuid.UUID
	clock         clock.Clock
	defaultName   string
}

// New creates a new identity provider
func New(cfg *Config) (*provider, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Store == nil {
		return nil, errors.New("identity store cannot be nil")
	}

	if cfg.UUIDGenerator == nil {
		return nil, errors.New("UUID generator cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	return &provider{
		store:         cfg.Store,
		uuidGenerator: cfg.UUIDGenerator,
		clock:         cfg.Clock,
		defaultName:   cfg.DefaultName,
	}, nil
}

// Current implements Provider
func (p *provider) Current() (*Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	profile, err := p.store.Load()
	if err == nil {
		return profile, nil
	}

	if !errors.Is(err, ErrNoProfile) {
		return nil, err
	}

	profile = &Profile{
		PlayerID:  p.uuidGenerator.NewUUID(),
		Name:      p.defaultName,
		CreatedAt: p.clock.Now(),
	}
	if err := p.store.Save(profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// Rotate implements Provider
func (p *provider) Rotate() (*Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	profile, err := p.store.Load()
	if err != nil {
		if !errors.Is(err, ErrNoProfile) {
			return nil, err
		}
		profile = &Profile{Name: p.defaultName}
	}

	profile.PlayerID = p.uuidGenerator.NewUUID()
	profile.CreatedAt = p.clock.Now()
	if err := p.store.Save(profile); err != nil {
		return nil, err
	}

	return profile, nil
}
