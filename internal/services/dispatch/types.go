package dispatch

import (
	"encoding/json"
	"sync"

	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/KirkDiggler/partysync/internal/reducer"
	"github.com/KirkDiggler/partysync/internal/services/channel"
	"github.com/KirkDiggler/partysync/internal/services/relay"
)

// Role is how a participant takes part in a game
type Role string

const (
	// RoleSingle plays alone without a session
	RoleSingle Role = "single"

	// RoleHost owns the authoritative state of a session
	RoleHost Role = "host"

	// RoleClient submits actions to the host
	RoleClient Role = "client"
)

// Seat is the caller's current place in a game
type Seat struct {
	Role      Role
	SessionID string
	PlayerID  string
	Slot      int
}

// SeatFunc reports the current seat. It is read on every dispatch, so a
// role change takes effect on the next action.
type SeatFunc func() Seat

// Config holds configuration for the dispatcher
type Config struct {
	Seat SeatFunc

	// Local applies actions for hosts and single players
	Local relay.Applier

	// Relay queues actions for clients
	Relay relay.Service
}

// LocalApplierConfig holds configuration for the local applier
type LocalApplierConfig struct {
	Seat    SeatFunc
	Reducer reducer.Reducer
	Store   StateStore

	// Channel publishes the result when the seat is a host
	Channel channel.Service
}

type DispatchInput struct {
	Action *models.Action
}

type DispatchOutput struct {
	// Local is true when the action was applied in this process
	Local bool

	// Dropped is true when the client-side check refused the action
	Dropped bool

	// Entry is the queued entry for a client
	Entry *models.ClientAction
}

// MemoryState is a StateStore guarded by a mutex
type MemoryState struct {
	mu    sync.RWMutex
	state json.RawMessage
}

// NewMemoryState creates a store holding state
func NewMemoryState(state json.RawMessage) *MemoryState {
	return &MemoryState{state: state}
}

// State returns the current state
func (m *MemoryState) State() json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// SetState replaces the state
func (m *MemoryState) SetState(state json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}
