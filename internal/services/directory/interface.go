package directory

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/partysync/internal/services/directory Service

import "context"

// Service defines the session directory: sessions are created, found by
// their unguessable ID and never listed
type Service interface {
	// CreateSession writes a new session with the host in slot 0
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// LookupSession returns what a prospective player may see before joining
	LookupSession(ctx context.Context, input *LookupSessionInput) (*LookupSessionOutput, error)

	// JoinSession adds a player in a free slot, in the lobby or mid-game
	JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error)

	// ReconnectPlayer resumes an identity that is still in the roster
	ReconnectPlayer(ctx context.Context, input *ReconnectPlayerInput) (*ReconnectPlayerOutput, error)

	// LeaveSession removes the caller's own roster record
	LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error)

	// KickPlayer removes another player's roster record; host only
	KickPlayer(ctx context.Context, input *KickPlayerInput) (*KickPlayerOutput, error)

	// CloseSession deletes the whole session; host only
	CloseSession(ctx context.Context, input *CloseSessionInput) (*CloseSessionOutput, error)

	// ChangeSlot moves a player to another free slot
	ChangeSlot(ctx context.Context, input *ChangeSlotInput) (*ChangeSlotOutput, error)

	// UpdatePlayerConfig replaces a player's name or cosmetic choices
	UpdatePlayerConfig(ctx context.Context, input *UpdatePlayerConfigInput) (*UpdatePlayerConfigOutput, error)

	// SetReady flips a player's readiness gate
	SetReady(ctx context.Context, input *SetReadyInput) (*SetReadyOutput, error)

	// StartGame moves the session from waiting to in game; host only
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// CompleteSession moves the session from in game to completed; host only
	CompleteSession(ctx context.Context, input *CompleteSessionInput) (*CompleteSessionOutput, error)

	// TouchSession refreshes the session heartbeat
	TouchSession(ctx context.Context, input *TouchSessionInput) error

	// CleanupStaleSessions deletes sessions whose heartbeat is too old
	CleanupStaleSessions(ctx context.Context, input *CleanupStaleSessionsInput) (*CleanupStaleSessionsOutput, error)
}
