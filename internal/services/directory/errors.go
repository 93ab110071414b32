package directory

import "errors"

// DirectoryError is a custom error type for session directory errors
type DirectoryError string

// Error implements the error interface
func (e DirectoryError) Error() string {
	return string(e)
}

// Define errors
const (
	// Not found
	ErrSessionNotFound DirectoryError = "session not found"
	ErrPlayerNotFound  DirectoryError = "player not found"

	// Conflicts
	ErrSlotTaken        DirectoryError = "slot is already taken"
	ErrIdentityConflict DirectoryError = "player identity already in session"
	ErrSessionFull      DirectoryError = "session is at maximum capacity"
	ErrSessionCompleted DirectoryError = "session is completed"
	ErrInvalidSlot      DirectoryError = "slot is out of range"

	// Authority and lifecycle
	ErrNotHost         DirectoryError = "only the host can do that"
	ErrHostCannotLeave DirectoryError = "the host cannot leave, close the session instead"
	ErrCannotKickHost  DirectoryError = "the host cannot be kicked"
	ErrNotReady        DirectoryError = "not every player is ready"
	ErrInvalidStatus   DirectoryError = "session is not in the required status"
	ErrInvalidPlayer   DirectoryError = "player ID and name are required"
	ErrInvalidConfig   DirectoryError = "max players must be between 1 and 4"
	ErrBusy            DirectoryError = "session is busy, try again"

	// Construction
	ErrNilConfig        DirectoryError = "config cannot be nil"
	ErrNilSessionRepo   DirectoryError = "session repository cannot be nil"
	ErrNilClock         DirectoryError = "clock cannot be nil"
	ErrNilUUIDGenerator DirectoryError = "UUID generator cannot be nil"
)

// IsConflict reports whether err is one of the conflict errors a joining
// client can react to without user input
func IsConflict(err error) bool {
	for _, conflict := range []DirectoryError{
		ErrSlotTaken,
		ErrIdentityConflict,
		ErrSessionFull,
		ErrSessionCompleted,
		ErrInvalidSlot,
	} {
		if errors.Is(err, conflict) {
			return true
		}
	}
	return false
}
