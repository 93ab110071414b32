package presence

// PresenceError is a custom error type for presence-related errors
type PresenceError string

// Error implements the error interface
func (e PresenceError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrLeaseExpired    PresenceError = "connection lease expired"
	ErrSessionNotFound PresenceError = "session not found"
	ErrInvalidInput    PresenceError = "connection, session and player IDs are required"
	ErrNilConfig       PresenceError = "config cannot be nil"
	ErrNilPresenceRepo PresenceError = "presence repository cannot be nil"
	ErrNilSessionRepo  PresenceError = "session repository cannot be nil"
	ErrNilClock        PresenceError = "clock cannot be nil"
)
