package relay

// RelayError is a custom error type for action relay errors
type RelayError string

// Error implements the error interface
func (e RelayError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound RelayError = "session not found"
	ErrNotInGame       RelayError = "session is not in game"
	ErrInvalidInput    RelayError = "session ID, player ID and action are required"
	ErrNilApplier      RelayError = "applier cannot be nil"
	ErrNilConfig       RelayError = "config cannot be nil"
	ErrNilActionRepo   RelayError = "action repository cannot be nil"
	ErrNilSessionRepo  RelayError = "session repository cannot be nil"
)
