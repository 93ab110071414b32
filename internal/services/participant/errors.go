package participant

// ParticipantError represents an error from a session participant
type ParticipantError string

// Error returns the error message
func (e ParticipantError) Error() string {
	return string(e)
}

const (
	// ErrNotHost is returned when a host-only operation is called by a client
	ErrNotHost ParticipantError = "only the host can do this"

	// ErrNotInSession is returned for session operations while playing alone
	ErrNotInSession ParticipantError = "not in a session"

	// ErrEnded is returned once the participant has left, been removed or closed
	ErrEnded ParticipantError = "participant has ended"

	// ErrSessionClosed is returned when the session vanished while joining
	ErrSessionClosed ParticipantError = "session was closed"

	// ErrNilConfig is returned when a nil config is provided
	ErrNilConfig ParticipantError = "config cannot be nil"

	// ErrNilDirectory is returned when the directory service is nil
	ErrNilDirectory ParticipantError = "directory service cannot be nil"

	// ErrNilPresence is returned when the presence service is nil
	ErrNilPresence ParticipantError = "presence service cannot be nil"

	// ErrNilChannel is returned when the state channel is nil
	ErrNilChannel ParticipantError = "state channel cannot be nil"

	// ErrNilRelay is returned when the action relay is nil
	ErrNilRelay ParticipantError = "action relay cannot be nil"

	// ErrNilReducer is returned when a host or single player has no reducer
	ErrNilReducer ParticipantError = "reducer cannot be nil"

	// ErrNilIdentity is returned when the identity provider is nil
	ErrNilIdentity ParticipantError = "identity provider cannot be nil"

	// ErrNilUUIDGenerator is returned when the UUID generator is nil
	ErrNilUUIDGenerator ParticipantError = "UUID generator cannot be nil"
)
