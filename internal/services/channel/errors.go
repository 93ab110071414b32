package channel

// ChannelError is a custom error type for state channel errors
type ChannelError string

// Error implements the error interface
func (e ChannelError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound ChannelError = "session not found"
	ErrNotHost         ChannelError = "only the host can publish state"
	ErrInvalidState    ChannelError = "state is not valid JSON"
	ErrNilConfig       ChannelError = "config cannot be nil"
	ErrNilSessionRepo  ChannelError = "session repository cannot be nil"
	ErrNilClock        ChannelError = "clock cannot be nil"
)
