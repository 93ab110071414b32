package reducer

// ReducerError represents an error from a state transition
type ReducerError string

// Error returns the error message
func (e ReducerError) Error() string {
	return string(e)
}

const (
	// ErrNilConfig is returned when a nil config is provided
	ErrNilConfig ReducerError = "config cannot be nil"

	// ErrNilRoller is returned when the dice roller is nil
	ErrNilRoller ReducerError = "dice roller cannot be nil"

	// ErrInvalidState is returned when the state cannot be decoded
	ErrInvalidState ReducerError = "invalid game state"
)
