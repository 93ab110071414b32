package dispatch

// DispatchError represents an error from the dispatch facade
type DispatchError string

// Error returns the error message
func (e DispatchError) Error() string {
	return string(e)
}

const (
	// ErrNilConfig is returned when a nil config is provided
	ErrNilConfig DispatchError = "config cannot be nil"

	// ErrNilSeat is returned when no seat function is configured
	ErrNilSeat DispatchError = "seat cannot be nil"

	// ErrNilApplier is returned when no local applier is configured
	ErrNilApplier DispatchError = "local applier cannot be nil"

	// ErrNilRelay is returned when no action relay is configured
	ErrNilRelay DispatchError = "action relay cannot be nil"

	// ErrNilReducer is returned when no reducer is configured
	ErrNilReducer DispatchError = "reducer cannot be nil"

	// ErrNilStore is returned when no state store is configured
	ErrNilStore DispatchError = "state store cannot be nil"

	// ErrNilChannel is returned when no state channel is configured
	ErrNilChannel DispatchError = "state channel cannot be nil"

	// ErrInvalidAction is returned for a nil action
	ErrInvalidAction DispatchError = "action cannot be nil"

	// ErrUnknownRole is returned when the seat reports no known role
	ErrUnknownRole DispatchError = "unknown role"
)
