package gate

import "errors"

var (
	ErrUnknownRole        = errors.New("unknown role")
	ErrSignupNotAvailable = errors.New("role cannot self-register")
)

// ValidationError is a request rejected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func required(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "This field is required."}
}
