package events

import "errors"

// ErrValidation matches every ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// MissingFields is returned when a required create field is absent or blank.
const MissingFields = "All required fields must be filled"

// ValidationError describes input the service refuses to store. Its message
// is safe to show to API clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// ValidationMessage extracts the client-facing message from err when it
// wraps a ValidationError.
func ValidationMessage(err error) (string, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message, true
	}

	return "", false
}
