package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors callers branch on. Anything else returned by the store
// is a persistence failure: logged, surfaced, nothing partially written.
var (
	// ErrNotFound is returned when the addressed row no longer exists,
	// typically because stale UI state referenced a deleted task.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned by Authenticate for an unknown
	// username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError rejects malformed input before anything is written.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// IsValidation reports whether err is a validation failure the user can
// correct, as opposed to a storage fault.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
