package errors

import (
	"errors"
	"fmt"
)

// Common error types for the match tracker client
var (
	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoRefreshToken   = errors.New("no refresh token")
	ErrSessionExpired   = errors.New("session expired")
	ErrNoUserInResponse = errors.New("no user in response")
	ErrCorruptProfile   = errors.New("corrupt cached profile")

	// Request errors
	ErrMissingID    = errors.New("missing identifier")
	ErrInvalidInput = errors.New("invalid input")

	// Storage errors
	ErrInvalidStorageKey = errors.New("invalid storage key")
	ErrSealedData        = errors.New("unable to open sealed data")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
