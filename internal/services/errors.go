package services

import (
	"errors"
	"fmt"
)

// Common service errors.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("you don't have permission to do that")

	// User errors
	ErrUserAlreadyExists  = errors.New("a user with the given username or email is already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrResetTokenInvalid  = errors.New("password reset token is invalid or has expired")
	ErrPasswordMismatch   = errors.New("passwords do not match")

	// Campground errors
	ErrInvalidAddress   = errors.New("invalid address")
	ErrInvalidImageType = errors.New("only image files are allowed")
	ErrMissingImage     = errors.New("an image is required")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)

// GeocodeError wraps a failure reported by the geocoding provider.
type GeocodeError struct {
	Address string
	Err     error
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Address, e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// ImageHostError wraps a failure reported by the image host. Its message is
// the host's own message so it can be shown to the user as-is.
type ImageHostError struct {
	Op  string // upload or destroy
	Err error
}

func (e *ImageHostError) Error() string {
	return e.Err.Error()
}

func (e *ImageHostError) Unwrap() error { return e.Err }
