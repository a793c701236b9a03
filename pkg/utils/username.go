package utils

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Names that would read as a site role next to a campground or comment.
var reservedUsernames = map[string]bool{
	"admin":         true,
	"administrator": true,
	"campsite":      true,
	"moderator":     true,
	"root":          true,
}

// ValidateUsername checks the shape of a username: 3-20 characters of
// letters, digits and underscores, starting with a letter or digit.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	switch {
	case len(username) < MinUsernameLength:
		return usernameError("Username must be at least 3 characters")
	case len(username) > MaxUsernameLength:
		return usernameError("Username must be at most 20 characters")
	case !usernameRegex.MatchString(username):
		return usernameError("Username can only contain letters, numbers, and underscores")
	case !unicode.IsLetter(rune(username[0])) && !unicode.IsNumber(rune(username[0])):
		return usernameError("Username must start with a letter or number")
	case reservedUsernames[strings.ToLower(username)]:
		return usernameError("That username is reserved")
	}
	return nil
}

func usernameError(msg string) error {
	return &ValidationError{Field: "username", Message: msg}
}

// ValidationError is a user-facing input problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
