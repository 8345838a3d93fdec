package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	minAccountIDLen = 3
	maxAccountIDLen = 64
)

// ErrInvalidAccountID is returned when a raw identifier cannot be canonicalized.
var ErrInvalidAccountID = errors.New("invalid account identifier")

// AccountID is a canonical, validated account identifier. Values are only
// constructed through ParseAccountID, so an AccountID is always safe to use
// as a store key.
type AccountID string

// ParseAccountID validates a raw identifier and returns its canonical
// (lowercase) form. Identifiers are 3-64 characters, start with a letter and
// contain only letters, digits, underscore, hyphen or dot.
func ParseAccountID(raw string) (AccountID, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if len(s) < minAccountIDLen || len(s) > maxAccountIDLen {
		return "", fmt.Errorf("%w: length must be %d-%d characters", ErrInvalidAccountID, minAccountIDLen, maxAccountIDLen)
	}
	if s[0] < 'a' || s[0] > 'z' {
		return "", fmt.Errorf("%w: must start with a letter", ErrInvalidAccountID)
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return "", fmt.Errorf("%w: character %q not allowed", ErrInvalidAccountID, r)
		}
	}
	return AccountID(s), nil
}

func (a AccountID) String() string { return string(a) }
