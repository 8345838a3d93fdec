package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDenom is returned when a denomination string fails validation.
var ErrInvalidDenom = errors.New("invalid denomination")

// Config is the immutable ledger configuration fixed at initialization.
// Admin is captured for future privileged operations; no current operation
// consults it.
type Config struct {
	Admin     AccountID `json:"admin"`
	Denom     string    `json:"denom"`
	CreatedAt time.Time `json:"created_at"`
}

// Coin is a (denomination, amount) pair attached to a deposit.
type Coin struct {
	Denom  string `json:"denom"`
	Amount Amount `json:"amount"`
}

// ValidateDenom checks a denomination token: 3-128 characters, starting with
// a letter, containing only letters, digits and / : . _ -.
func ValidateDenom(denom string) error {
	if len(denom) < 3 || len(denom) > 128 {
		return fmt.Errorf("%w: length must be 3-128 characters", ErrInvalidDenom)
	}
	c := denom[0]
	if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
		return fmt.Errorf("%w: must start with a letter", ErrInvalidDenom)
	}
	for _, r := range denom {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '/' || r == ':' || r == '.' || r == '_' || r == '-':
		default:
			return fmt.Errorf("%w: character %q not allowed", ErrInvalidDenom, r)
		}
	}
	return nil
}
