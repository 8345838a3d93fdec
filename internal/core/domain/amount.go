package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Amount arithmetic errors. Services map these to the public error taxonomy.
var (
	ErrAmountOverflow  = errors.New("amount overflow")
	ErrAmountUnderflow = errors.New("amount underflow")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// maxAmount is 2^128-1. Balances are unsigned 128-bit quantities; the wider
// uint256 backing exists only so intermediate results can be bound-checked.
var maxAmount = func() *uint256.Int {
	m := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	return m.SubUint64(m, 1)
}()

// Amount is a non-negative 128-bit balance quantity. The zero value is the
// zero amount. Amounts serialize as decimal strings.
type Amount struct {
	i uint256.Int
}

// NewAmount returns an Amount holding v.
func NewAmount(v uint64) Amount {
	var a Amount
	a.i.SetUint64(v)
	return a
}

// ParseAmount parses a decimal string into an Amount. Signs, whitespace and
// values above 2^128-1 are rejected.
func ParseAmount(s string) (Amount, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return Amount{}, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, s)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if v.Gt(maxAmount) {
		return Amount{}, fmt.Errorf("%w: %q exceeds 128-bit range", ErrInvalidAmount, s)
	}
	var a Amount
	a.i.Set(v)
	return a, nil
}

// MustAmount parses a decimal string and panics on failure. Test helper.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a+b, or ErrAmountOverflow if the sum exceeds 128 bits.
func (a Amount) Add(b Amount) (Amount, error) {
	var sum Amount
	_, carry := sum.i.AddOverflow(&a.i, &b.i)
	if carry || sum.i.Gt(maxAmount) {
		return Amount{}, ErrAmountOverflow
	}
	return sum, nil
}

// Sub returns a-b, or ErrAmountUnderflow if b exceeds a. Balances never go
// negative; callers must surface the underflow, not saturate.
func (a Amount) Sub(b Amount) (Amount, error) {
	var diff Amount
	_, borrow := diff.i.SubOverflow(&a.i, &b.i)
	if borrow {
		return Amount{}, ErrAmountUnderflow
	}
	return diff, nil
}

// Cmp returns -1, 0 or 1 comparing a against b.
func (a Amount) Cmp(b Amount) int { return a.i.Cmp(&b.i) }

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool { return a.i.IsZero() }

// String returns the decimal representation.
func (a Amount) String() string { return a.i.Dec() }

// MarshalJSON encodes the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.i.Dec() + `"`), nil
}

// UnmarshalJSON decodes a decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("%w: amount must be a decimal string", ErrInvalidAmount)
	}
	parsed, err := ParseAmount(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
