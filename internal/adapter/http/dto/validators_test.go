package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStruct_TrimsStrings(t *testing.T) {
	req := SpendFromRequest{
		Owner:  "  alice  ",
		Amount: " 100\n",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "alice", req.Owner)
	assert.Equal(t, "100", req.Amount)
}

func TestSanitizeStruct_NestedSlice(t *testing.T) {
	req := DepositRequest{
		Funds: []CoinInput{{Denom: " uusd ", Amount: " 25 "}},
	}
	SanitizeStruct(&req)

	assert.Equal(t, "uusd", req.Funds[0].Denom)
	assert.Equal(t, "25", req.Funds[0].Amount)
}

func TestSanitizeStruct_NonStructIsNoop(t *testing.T) {
	s := " hello "
	SanitizeStruct(&s)
	assert.Equal(t, " hello ", s)

	SanitizeStruct(nil)
}

func TestAccountRe(t *testing.T) {
	valid := []string{"alice", "Alice", "a1", "vault.ops", "team_x-2"}
	for _, s := range valid {
		assert.True(t, accountRe.MatchString(s), s)
	}

	invalid := []string{"", "1alice", "_x", "al ice", "bob!", "-dash"}
	for _, s := range invalid {
		assert.False(t, accountRe.MatchString(s), s)
	}
}
