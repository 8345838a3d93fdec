package service

import (
	"context"

	"spend-ledger/internal/core/domain"
	"spend-ledger/internal/core/ports"
)

// Authorizer decides whether a claimed actor may spend from a target owner's
// balance. The capability is a flat boolean: an owner may always spend from
// self with no authorization record, otherwise an (owner, actor) entry must
// exist. Spenders cannot re-delegate, so the trust graph is depth 1 and the
// check is a single O(1) read with no side effects.
type Authorizer struct {
	store ports.LedgerStore
}

// NewAuthorizer creates an Authorizer over the given store.
func NewAuthorizer(store ports.LedgerStore) *Authorizer {
	return &Authorizer{store: store}
}

// Permitted reports whether actor may spend from owner's balance. Amount
// checks are not the engine's concern; the request processor compares the
// requested amount against the current balance.
func (a *Authorizer) Permitted(ctx context.Context, actor, owner domain.AccountID) (bool, error) {
	if actor == owner {
		return true, nil
	}
	return a.store.IsAuthorized(ctx, owner, actor)
}
