package ports

import (
	"context"
	"time"

	"spend-ledger/internal/core/domain"
)

// CoinInput is a raw (denomination, amount) attachment as delivered by the
// host transport. The ledger service validates and parses it.
type CoinInput struct {
	Denom  string
	Amount string
}

// InstantiateRequest fixes the administrator identity and accepted
// denomination. Both fields arrive raw and are validated by the service.
type InstantiateRequest struct {
	Admin string
	Denom string
}

// InstantiateResult reports the canonical configuration that was stored.
type InstantiateResult struct {
	Admin domain.AccountID
	Denom string
}

// DepositRequest credits the caller with the attached funds.
type DepositRequest struct {
	Caller domain.AccountID
	Funds  []CoinInput
}

// DepositResult reports the caller's balance after the deposit.
type DepositResult struct {
	Account domain.AccountID
	Amount  domain.Amount
	Balance domain.Amount
}

// AuthorizationRequest grants or revokes a spender on the caller's account.
// Spender arrives raw and is validated by the service.
type AuthorizationRequest struct {
	Caller  domain.AccountID
	Spender string
}

// AuthorizationResult reports the resulting authorization state.
type AuthorizationResult struct {
	Owner      domain.AccountID
	Spender    domain.AccountID
	Authorized bool
}

// SpendFromRequest moves funds from an owner's balance to the caller's.
// Owner and Amount arrive raw and are validated by the service.
type SpendFromRequest struct {
	Caller domain.AccountID
	Owner  string
	Amount string
}

// SpendFromResult reports both balances after the spend.
type SpendFromResult struct {
	Owner          domain.AccountID
	Spender        domain.AccountID
	Amount         domain.Amount
	OwnerBalance   domain.Amount
	SpenderBalance domain.Amount
}

// LedgerService is the request processor: it validates and applies the
// mutating requests against the ledger store. Every method either commits
// its full write set or leaves the store untouched.
type LedgerService interface {
	Instantiate(ctx context.Context, req InstantiateRequest) (*InstantiateResult, error)
	Deposit(ctx context.Context, req DepositRequest) (*DepositResult, error)
	AuthorizeSpender(ctx context.Context, req AuthorizationRequest) (*AuthorizationResult, error)
	RevokeSpender(ctx context.Context, req AuthorizationRequest) (*AuthorizationResult, error)
	SpendFrom(ctx context.Context, req SpendFromRequest) (*SpendFromResult, error)
}

// QueryService provides read-only projections over the ledger store.
type QueryService interface {
	// Balance returns 0 for unknown accounts, never an error besides an
	// invalid identifier.
	Balance(ctx context.Context, owner string) (domain.Amount, error)
	// IsAuthorized returns false for any non-existent pair, including
	// self-pairs: self-spend is implicitly permitted but never recorded.
	IsAuthorized(ctx context.Context, owner, spender string) (bool, error)
}

// TokenService handles JWT operations for the authenticated-caller boundary.
type TokenService interface {
	Generate(account domain.AccountID) (string, time.Time, error)
	Validate(tokenString string) (domain.AccountID, error)
}

// QueryCache is a best-effort read cache for balance queries. A miss or a
// cache failure falls through to the store.
type QueryCache interface {
	GetBalance(ctx context.Context, account domain.AccountID) (domain.Amount, bool, error)
	SetBalance(ctx context.Context, account domain.AccountID, amount domain.Amount, ttl time.Duration) error
	// Invalidate drops cached balances after a committed mutation.
	Invalidate(ctx context.Context, accounts ...domain.AccountID) error
}
