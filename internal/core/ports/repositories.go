package ports

import (
	"context"
	"errors"

	"spend-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ErrAlreadyInitialized is returned by LedgerStore.SetConfig when a config
// row already exists. The host serializes requests, so the service-level
// check is normally sufficient; this is the storage-level backstop.
var ErrAlreadyInitialized = errors.New("ledger config already exists")

// LedgerStore defines pure storage semantics for the ledger state: balances,
// authorization pairs and the one-shot configuration record. No business
// validation happens here. Methods accepting pgx.Tx are used inside
// transaction blocks so a request's writes commit in full or not at all.
type LedgerStore interface {
	// GetConfig returns the ledger configuration, or nil if the ledger has
	// not been initialized.
	GetConfig(ctx context.Context) (*domain.Config, error)
	// SetConfig persists the one-shot configuration. Returns
	// ErrAlreadyInitialized if a config record exists.
	SetConfig(ctx context.Context, tx pgx.Tx, cfg *domain.Config) error

	// GetBalance returns an account's balance, zero if the account is unknown.
	GetBalance(ctx context.Context, account domain.AccountID) (domain.Amount, error)
	// GetBalanceForUpdate reads a balance with a pessimistic lock. MUST be
	// called within a transaction.
	GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, account domain.AccountID) (domain.Amount, error)
	// SetBalance upserts an account's balance.
	SetBalance(ctx context.Context, tx pgx.Tx, account domain.AccountID, amount domain.Amount) error

	// IsAuthorized reports whether an (owner, spender) authorization exists.
	IsAuthorized(ctx context.Context, owner, spender domain.AccountID) (bool, error)
	// SetAuthorization creates (present=true) or deletes (present=false) an
	// (owner, spender) entry. Deleting an absent entry is a no-op; absence
	// is never stored as a negative record.
	SetAuthorization(ctx context.Context, tx pgx.Tx, owner, spender domain.AccountID, present bool) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
