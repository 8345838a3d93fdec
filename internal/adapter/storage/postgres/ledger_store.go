package postgres

import (
	"context"
	"errors"
	"fmt"

	"spend-ledger/internal/core/domain"
	"spend-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// LedgerStore implements ports.LedgerStore.
//
// Balances are stored as NUMERIC(39,0), wide enough for the full unsigned
// 128-bit range, and travel across the wire as decimal text so they round
// trip through domain.Amount without precision loss.
type LedgerStore struct {
	pool Pool
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// GetConfig returns the ledger configuration, or nil if no config row exists.
func (s *LedgerStore) GetConfig(ctx context.Context) (*domain.Config, error) {
	query := `SELECT admin, denom, created_at FROM ledger_config WHERE id = 1`

	cfg := &domain.Config{}
	err := s.pool.QueryRow(ctx, query).Scan(&cfg.Admin, &cfg.Denom, &cfg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger config: %w", err)
	}
	return cfg, nil
}

// SetConfig persists the one-shot configuration. The primary key on the
// singleton row turns a lost race into ports.ErrAlreadyInitialized.
func (s *LedgerStore) SetConfig(ctx context.Context, tx pgx.Tx, cfg *domain.Config) error {
	query := `INSERT INTO ledger_config (id, admin, denom, created_at) VALUES (1, $1, $2, $3)`

	_, err := tx.Exec(ctx, query, cfg.Admin, cfg.Denom, cfg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ports.ErrAlreadyInitialized
		}
		return fmt.Errorf("insert ledger config: %w", err)
	}
	return nil
}

// GetBalance returns an account's balance without locking. Unknown accounts
// read as zero.
func (s *LedgerStore) GetBalance(ctx context.Context, account domain.AccountID) (domain.Amount, error) {
	query := `SELECT amount::text FROM balances WHERE account = $1`

	return s.scanBalance(s.pool.QueryRow(ctx, query, account))
}

// GetBalanceForUpdate reads a balance with a pessimistic lock.
// This MUST be called within a transaction.
func (s *LedgerStore) GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, account domain.AccountID) (domain.Amount, error) {
	query := `SELECT amount::text FROM balances WHERE account = $1 FOR UPDATE`

	return s.scanBalance(tx.QueryRow(ctx, query, account))
}

func (s *LedgerStore) scanBalance(row pgx.Row) (domain.Amount, error) {
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Amount{}, nil
		}
		return domain.Amount{}, fmt.Errorf("get balance: %w", err)
	}
	amount, err := domain.ParseAmount(raw)
	if err != nil {
		return domain.Amount{}, fmt.Errorf("corrupt balance value %q: %w", raw, err)
	}
	return amount, nil
}

// SetBalance upserts an account's balance within a transaction.
func (s *LedgerStore) SetBalance(ctx context.Context, tx pgx.Tx, account domain.AccountID, amount domain.Amount) error {
	query := `INSERT INTO balances (account, amount) VALUES ($1, $2::numeric)
		ON CONFLICT (account) DO UPDATE SET amount = EXCLUDED.amount`

	_, err := tx.Exec(ctx, query, account, amount.String())
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// IsAuthorized reports whether an (owner, spender) authorization row exists.
func (s *LedgerStore) IsAuthorized(ctx context.Context, owner, spender domain.AccountID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM authorizations WHERE owner = $1 AND spender = $2)`

	var authorized bool
	if err := s.pool.QueryRow(ctx, query, owner, spender).Scan(&authorized); err != nil {
		return false, fmt.Errorf("get authorization: %w", err)
	}
	return authorized, nil
}

// SetAuthorization creates or deletes an (owner, spender) entry. Both
// directions are idempotent: re-granting and revoking an absent grant
// succeed without touching rows.
func (s *LedgerStore) SetAuthorization(ctx context.Context, tx pgx.Tx, owner, spender domain.AccountID, present bool) error {
	if present {
		query := `INSERT INTO authorizations (owner, spender) VALUES ($1, $2)
			ON CONFLICT (owner, spender) DO NOTHING`
		if _, err := tx.Exec(ctx, query, owner, spender); err != nil {
			return fmt.Errorf("insert authorization: %w", err)
		}
		return nil
	}

	query := `DELETE FROM authorizations WHERE owner = $1 AND spender = $2`
	if _, err := tx.Exec(ctx, query, owner, spender); err != nil {
		return fmt.Errorf("delete authorization: %w", err)
	}
	return nil
}
