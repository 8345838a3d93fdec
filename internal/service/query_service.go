package service

import (
	"context"
	"fmt"
	"time"

	"spend-ledger/internal/core/domain"
	"spend-ledger/internal/core/ports"
	"spend-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

const balanceCacheTTL = 30 * time.Second

// QueryServiceImpl implements ports.QueryService: read-only projections over
// the ledger store with an optional best-effort balance cache.
type QueryServiceImpl struct {
	store ports.LedgerStore
	cache ports.QueryCache // nil = cache disabled
	log   zerolog.Logger
}

// NewQueryService creates a new QueryServiceImpl.
func NewQueryService(store ports.LedgerStore, cache ports.QueryCache, log zerolog.Logger) *QueryServiceImpl {
	return &QueryServiceImpl{store: store, cache: cache, log: log}
}

// Balance returns the account's balance, zero for unknown accounts. Cache
// failures degrade to a store read.
func (s *QueryServiceImpl) Balance(ctx context.Context, owner string) (domain.Amount, error) {
	account, err := domain.ParseAccountID(owner)
	if err != nil {
		return domain.Amount{}, apperror.ErrInvalidAddress(err)
	}

	if s.cache != nil {
		cached, hit, err := s.cache.GetBalance(ctx, account)
		if err != nil {
			s.log.Warn().Err(err).Str("account", account.String()).Msg("balance cache read failed, falling through to store")
		} else if hit {
			return cached, nil
		}
	}

	balance, err := s.store.GetBalance(ctx, account)
	if err != nil {
		return domain.Amount{}, apperror.InternalError(fmt.Errorf("get balance: %w", err))
	}

	if s.cache != nil {
		if err := s.cache.SetBalance(ctx, account, balance, balanceCacheTTL); err != nil {
			s.log.Warn().Err(err).Str("account", account.String()).Msg("balance cache write failed")
		}
	}

	return balance, nil
}

// IsAuthorized reports whether an explicit (owner, spender) authorization
// exists. Self-pairs always report false: self-spend is implicitly permitted
// but no record is ever created for it, so callers must special-case
// owner == spender themselves. Authorization reads are never cached so
// revocation is immediately visible.
func (s *QueryServiceImpl) IsAuthorized(ctx context.Context, owner, spender string) (bool, error) {
	ownerID, err := domain.ParseAccountID(owner)
	if err != nil {
		return false, apperror.ErrInvalidAddress(err)
	}
	spenderID, err := domain.ParseAccountID(spender)
	if err != nil {
		return false, apperror.ErrInvalidAddress(err)
	}

	authorized, err := s.store.IsAuthorized(ctx, ownerID, spenderID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("get authorization: %w", err))
	}
	return authorized, nil
}
