package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spend-ledger/internal/core/domain"
	"spend-ledger/internal/core/ports"
	"spend-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService. It is the locus of every
// ledger invariant: all validation runs before the first store write, and all
// writes of a request share one database transaction.
type LedgerServiceImpl struct {
	store      ports.LedgerStore
	authorizer *Authorizer
	transactor ports.DBTransactor
	sink       ports.EventSink
	cache      ports.QueryCache // nil = no query cache wired
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	store ports.LedgerStore,
	authorizer *Authorizer,
	transactor ports.DBTransactor,
	sink ports.EventSink,
	cache ports.QueryCache,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		store:      store,
		authorizer: authorizer,
		transactor: transactor,
		sink:       sink,
		cache:      cache,
		log:        log,
	}
}

// Instantiate fixes the administrator identity and the accepted denomination.
// It can succeed exactly once; any later call fails with AlreadyInitialized.
func (s *LedgerServiceImpl) Instantiate(ctx context.Context, req ports.InstantiateRequest) (*ports.InstantiateResult, error) {
	admin, err := domain.ParseAccountID(req.Admin)
	if err != nil {
		return nil, apperror.ErrInvalidAddress(err)
	}
	if err := domain.ValidateDenom(req.Denom); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	existing, err := s.store.GetConfig(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load config: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrAlreadyInitialized()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	cfg := &domain.Config{
		Admin:     admin,
		Denom:     req.Denom,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SetConfig(ctx, dbTx, cfg); err != nil {
		if errors.Is(err, ports.ErrAlreadyInitialized) {
			return nil, apperror.ErrAlreadyInitialized()
		}
		return nil, apperror.InternalError(fmt.Errorf("save config: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.emit(ctx, domain.NewEvent(domain.ActionInstantiate,
		"admin", admin.String(),
		"denom", req.Denom,
	))

	s.log.Info().
		Str("admin", admin.String()).
		Str("denom", req.Denom).
		Msg("ledger initialized")

	return &ports.InstantiateResult{Admin: admin, Denom: req.Denom}, nil
}

// Deposit credits the caller with the single attached coin. The attachment
// must carry exactly one coin of the configured denomination with a positive
// amount, and the credited balance must stay within the 128-bit bound.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*ports.DepositResult, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case len(req.Funds) == 0:
		return nil, apperror.ErrInvalidFunds("no funds attached")
	case len(req.Funds) > 1:
		return nil, apperror.ErrInvalidFunds("exactly one coin must be attached")
	}

	coin := req.Funds[0]
	if coin.Denom != cfg.Denom {
		return nil, apperror.ErrInvalidDenomination(coin.Denom, cfg.Denom)
	}
	amount, err := domain.ParseAmount(coin.Amount)
	if err != nil {
		return nil, apperror.ErrInvalidFunds(err.Error())
	}
	if amount.IsZero() {
		return nil, apperror.ErrInvalidFunds("amount must be positive")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	balance, err := s.store.GetBalanceForUpdate(ctx, dbTx, req.Caller)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}
	newBalance, err := balance.Add(amount)
	if err != nil {
		return nil, apperror.ErrOverflow()
	}
	if err := s.store.SetBalance(ctx, dbTx, req.Caller, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidate(ctx, req.Caller)
	s.emit(ctx, domain.NewEvent(domain.ActionDeposit,
		"from", req.Caller.String(),
		"denom", coin.Denom,
		"amount", amount.String(),
	))

	s.log.Info().
		Str("account", req.Caller.String()).
		Str("amount", amount.String()).
		Str("balance", newBalance.String()).
		Msg("deposit accepted")

	return &ports.DepositResult{Account: req.Caller, Amount: amount, Balance: newBalance}, nil
}

// AuthorizeSpender grants the spender a flat, non-transferable capability to
// spend from the caller's balance. Self-authorization is rejected: the
// owner's right to spend from self is implicit and never stored.
func (s *LedgerServiceImpl) AuthorizeSpender(ctx context.Context, req ports.AuthorizationRequest) (*ports.AuthorizationResult, error) {
	if _, err := s.loadConfig(ctx); err != nil {
		return nil, err
	}

	spender, err := domain.ParseAccountID(req.Spender)
	if err != nil {
		return nil, apperror.ErrInvalidAddress(err)
	}
	if spender == req.Caller {
		return nil, apperror.ErrSelfAuthorization()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.store.SetAuthorization(ctx, dbTx, req.Caller, spender, true); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save authorization: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.emit(ctx, domain.NewEvent(domain.ActionAuthorizeSpender,
		"owner", req.Caller.String(),
		"spender", spender.String(),
	))

	s.log.Info().
		Str("owner", req.Caller.String()).
		Str("spender", spender.String()).
		Msg("spender authorized")

	return &ports.AuthorizationResult{Owner: req.Caller, Spender: spender, Authorized: true}, nil
}

// RevokeSpender removes the (caller, spender) authorization entry. Revoking
// an absent authorization succeeds: revocation is idempotent, the observable
// outcome (spender not authorized) holds either way.
func (s *LedgerServiceImpl) RevokeSpender(ctx context.Context, req ports.AuthorizationRequest) (*ports.AuthorizationResult, error) {
	if _, err := s.loadConfig(ctx); err != nil {
		return nil, err
	}

	spender, err := domain.ParseAccountID(req.Spender)
	if err != nil {
		return nil, apperror.ErrInvalidAddress(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.store.SetAuthorization(ctx, dbTx, req.Caller, spender, false); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("delete authorization: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.emit(ctx, domain.NewEvent(domain.ActionRevokeSpender,
		"owner", req.Caller.String(),
		"spender", spender.String(),
	))

	s.log.Info().
		Str("owner", req.Caller.String()).
		Str("spender", spender.String()).
		Msg("spender revoked")

	return &ports.AuthorizationResult{Owner: req.Caller, Spender: spender, Authorized: false}, nil
}

// SpendFrom moves amount from the owner's balance to the caller's. The debit
// and credit commit together or not at all, so the sum of all balances is
// conserved.
func (s *LedgerServiceImpl) SpendFrom(ctx context.Context, req ports.SpendFromRequest) (*ports.SpendFromResult, error) {
	if _, err := s.loadConfig(ctx); err != nil {
		return nil, err
	}

	owner, err := domain.ParseAccountID(req.Owner)
	if err != nil {
		return nil, apperror.ErrInvalidAddress(err)
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil || amount.IsZero() {
		return nil, apperror.ErrInvalidAmount()
	}

	permitted, err := s.authorizer.Permitted(ctx, req.Caller, owner)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("authorization check: %w", err))
	}
	if !permitted {
		return nil, apperror.ErrUnauthorized()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ownerBalance, err := s.store.GetBalanceForUpdate(ctx, dbTx, owner)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock owner balance: %w", err))
	}
	if ownerBalance.Cmp(amount) < 0 {
		return nil, apperror.ErrInsufficientBalance(amount.String(), ownerBalance.String())
	}

	newOwnerBalance, err := ownerBalance.Sub(amount)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit owner: %w", err))
	}

	var newSpenderBalance domain.Amount
	if req.Caller == owner {
		// Self-spend debits and credits the same account: the balance is
		// net unchanged and a single row is rewritten.
		newOwnerBalance = ownerBalance
		newSpenderBalance = ownerBalance
		if err := s.store.SetBalance(ctx, dbTx, owner, ownerBalance); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update owner balance: %w", err))
		}
	} else {
		spenderBalance, err := s.store.GetBalanceForUpdate(ctx, dbTx, req.Caller)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock spender balance: %w", err))
		}
		newSpenderBalance, err = spenderBalance.Add(amount)
		if err != nil {
			return nil, apperror.ErrOverflow()
		}
		if err := s.store.SetBalance(ctx, dbTx, owner, newOwnerBalance); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update owner balance: %w", err))
		}
		if err := s.store.SetBalance(ctx, dbTx, req.Caller, newSpenderBalance); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update spender balance: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidate(ctx, owner, req.Caller)
	s.emit(ctx, domain.NewEvent(domain.ActionSpendFrom,
		"owner", owner.String(),
		"spender", req.Caller.String(),
		"amount", amount.String(),
	))

	s.log.Info().
		Str("owner", owner.String()).
		Str("spender", req.Caller.String()).
		Str("amount", amount.String()).
		Msg("spend accepted")

	return &ports.SpendFromResult{
		Owner:          owner,
		Spender:        req.Caller,
		Amount:         amount,
		OwnerBalance:   newOwnerBalance,
		SpenderBalance: newSpenderBalance,
	}, nil
}

// loadConfig fetches the ledger configuration, failing mutating requests
// issued before initialization.
func (s *LedgerServiceImpl) loadConfig(ctx context.Context) (*domain.Config, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load config: %w", err))
	}
	if cfg == nil {
		return nil, apperror.ErrNotInitialized()
	}
	return cfg, nil
}

func (s *LedgerServiceImpl) emit(ctx context.Context, ev domain.Event) {
	if s.sink != nil {
		s.sink.Emit(ctx, ev)
	}
}

func (s *LedgerServiceImpl) invalidate(ctx context.Context, accounts ...domain.AccountID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, accounts...); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate query cache")
	}
}
