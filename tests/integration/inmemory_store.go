package integration

import (
	"context"
	"sync"

	"spend-ledger/internal/core/domain"
	"spend-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Ledger Store ---

type authKey struct {
	owner   domain.AccountID
	spender domain.AccountID
}

type inMemoryLedgerStore struct {
	mu       sync.RWMutex
	config   *domain.Config
	balances map[domain.AccountID]domain.Amount
	auths    map[authKey]struct{}
}

func newInMemoryLedgerStore() *inMemoryLedgerStore {
	return &inMemoryLedgerStore{
		balances: make(map[domain.AccountID]domain.Amount),
		auths:    make(map[authKey]struct{}),
	}
}

func (s *inMemoryLedgerStore) GetConfig(ctx context.Context) (*domain.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return nil, nil
	}
	cfg := *s.config
	return &cfg, nil
}

func (s *inMemoryLedgerStore) SetConfig(ctx context.Context, tx pgx.Tx, cfg *domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config != nil {
		return ports.ErrAlreadyInitialized
	}
	stored := *cfg
	s.config = &stored
	return nil
}

func (s *inMemoryLedgerStore) GetBalance(ctx context.Context, account domain.AccountID) (domain.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[account], nil
}

func (s *inMemoryLedgerStore) GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, account domain.AccountID) (domain.Amount, error) {
	return s.GetBalance(ctx, account)
}

func (s *inMemoryLedgerStore) SetBalance(ctx context.Context, tx pgx.Tx, account domain.AccountID, amount domain.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[account] = amount
	return nil
}

func (s *inMemoryLedgerStore) IsAuthorized(ctx context.Context, owner, spender domain.AccountID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.auths[authKey{owner: owner, spender: spender}]
	return ok, nil
}

func (s *inMemoryLedgerStore) SetAuthorization(ctx context.Context, tx pgx.Tx, owner, spender domain.AccountID, present bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := authKey{owner: owner, spender: spender}
	if present {
		s.auths[key] = struct{}{}
	} else {
		delete(s.auths, key)
	}
	return nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transactions with a global mutex so that
// read-modify-write sequences behave like row locking does in PostgreSQL.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &lockTx{release: &t.mu}, nil
}

// lockTx is a pgx.Tx implementation that holds the transactor lock until
// Commit or Rollback, whichever comes first.
type lockTx struct {
	release *sync.Mutex
	once    sync.Once
}

func (t *lockTx) unlock() {
	t.once.Do(func() { t.release.Unlock() })
}

func (t *lockTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *lockTx) Commit(ctx context.Context) error          { t.unlock(); return nil }
func (t *lockTx) Rollback(ctx context.Context) error        { t.unlock(); return nil }
func (t *lockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *lockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *lockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *lockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *lockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *lockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *lockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *lockTx) Conn() *pgx.Conn { return nil }
