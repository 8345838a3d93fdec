package postgres

import (
	"context"
	"testing"
	"time"

	"spend-ledger/internal/core/domain"
	"spend-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *domain.Config {
	return &domain.Config{
		Admin:     "admin",
		Denom:     "uusd",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func configRow(cfg *domain.Config) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"admin", "denom", "created_at"}).
		AddRow(cfg.Admin, cfg.Denom, cfg.CreatedAt)
}

func TestLedgerStore_GetConfig(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	cfg := newTestConfig()

	mock.ExpectQuery("SELECT admin, denom, created_at FROM ledger_config").
		WillReturnRows(configRow(cfg))

	result, err := store.GetConfig(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, cfg.Admin, result.Admin)
	assert.Equal(t, cfg.Denom, result.Denom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_GetConfig_NotInitialized(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)

	mock.ExpectQuery("SELECT admin, denom, created_at FROM ledger_config").
		WillReturnRows(pgxmock.NewRows([]string{"admin", "denom", "created_at"}))

	result, err := store.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_SetConfig(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	cfg := newTestConfig()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_config").
		WithArgs(cfg.Admin, cfg.Denom, cfg.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = store.SetConfig(context.Background(), tx, cfg)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_SetConfig_Duplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	cfg := newTestConfig()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_config").
		WithArgs(cfg.Admin, cfg.Denom, cfg.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = store.SetConfig(context.Background(), tx, cfg)
	assert.ErrorIs(t, err, ports.ErrAlreadyInitialized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_GetBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)

	mock.ExpectQuery("SELECT amount::text FROM balances WHERE account").
		WithArgs(domain.AccountID("alice")).
		WillReturnRows(pgxmock.NewRows([]string{"amount"}).AddRow("250"))

	balance, err := store.GetBalance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "250", balance.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_GetBalance_UnknownAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)

	mock.ExpectQuery("SELECT amount::text FROM balances WHERE account").
		WithArgs(domain.AccountID("ghost")).
		WillReturnRows(pgxmock.NewRows([]string{"amount"}))

	balance, err := store.GetBalance(context.Background(), "ghost")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_GetBalanceForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT amount::text FROM balances WHERE account = \\$1 FOR UPDATE").
		WithArgs(domain.AccountID("alice")).
		WillReturnRows(pgxmock.NewRows([]string{"amount"}).AddRow("340282366920938463463374607431768211455"))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	balance, err := store.GetBalanceForUpdate(context.Background(), tx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211455", balance.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_SetBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO balances").
		WithArgs(domain.AccountID("alice"), "999").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = store.SetBalance(context.Background(), tx, "alice", domain.MustAmount("999"))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_IsAuthorized(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(domain.AccountID("alice"), domain.AccountID("bob")).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	authorized, err := store.IsAuthorized(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.True(t, authorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_SetAuthorization(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO authorizations").
		WithArgs(domain.AccountID("alice"), domain.AccountID("bob")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = store.SetAuthorization(context.Background(), tx, "alice", "bob", true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_SetAuthorization_Revoke(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM authorizations").
		WithArgs(domain.AccountID("alice"), domain.AccountID("bob")).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = store.SetAuthorization(context.Background(), tx, "alice", "bob", false)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
