package service

import (
	"context"
	"fmt"
	"testing"

	"spend-ledger/internal/core/domain"
	"spend-ledger/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthorizer_SelfAlwaysPermitted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	a := NewAuthorizer(store)

	// No store expectation: the self check never touches storage.
	permitted, err := a.Permitted(context.Background(), "addr_a", "addr_a")
	require.NoError(t, err)
	assert.True(t, permitted)
}

func TestAuthorizer_DelegatePermittedByEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	a := NewAuthorizer(store)
	ctx := context.Background()

	store.EXPECT().IsAuthorized(ctx, domain.AccountID("addr_a"), domain.AccountID("addr_b")).Return(true, nil)
	permitted, err := a.Permitted(ctx, "addr_b", "addr_a")
	require.NoError(t, err)
	assert.True(t, permitted)
}

func TestAuthorizer_StrangerNotPermitted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	a := NewAuthorizer(store)
	ctx := context.Background()

	store.EXPECT().IsAuthorized(ctx, domain.AccountID("addr_a"), domain.AccountID("addr_z")).Return(false, nil)
	permitted, err := a.Permitted(ctx, "addr_z", "addr_a")
	require.NoError(t, err)
	assert.False(t, permitted)
}

func TestAuthorizer_DirectionMatters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	a := NewAuthorizer(store)
	ctx := context.Background()

	// addr_a authorized addr_b, not the other way round.
	store.EXPECT().IsAuthorized(ctx, domain.AccountID("addr_b"), domain.AccountID("addr_a")).Return(false, nil)
	permitted, err := a.Permitted(ctx, "addr_a", "addr_b")
	require.NoError(t, err)
	assert.False(t, permitted)
}

func TestAuthorizer_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	a := NewAuthorizer(store)
	ctx := context.Background()

	store.EXPECT().IsAuthorized(ctx, gomock.Any(), gomock.Any()).Return(false, fmt.Errorf("store down"))
	_, err := a.Permitted(ctx, "addr_b", "addr_a")
	assert.Error(t, err)
}
