package tiered

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	portmocks "github.com/bnema/wallet-resources/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testRecord = domain.AccountRecord{
	Account: domain.Account{Name: "alice"},
	Updated: time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC),
}

func newTestStore(t *testing.T) (*Store, *portmocks.MockAccountStore, *portmocks.MockAccountStore) {
	t.Helper()

	near := portmocks.NewMockAccountStore(t)
	far := portmocks.NewMockAccountStore(t)
	store, err := NewStore(near, far)
	require.NoError(t, err)

	return store, near, far
}

func TestNewStoreRejectsNilTiers(t *testing.T) {
	t.Parallel()

	_, err := NewStore(nil, portmocks.NewMockAccountStore(t))
	assert.ErrorIs(t, err, errNilNearStore)

	_, err = NewStore(portmocks.NewMockAccountStore(t), nil)
	assert.ErrorIs(t, err, errNilFarStore)
}

func TestStoreGetUsesNearTierWhenItHits(t *testing.T) {
	t.Parallel()

	store, near, _ := newTestStore(t)
	near.EXPECT().Get(mock.Anything, "k").Return(testRecord, nil).Once()

	got, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, testRecord, got)
}

func TestStoreGetBackfillsNearTierFromFarTier(t *testing.T) {
	t.Parallel()

	store, near, far := newTestStore(t)
	near.EXPECT().Get(mock.Anything, "k").Return(domain.AccountRecord{}, domain.ErrAccountNotFound).Once()
	far.EXPECT().Get(mock.Anything, "k").Return(testRecord, nil).Once()
	near.EXPECT().Put(mock.Anything, "k", testRecord).Return(nil).Once()

	got, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, testRecord, got)
}

func TestStoreGetMissInBothTiers(t *testing.T) {
	t.Parallel()

	store, near, far := newTestStore(t)
	near.EXPECT().Get(mock.Anything, "k").Return(domain.AccountRecord{}, domain.ErrAccountNotFound).Once()
	far.EXPECT().Get(mock.Anything, "k").Return(domain.AccountRecord{}, domain.ErrAccountNotFound).Once()

	_, err := store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestStoreGetCombinesErrorsWhenBothTiersFail(t *testing.T) {
	t.Parallel()

	store, near, far := newTestStore(t)
	near.EXPECT().Get(mock.Anything, "k").Return(domain.AccountRecord{}, errors.New("lru broken")).Once()
	far.EXPECT().Get(mock.Anything, "k").Return(domain.AccountRecord{}, errors.New("redis down")).Once()

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.ErrorContains(t, err, "lru broken")
	assert.ErrorContains(t, err, "redis down")
}

func TestStoreGetSkipsFarTierOnContextErrors(t *testing.T) {
	t.Parallel()

	store, near, _ := newTestStore(t)
	near.EXPECT().Get(mock.Anything, "k").Return(domain.AccountRecord{}, context.Canceled).Once()

	_, err := store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorePutWritesBothTiers(t *testing.T) {
	t.Parallel()

	store, near, far := newTestStore(t)
	near.EXPECT().Put(mock.Anything, "k", testRecord).Return(nil).Once()
	far.EXPECT().Put(mock.Anything, "k", testRecord).Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), "k", testRecord))
}

func TestStorePutJoinsTierErrors(t *testing.T) {
	t.Parallel()

	store, near, far := newTestStore(t)
	nearErr := errors.New("near failed")
	farErr := errors.New("far failed")
	near.EXPECT().Put(mock.Anything, "k", testRecord).Return(nearErr).Once()
	far.EXPECT().Put(mock.Anything, "k", testRecord).Return(farErr).Once()

	err := store.Put(context.Background(), "k", testRecord)
	require.Error(t, err)
	assert.ErrorIs(t, err, nearErr)
	assert.ErrorIs(t, err, farErr)
}

func TestStorePutReportsFarTierFailure(t *testing.T) {
	t.Parallel()

	store, near, far := newTestStore(t)
	near.EXPECT().Put(mock.Anything, "k", testRecord).Return(nil).Once()
	far.EXPECT().Put(mock.Anything, "k", testRecord).Return(errors.New("disk full")).Once()

	err := store.Put(context.Background(), "k", testRecord)
	assert.ErrorContains(t, err, "far tier put failed: disk full")
}
