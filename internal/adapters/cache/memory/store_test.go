package memory

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewStore(0)
	require.NoError(t, err)

	record := domain.AccountRecord{
		Account: domain.Account{Name: "alice", RAMQuota: 10},
		Updated: time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Put(context.Background(), "k", record))

	got, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	store, err := NewStore(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", domain.AccountRecord{Account: domain.Account{Name: "a"}}))
	require.NoError(t, store.Put(ctx, "b", domain.AccountRecord{Account: domain.Account{Name: "b"}}))
	_, err = store.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "c", domain.AccountRecord{Account: domain.Account{Name: "c"}}))

	assert.Equal(t, 2, store.Len())
	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	_, err = store.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestStoreHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	store, err := NewStore(1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "k", domain.AccountRecord{}), context.Canceled)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
