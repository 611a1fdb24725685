package toml

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	config := viper.New()
	config.Set("cache.path", filepath.Join(t.TempDir(), "accounts.toml"))

	store, err := NewStore(config)
	require.NoError(t, err)
	return store
}

func sampleRecord(name string, updated time.Time) domain.AccountRecord {
	return domain.AccountRecord{
		Account: domain.Account{
			Name:              domain.AccountName(name),
			CoreLiquidBalance: domain.Asset{Amount: 123456, Symbol: domain.Symbol{Code: "EOS", Precision: 4}},
			RAMQuota:          8000,
			RAMUsage:          4000,
			CPUWeight:         10000,
			NetWeight:         5000,
			CPULimit:          domain.ResourceLimit{Used: 100, Available: 900, Max: 1000},
			NetLimit:          domain.ResourceLimit{Used: 10, Available: 90, Max: 100},
			Raw:               json.RawMessage(`{"account_name":"` + name + `"}`),
		},
		Updated: updated,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	updated := time.Date(2026, 2, 14, 11, 0, 0, 123, time.UTC)
	record := sampleRecord("alice", updated)

	require.NoError(t, store.Put(context.Background(), "chain-alice", record))

	got, err := store.Get(context.Background(), "chain-alice")
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestStorePutReplacesExistingKey(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	first := sampleRecord("alice", time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC))
	second := sampleRecord("alice", time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC))
	second.Account.RAMUsage = 5000

	require.NoError(t, store.Put(context.Background(), "k", first))
	require.NoError(t, store.Put(context.Background(), "k", second))

	got, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), got.Account.RAMUsage)

	file, err := store.readSchema()
	require.NoError(t, err)
	assert.Len(t, file.Records, 1)
}

func TestStoreGetMissingKey(t *testing.T) {
	t.Parallel()

	_, err := newTestStore(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestStoreRejectsNewerSchemaVersion(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o700))
	require.NoError(t, os.WriteFile(store.Path(), []byte("version = 99\n"), 0o600))

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported cache schema version")
}

func TestStoreHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "k", sampleRecord("alice", time.Now())), context.Canceled)
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreFileIsPrivate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Put(context.Background(), "k", sampleRecord("alice", time.Now())))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStoreConcurrentPutsSharingPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.toml")
	newStore := func() *Store {
		config := viper.New()
		config.Set("cache.path", path)
		store, err := NewStore(config)
		require.NoError(t, err)
		return store
	}
	first, second := newStore(), newStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		store := first
		if i%2 == 1 {
			store = second
		}
		key := "acc-" + strconv.Itoa(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Put(context.Background(), key, sampleRecord(key, time.Now().UTC())))
		}()
	}
	wg.Wait()

	file, err := first.readSchema()
	require.NoError(t, err)
	assert.Len(t, file.Records, 20)
}
