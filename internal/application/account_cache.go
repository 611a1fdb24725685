package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/metrics"
	"github.com/bnema/wallet-resources/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrUnknownChain     = errors.New("no chain client for chain id")
	ErrEmptyAccountName = errors.New("account name is empty")
)

// AccountCache is a read-through cache of account state. Cached records
// are delivered first, then refreshed from the chain when stale, missing
// or forced. Concurrent refreshes of the same key share one fetch.
type AccountCache struct {
	store   ports.AccountStore
	clients map[domain.ChainID]ports.ChainClient
	clock   ports.Clock
	logger  *zap.Logger
	maxAge  time.Duration

	inflight singleflight.Group
}

func NewAccountCache(store ports.AccountStore, clients map[domain.ChainID]ports.ChainClient, clock ports.Clock, logger *zap.Logger, maxAge time.Duration) *AccountCache {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAge <= 0 {
		maxAge = domain.DefaultAccountMaxAge
	}

	return &AccountCache{
		store:   store,
		clients: clients,
		clock:   clock,
		logger:  logger.With(zap.String("component", "account_cache")),
		maxAge:  maxAge,
	}
}

func (c *AccountCache) MaxAge() time.Duration {
	return c.maxAge
}

// LoadAccount calls fn with the cached record, if any, and again with a
// fresh record whenever a fetch was needed. Fetch errors are returned and
// fn is not called for them.
func (c *AccountCache) LoadAccount(ctx context.Context, req AccountRequest, fn AccountCallback) error {
	if strings.TrimSpace(string(req.Name)) == "" {
		return ErrEmptyAccountName
	}
	if fn == nil {
		fn = func(AccountResponse) {}
	}

	key := domain.AccountCacheKey(req.ChainID, req.Name)
	record, found := c.lookup(ctx, key)

	stale := true
	if found {
		stale = record.IsStale(c.clock.Now(), c.maxAge)
		if stale {
			metrics.RecordCacheLookup("stale")
		} else {
			metrics.RecordCacheLookup("hit")
		}
		fn(AccountResponse{Account: record.Account, Stale: stale, Updated: record.Updated})
	} else {
		metrics.RecordCacheLookup("miss")
	}

	if found && !stale && !req.ForceRefresh {
		return nil
	}

	fresh, err := c.refresh(ctx, key, req)
	if err != nil {
		c.logger.Warn("account refresh failed",
			zap.String("account", string(req.Name)),
			zap.String("chain_id", string(req.ChainID)),
			zap.Error(err),
		)
		return err
	}

	fn(AccountResponse{Account: fresh.Account, Stale: false, Updated: fresh.Updated})
	return nil
}

// Account returns the freshest value LoadAccount produced. When the
// refresh fails after a cache hit the cached value is returned with Error
// set.
func (c *AccountCache) Account(ctx context.Context, name domain.AccountName, chainID domain.ChainID, forceRefresh bool) AccountResponse {
	var latest AccountResponse
	err := c.LoadAccount(ctx, AccountRequest{Name: name, ChainID: chainID, ForceRefresh: forceRefresh}, func(resp AccountResponse) {
		latest = resp
	})
	if err != nil {
		latest.Error = err
	}
	return latest
}

func (c *AccountCache) lookup(ctx context.Context, key string) (domain.AccountRecord, bool) {
	record, err := c.store.Get(ctx, key)
	if err == nil {
		return record, true
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		c.logger.Warn("account cache read failed", zap.String("key", key), zap.Error(err))
	}
	return domain.AccountRecord{}, false
}

func (c *AccountCache) refresh(ctx context.Context, key string, req AccountRequest) (domain.AccountRecord, error) {
	client, ok := c.clients[req.ChainID]
	if !ok {
		return domain.AccountRecord{}, fmt.Errorf("%w: %q", ErrUnknownChain, req.ChainID)
	}

	// The shared fetch outlives any single caller's cancellation; each
	// caller still stops waiting when its own ctx is done.
	fetchCtx := context.WithoutCancel(ctx)
	results := c.inflight.DoChan(key, func() (any, error) {
		account, err := client.GetAccount(fetchCtx, req.Name)
		if err != nil {
			return domain.AccountRecord{}, fmt.Errorf("fetch account %s: %w", req.Name, err)
		}

		record := domain.AccountRecord{Account: account, Updated: c.clock.Now().UTC()}
		if err := c.store.Put(fetchCtx, key, record); err != nil {
			c.logger.Warn("account cache write failed", zap.String("key", key), zap.Error(err))
		}
		return record, nil
	})

	select {
	case <-ctx.Done():
		return domain.AccountRecord{}, ctx.Err()
	case res := <-results:
		metrics.RecordCacheFetch(res.Err, res.Shared)
		if res.Err != nil {
			return domain.AccountRecord{}, res.Err
		}
		return res.Val.(domain.AccountRecord), nil
	}
}
