package ports

import (
	"context"

	"github.com/bnema/wallet-resources/internal/domain"
)

// AccountStore persists account records by cache key. Get returns
// domain.ErrAccountNotFound when the key has no record.
type AccountStore interface {
	Get(ctx context.Context, key string) (domain.AccountRecord, error)
	Put(ctx context.Context, key string, record domain.AccountRecord) error
}
