package memory

import (
	"context"
	"fmt"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/ports"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultSize = 1024

// Store is a bounded in-process record store. The least recently used
// record is evicted once the store is full.
type Store struct {
	records *lru.Cache[string, domain.AccountRecord]
}

var _ ports.AccountStore = (*Store)(nil)

func NewStore(size int) (*Store, error) {
	if size <= 0 {
		size = DefaultSize
	}

	records, err := lru.New[string, domain.AccountRecord](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}

	return &Store{records: records}, nil
}

func (s *Store) Get(ctx context.Context, key string) (domain.AccountRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountRecord{}, err
	}

	record, ok := s.records.Get(key)
	if !ok {
		return domain.AccountRecord{}, domain.ErrAccountNotFound
	}

	return record, nil
}

func (s *Store) Put(ctx context.Context, key string, record domain.AccountRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.records.Add(key, record)
	return nil
}

func (s *Store) Len() int {
	return s.records.Len()
}
