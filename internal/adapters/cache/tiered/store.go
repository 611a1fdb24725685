package tiered

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/ports"
)

// Store reads from a fast near tier and falls back to a durable far tier,
// copying far hits into the near tier. Writes go to both tiers.
type Store struct {
	near ports.AccountStore
	far  ports.AccountStore
}

var _ ports.AccountStore = (*Store)(nil)

var (
	errNilNearStore = errors.New("near account store is nil")
	errNilFarStore  = errors.New("far account store is nil")
)

func NewStore(near ports.AccountStore, far ports.AccountStore) (*Store, error) {
	if near == nil {
		return nil, errNilNearStore
	}
	if far == nil {
		return nil, errNilFarStore
	}

	return &Store{near: near, far: far}, nil
}

func (s *Store) Get(ctx context.Context, key string) (domain.AccountRecord, error) {
	record, err := s.near.Get(ctx, key)
	if err == nil {
		return record, nil
	}
	if shouldSkipFallback(err) {
		return domain.AccountRecord{}, err
	}

	record, farErr := s.far.Get(ctx, key)
	if farErr != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.AccountRecord{}, farErr
		}
		return domain.AccountRecord{}, fmt.Errorf("near tier get failed: %w; far tier get failed: %w", err, farErr)
	}

	// A failed backfill only costs a slower next read.
	_ = s.near.Put(ctx, key, record)

	return record, nil
}

func (s *Store) Put(ctx context.Context, key string, record domain.AccountRecord) error {
	nearErr := s.near.Put(ctx, key, record)
	if nearErr != nil && shouldSkipFallback(nearErr) {
		return nearErr
	}

	farErr := s.far.Put(ctx, key, record)
	if nearErr == nil && farErr == nil {
		return nil
	}

	var errs []error
	if nearErr != nil {
		errs = append(errs, fmt.Errorf("near tier put failed: %w", nearErr))
	}
	if farErr != nil {
		errs = append(errs, fmt.Errorf("far tier put failed: %w", farErr))
	}

	return errors.Join(errs...)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
