package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/ports"
	"go.uber.org/zap"
)

const DefaultBalancesInterval = 15 * time.Minute

// BalanceSync polls the balances of one account for a fixed token list and
// rebuilds the token registry after every successful poll.
type BalanceSync struct {
	client   ports.ChainClient
	registry *TokenRegistry
	chainID  domain.ChainID
	account  domain.AccountName
	tracked  []domain.TokenMetadata
	poller   *Poller[[]domain.Balance]
	logger   *zap.Logger
}

func NewBalanceSync(
	client ports.ChainClient,
	registry *TokenRegistry,
	chainID domain.ChainID,
	account domain.AccountName,
	tracked []domain.TokenMetadata,
	interval time.Duration,
	clock ports.Clock,
	logger *zap.Logger,
) *BalanceSync {
	if interval <= 0 {
		interval = DefaultBalancesInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bs := &BalanceSync{
		client:   client,
		registry: registry,
		chainID:  chainID,
		account:  account,
		tracked:  tracked,
		logger:   logger,
	}
	bs.poller = NewPoller("balances", interval, bs.fetch, logger, clock)
	bs.poller.Subscribe(func(snapshot Snapshot[[]domain.Balance]) {
		registry.Rebuild(bs.tracked, snapshot.Value)
	})

	return bs
}

func (s *BalanceSync) Poller() *Poller[[]domain.Balance] {
	return s.poller
}

// Balances returns the last synced balances.
func (s *BalanceSync) Balances() ([]domain.Balance, error) {
	snapshot, err := s.poller.Snapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.Value, nil
}

// fetch fails only when every tracked token failed; partial results are
// published and the failures logged.
func (s *BalanceSync) fetch(ctx context.Context) ([]domain.Balance, error) {
	balances := make([]domain.Balance, 0, len(s.tracked))
	var errs []error

	for _, token := range s.tracked {
		assets, err := s.client.GetCurrencyBalance(ctx, token.Contract, s.account, token.Symbol.Code)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s@%s: %w", token.Symbol.Code, token.Contract, err))
			continue
		}

		asset := domain.Asset{Symbol: token.Symbol}
		if len(assets) > 0 {
			asset = assets[0]
		}
		balances = append(balances, domain.Balance{
			Key:      domain.MakeTokenKey(s.chainID, token.Contract, asset.Symbol.Code),
			ChainID:  s.chainID,
			Account:  s.account,
			Contract: token.Contract,
			Asset:    asset,
		})
	}

	if len(errs) > 0 {
		if len(balances) == 0 {
			return nil, errors.Join(errs...)
		}
		s.logger.Warn("some balances failed to sync", zap.Error(errors.Join(errs...)))
	}

	return balances, nil
}
