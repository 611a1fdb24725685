package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/wallet-resources/internal/domain"
)

var ErrNoBalanceSync = errors.New("balance sync is not configured")

// Service is the entry point shared by the CLI and the HTTP API.
type Service struct {
	chainID   domain.ChainID
	accounts  *AccountCache
	resources *Resources
	tokens    *TokenRegistry
	balances  *BalanceSync
	prices    *PriceFeed
	group     *Group
}

type ServiceDeps struct {
	ChainID   domain.ChainID
	Accounts  *AccountCache
	Resources *Resources
	Tokens    *TokenRegistry
	Balances  *BalanceSync
	Prices    *PriceFeed
}

func NewService(deps ServiceDeps) *Service {
	if deps.Tokens == nil {
		deps.Tokens = NewTokenRegistry()
	}

	group := NewGroup()
	if deps.Resources != nil {
		for _, runner := range deps.Resources.Runners() {
			group.Add(runner)
		}
	}
	if deps.Balances != nil {
		group.Add(deps.Balances.Poller())
	}
	if deps.Prices != nil {
		group.Add(deps.Prices.Poller())
	}

	return &Service{
		chainID:   deps.ChainID,
		accounts:  deps.Accounts,
		resources: deps.Resources,
		tokens:    deps.Tokens,
		balances:  deps.Balances,
		prices:    deps.Prices,
		group:     group,
	}
}

func (s *Service) ChainID() domain.ChainID {
	return s.chainID
}

func (s *Service) Resources() *Resources {
	return s.resources
}

func (s *Service) Tokens() *TokenRegistry {
	return s.tokens
}

// Start launches every poller. Stop must be called to release them.
func (s *Service) Start(ctx context.Context) error {
	return s.group.Start(ctx)
}

func (s *Service) Stop() {
	s.group.Stop()
}

// RefreshSteps lists the markets, then balances, then prices. Prices
// come last so they patch the registry the balance sync rebuilt.
func (s *Service) RefreshSteps() []RefreshStep {
	var steps []RefreshStep
	if s.resources != nil {
		steps = append(steps, s.resources.RefreshSteps()...)
	}
	if s.balances != nil {
		steps = append(steps, RefreshStep{Name: "balances", Poll: s.balances.Poller().Poll})
	}
	if s.prices != nil {
		steps = append(steps, RefreshStep{Name: "prices", Poll: s.prices.Poller().Poll})
	}
	return steps
}

// Refresh polls the markets, balances and prices once, without starting
// timers. Individual failures are joined.
func (s *Service) Refresh(ctx context.Context) error {
	return RunRefreshSteps(ctx, s.RefreshSteps())
}

func (s *Service) LoadAccount(ctx context.Context, req AccountRequest, fn AccountCallback) error {
	if req.ChainID == "" {
		req.ChainID = s.chainID
	}
	return s.accounts.LoadAccount(ctx, req, fn)
}

func (s *Service) Account(ctx context.Context, name domain.AccountName, forceRefresh bool) AccountResponse {
	return s.accounts.Account(ctx, name, s.chainID, forceRefresh)
}

func (s *Service) Quote(model QuoteModel, msToRent float64) (Quote, error) {
	if s.resources == nil {
		return Quote{}, fmt.Errorf("quote %s: %w", model, domain.ErrNoSnapshot)
	}
	return s.resources.Quote(model, msToRent)
}

func (s *Service) Aggregates() Aggregates {
	if s.resources == nil {
		return Aggregates{}
	}
	return s.resources.Aggregates()
}

func (s *Service) Balances() ([]domain.Balance, error) {
	if s.balances == nil {
		return nil, ErrNoBalanceSync
	}
	return s.balances.Balances()
}

// Status assembles the current view. account may be empty, in which case
// no account section is loaded.
func (s *Service) Status(ctx context.Context, account domain.AccountName) Status {
	status := Status{
		ChainID:    s.chainID,
		Aggregates: s.Aggregates(),
		Tokens:     s.tokens.List(),
	}

	if account != "" && s.accounts != nil {
		resp := s.Account(ctx, account, false)
		status.Account = &resp
	}
	if balances, err := s.Balances(); err == nil {
		status.Balances = balances
	}

	return status
}

// Watch calls fn after every market, balance or price snapshot is
// published, and once per poller that already holds one. fn runs on the
// publishing goroutine and must not block.
func (s *Service) Watch(fn func()) (unwatch func()) {
	var cancels []func()
	if s.resources != nil {
		cancels = append(cancels,
			s.resources.PowerUp().Subscribe(func(Snapshot[domain.PowerUpState]) { fn() }),
			s.resources.REX().Subscribe(func(Snapshot[domain.REXState]) { fn() }),
			s.resources.Sample().Subscribe(func(Snapshot[domain.SampleUsage]) { fn() }),
		)
	}
	if s.balances != nil {
		cancels = append(cancels, s.balances.Poller().Subscribe(func(Snapshot[[]domain.Balance]) { fn() }))
	}
	if s.prices != nil {
		cancels = append(cancels, s.prices.Poller().Subscribe(func(Snapshot[domain.PricePoint]) { fn() }))
	}

	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
