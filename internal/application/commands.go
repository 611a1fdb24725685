package application

import (
	"context"
	"errors"

	"github.com/bnema/wallet-resources/internal/domain"
)

// AccountRequest asks the account cache for one account on one chain.
type AccountRequest struct {
	Name         domain.AccountName
	ChainID      domain.ChainID
	ForceRefresh bool
}

type QuoteModel string

const (
	QuoteModelPowerUp     QuoteModel = "powerup"
	QuoteModelPowerUpSpot QuoteModel = "powerup-spot"
	QuoteModelREX         QuoteModel = "rex"
)

func (m QuoteModel) Valid() bool {
	switch m {
	case QuoteModelPowerUp, QuoteModelPowerUpSpot, QuoteModelREX:
		return true
	default:
		return false
	}
}

// RefreshStep is one named poll of a one-shot refresh.
type RefreshStep struct {
	Name string
	Poll func(context.Context) error
}

// RunRefreshSteps polls every step in order and joins the failures.
func RunRefreshSteps(ctx context.Context, steps []RefreshStep) error {
	var errs []error
	for _, step := range steps {
		if err := step.Poll(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
