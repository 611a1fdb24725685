package application

import (
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
)

// AccountResponse is one delivery of the account cache. Error is only set
// by AccountCache.Account.
type AccountResponse struct {
	Account domain.Account
	Stale   bool
	Updated time.Time
	Error   error
}

type AccountCallback func(AccountResponse)

// Quote is a fee computed from one snapshot. It is never stored.
type Quote struct {
	Model        QuoteModel
	MsToRent     float64
	Fee          domain.Asset
	ShiftedRatio float64
	SnapshotTime time.Time
	QuotedAt     time.Time
}

// PowerUpAggregates describes the CPU market. AdjustedUtilization is in
// weight units; AdjustedRatio is the same value as a share of Weight.
type PowerUpAggregates struct {
	Ready               bool
	Utilization         float64
	AdjustedUtilization float64
	AdjustedRatio       float64
	ShiftedRatio        float64
	AvailableMs         float64
	PricePerMs          domain.Asset
	MinPowerUpFee       domain.Asset
	Updated             time.Time
}

type REXAggregates struct {
	Ready       bool
	Utilization float64
	MsPerToken  float64
	PricePerMs  domain.Asset
	Updated     time.Time
}

type StakingAggregates struct {
	Ready      bool
	Sample     domain.SampleUsage
	MsPerToken float64
	Updated    time.Time
}

// Aggregates are derived values recomputed from the current snapshots on
// every call.
type Aggregates struct {
	At      time.Time
	PowerUp PowerUpAggregates
	REX     REXAggregates
	Staking StakingAggregates
}

// Status is everything the resource view renders in one pass.
type Status struct {
	ChainID    domain.ChainID
	Aggregates Aggregates
	Account    *AccountResponse
	Tokens     []domain.Token
	Balances   []domain.Balance
}
