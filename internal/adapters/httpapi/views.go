package httpapi

import (
	"time"

	"github.com/bnema/wallet-resources/internal/application"
	"github.com/bnema/wallet-resources/internal/domain"
)

type errorView struct {
	Error string `json:"error"`
}

type quoteView struct {
	Model        string       `json:"model"`
	MsToRent     float64      `json:"ms"`
	Fee          domain.Asset `json:"fee"`
	ShiftedRatio float64      `json:"shifted_ratio"`
	SnapshotTime time.Time    `json:"snapshot_time"`
	QuotedAt     time.Time    `json:"quoted_at"`
}

func newQuoteView(q application.Quote) quoteView {
	return quoteView{
		Model:        string(q.Model),
		MsToRent:     q.MsToRent,
		Fee:          q.Fee,
		ShiftedRatio: q.ShiftedRatio,
		SnapshotTime: q.SnapshotTime,
		QuotedAt:     q.QuotedAt,
	}
}

type accountView struct {
	Account domain.Account `json:"account"`
	Stale   bool           `json:"stale"`
	Updated time.Time      `json:"updated"`
	Error   string         `json:"error,omitempty"`
}

func newAccountView(resp application.AccountResponse) accountView {
	view := accountView{
		Account: resp.Account,
		Stale:   resp.Stale,
		Updated: resp.Updated,
	}
	if resp.Error != nil {
		view.Error = resp.Error.Error()
	}
	return view
}

type powerUpView struct {
	Ready               bool         `json:"ready"`
	Utilization         float64      `json:"utilization"`
	AdjustedUtilization float64      `json:"adjusted_utilization"`
	AdjustedRatio       float64      `json:"adjusted_ratio"`
	ShiftedRatio        float64      `json:"shifted_ratio"`
	AvailableMs         float64      `json:"available_ms"`
	PricePerMs          domain.Asset `json:"price_per_ms"`
	MinPowerUpFee       domain.Asset `json:"min_powerup_fee"`
	Updated             time.Time    `json:"updated"`
}

type rexView struct {
	Ready       bool         `json:"ready"`
	Utilization float64      `json:"utilization"`
	MsPerToken  float64      `json:"ms_per_token"`
	PricePerMs  domain.Asset `json:"price_per_ms"`
	Updated     time.Time    `json:"updated"`
}

type stakingView struct {
	Ready      bool               `json:"ready"`
	Sample     domain.SampleUsage `json:"sample"`
	MsPerToken float64            `json:"ms_per_token"`
	Updated    time.Time          `json:"updated"`
}

type aggregatesView struct {
	At      time.Time   `json:"at"`
	PowerUp powerUpView `json:"powerup"`
	REX     rexView     `json:"rex"`
	Staking stakingView `json:"staking"`
}

func newAggregatesView(a application.Aggregates) aggregatesView {
	return aggregatesView{
		At: a.At,
		PowerUp: powerUpView{
			Ready:               a.PowerUp.Ready,
			Utilization:         a.PowerUp.Utilization,
			AdjustedUtilization: a.PowerUp.AdjustedUtilization,
			AdjustedRatio:       a.PowerUp.AdjustedRatio,
			ShiftedRatio:        a.PowerUp.ShiftedRatio,
			AvailableMs:         a.PowerUp.AvailableMs,
			PricePerMs:          a.PowerUp.PricePerMs,
			MinPowerUpFee:       a.PowerUp.MinPowerUpFee,
			Updated:             a.PowerUp.Updated,
		},
		REX: rexView{
			Ready:       a.REX.Ready,
			Utilization: a.REX.Utilization,
			MsPerToken:  a.REX.MsPerToken,
			PricePerMs:  a.REX.PricePerMs,
			Updated:     a.REX.Updated,
		},
		Staking: stakingView{
			Ready:      a.Staking.Ready,
			Sample:     a.Staking.Sample,
			MsPerToken: a.Staking.MsPerToken,
			Updated:    a.Staking.Updated,
		},
	}
}
