package domain

import "fmt"

type REXState struct {
	Version         uint8  `json:"version"`
	TotalLent       Asset  `json:"total_lent"`
	TotalUnlent     Asset  `json:"total_unlent"`
	TotalRent       Asset  `json:"total_rent"`
	TotalLendable   Asset  `json:"total_lendable"`
	TotalRex        Asset  `json:"total_rex"`
	NamebidProceeds Asset  `json:"namebid_proceeds"`
	LoanNum         uint64 `json:"loan_num"`
}

// MsPerToken is the CPU time one whole token of rent buys, using the
// sampled cost of staked weight. This is a linear approximation of the
// REX market, not its exact Bancor price.
func (s REXState) MsPerToken(sample SampleUsage, shiftedRatio float64) float64 {
	if s.TotalRent.Amount == 0 || s.TotalUnlent.Amount == 0 {
		return 0
	}

	unlentPerRent := float64(s.TotalUnlent.Amount) / float64(s.TotalRent.Amount)
	return unlentPerRent * sample.CPU * (shiftedRatio / 100)
}

func (s REXState) Price(msToRent float64, sample SampleUsage, shiftedRatio float64) (Asset, error) {
	if s.TotalRent.Amount <= 0 || s.TotalUnlent.Amount <= 0 {
		return Asset{}, fmt.Errorf("%w: rex pool has no rent or unlent balance", ErrInvalidPoolState)
	}

	msPerToken := s.MsPerToken(sample, shiftedRatio)
	if msPerToken <= 0 {
		return Asset{}, fmt.Errorf("%w: rex offers no cpu (shifted ratio %.2f)", ErrInvalidPoolState, shiftedRatio)
	}

	return AssetFromTokens(msToRent/msPerToken, s.TotalRent.Symbol), nil
}

// Utilization is the share of lendable funds currently lent out.
func (s REXState) Utilization() float64 {
	if s.TotalLendable.Amount <= 0 {
		return 0
	}
	return float64(s.TotalLent.Amount) / float64(s.TotalLendable.Amount)
}
