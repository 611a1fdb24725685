package domain

import "fmt"

// SampleUsage is the resource cost of staked weight measured on a
// reference account: CPU in ms and NET in bytes per whole staked token.
type SampleUsage struct {
	Account AccountName `json:"account"`
	CPU     float64     `json:"cpu"`
	NET     float64     `json:"net"`
}

func SampleFromAccount(account Account, core Symbol) (SampleUsage, error) {
	if account.CPUWeight <= 0 || account.NetWeight <= 0 {
		return SampleUsage{}, fmt.Errorf("%w: sample account %s has no staked weight", ErrInvalidPoolState, account.Name)
	}

	cpuTokens := float64(account.CPUWeight) / core.Unit()
	netTokens := float64(account.NetWeight) / core.Unit()

	return SampleUsage{
		Account: account.Name,
		CPU:     float64(account.CPULimit.Max) / 1000 / cpuTokens,
		NET:     float64(account.NetLimit.Max) / netTokens,
	}, nil
}
