package domain

import (
	"encoding/json"
	"time"
)

type AccountName string

type ChainID string

type ResourceLimit struct {
	Used      int64 `json:"used"`
	Available int64 `json:"available"`
	Max       int64 `json:"max"`
}

// Account is the snapshot returned by get_account. Raw keeps the full
// node response for consumers that need fields not mapped here.
type Account struct {
	Name              AccountName     `json:"account_name"`
	CoreLiquidBalance Asset           `json:"core_liquid_balance"`
	RAMQuota          int64           `json:"ram_quota"`
	RAMUsage          int64           `json:"ram_usage"`
	CPUWeight         int64           `json:"cpu_weight"`
	NetWeight         int64           `json:"net_weight"`
	CPULimit          ResourceLimit   `json:"cpu_limit"`
	NetLimit          ResourceLimit   `json:"net_limit"`
	Raw               json.RawMessage `json:"raw,omitempty"`
}

type AccountRecord struct {
	Account Account   `json:"account"`
	Updated time.Time `json:"updated"`
}

func (r AccountRecord) IsStale(now time.Time, maxAge time.Duration) bool {
	if r.Updated.IsZero() {
		return true
	}

	return now.Sub(r.Updated) > maxAge
}

// AccountCacheKey is the persistent store key of an account record.
func AccountCacheKey(chainID ChainID, name AccountName) string {
	return string(chainID) + "-" + string(name)
}
