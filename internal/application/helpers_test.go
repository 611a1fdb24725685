package application

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/ports/mocks"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

const powerUpRowFixture = `{
  "version": 0,
  "net": {
    "version": 0,
    "weight": "1000000000000",
    "weight_ratio": "10000000000000",
    "assumed_stake_weight": "944076307",
    "initial_weight_ratio": "1000000000000000",
    "target_weight_ratio": "10000000000000",
    "initial_timestamp": "2021-03-12T19:53:08.000",
    "target_timestamp": "2021-07-10T19:53:08.000",
    "exponent": "2.00000000000000000",
    "decay_secs": 86400,
    "min_price": "0.0000 EOS",
    "max_price": "5000000.0000 EOS",
    "utilization": "100000000000",
    "adjusted_utilization": "100000000000",
    "utilization_timestamp": "2026-02-14T10:00:00.000"
  },
  "cpu": {
    "version": 0,
    "weight": "1000000000000",
    "weight_ratio": "10000000000000",
    "assumed_stake_weight": "944076307",
    "initial_weight_ratio": "1000000000000000",
    "target_weight_ratio": "10000000000000",
    "initial_timestamp": "2021-03-12T19:53:08.000",
    "target_timestamp": "2021-07-10T19:53:08.000",
    "exponent": "2.00000000000000000",
    "decay_secs": 86400,
    "min_price": "0.0000 EOS",
    "max_price": "5000000.0000 EOS",
    "utilization": "500000000000",
    "adjusted_utilization": "600000000000",
    "utilization_timestamp": "2026-02-14T10:00:00.000"
  },
  "powerup_days": 1,
  "min_powerup_fee": "0.0001 EOS"
}`

const rexRowFixture = `{
  "version": 0,
  "total_lent": "50000000.0000 EOS",
  "total_unlent": "10000000.0000 EOS",
  "total_rent": "20000.0000 EOS",
  "total_lendable": "60000000.0000 EOS",
  "total_rex": "600000000000.0000 REX",
  "namebid_proceeds": "0.0000 EOS",
  "loan_num": 1234
}`

var sampleAccount = domain.Account{
	Name:      "sampler",
	CPUWeight: 10000,
	NetWeight: 10000,
	CPULimit:  domain.ResourceLimit{Used: 100, Available: 400, Max: 500},
	NetLimit:  domain.ResourceLimit{Used: 10, Available: 990, Max: 1000},
}

var eosSymbol = domain.Symbol{Code: "EOS", Precision: 4}

func mockAnyContext() interface{} {
	return mock.Anything
}

func rows(raw ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(raw))
	for _, r := range raw {
		out = append(out, json.RawMessage(r))
	}
	return out
}

func fixedClock(t *testing.T, now time.Time) *mocks.MockClock {
	t.Helper()

	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(now).Maybe()
	return clock
}
