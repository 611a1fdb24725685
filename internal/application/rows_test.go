package application

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePowerUpState(t *testing.T) {
	t.Parallel()

	state, err := decodePowerUpState(json.RawMessage(powerUpRowFixture))
	require.NoError(t, err)

	cpu := state.CPU
	assert.Equal(t, int64(1_000_000_000_000), cpu.Weight)
	assert.Equal(t, int64(10_000_000_000_000), cpu.WeightRatio)
	assert.Equal(t, int64(500_000_000_000), cpu.Utilization)
	assert.Equal(t, int64(600_000_000_000), cpu.AdjustedUtilization)
	assert.Equal(t, 2.0, cpu.Exponent)
	assert.Equal(t, uint32(86400), cpu.DecaySecs)
	assert.Equal(t, int64(50_000_000_000), cpu.MaxPrice.Amount)
	assert.Equal(t, "EOS", cpu.MaxPrice.Symbol.Code)
	assert.Equal(t, time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC), cpu.UtilizationTimestamp)
	assert.Equal(t, time.Date(2021, 7, 10, 19, 53, 8, 0, time.UTC), cpu.TargetTimestamp)
	assert.Equal(t, uint32(1), state.PowerUpDays)
	assert.Equal(t, int64(1), state.MinPowerUpFee.Amount)
	assert.Equal(t, int64(100_000_000_000), state.NET.Utilization)
}

func TestDecodePowerUpStateRejectsMalformedRows(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"not json":      `{"version":`,
		"missing cpu":   `{"version":0,"net":{}}`,
		"bad max price": `{"net":{"max_price":"lots"},"cpu":{}}`,
	}

	for name, row := range tests {
		_, err := decodePowerUpState(json.RawMessage(row))
		assert.Error(t, err, name)
	}
}

func TestDecodePowerUpStateRejectsBadTimestamps(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"garbled utilization timestamp": strings.Replace(powerUpRowFixture,
			`"utilization_timestamp": "2026-02-14T10:00:00.000"`, `"utilization_timestamp": "yesterday"`, 1),
		"missing utilization timestamp": strings.Replace(powerUpRowFixture,
			`"utilization_timestamp": "2026-02-14T10:00:00.000"`, `"utilization_timestamp": ""`, 1),
		"garbled target timestamp": strings.Replace(powerUpRowFixture,
			`"target_timestamp": "2021-07-10T19:53:08.000"`, `"target_timestamp": "2021-13-40"`, 1),
	}

	for name, row := range tests {
		require.NotEqual(t, powerUpRowFixture, row, name)
		_, err := decodePowerUpState(json.RawMessage(row))
		assert.ErrorIs(t, err, ErrMalformedRow, name)
	}
}

func TestDecodeREXState(t *testing.T) {
	t.Parallel()

	state, err := decodeREXState(json.RawMessage(rexRowFixture))
	require.NoError(t, err)

	assert.Equal(t, int64(500_000_000_000), state.TotalLent.Amount)
	assert.Equal(t, int64(100_000_000_000), state.TotalUnlent.Amount)
	assert.Equal(t, int64(200_000_000), state.TotalRent.Amount)
	assert.Equal(t, "REX", state.TotalRex.Symbol.Code)
	assert.Equal(t, uint64(1234), state.LoanNum)
}

func TestDecodeDatapointsSkipsRowsWithoutValue(t *testing.T) {
	t.Parallel()

	values := decodeDatapoints(rows(`{"value":"12000"}`, `{"owner":"x"}`, `{"value":11000}`))
	assert.Equal(t, []uint64{12000, 11000}, values)
}
