package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSymbol = Symbol{Code: "EOS", Precision: 4}

func testResource() PowerUpResource {
	return PowerUpResource{
		Weight:   1_000_000,
		Exponent: 2,
		MinPrice: Asset{Amount: 100, Symbol: testSymbol},
		MaxPrice: Asset{Amount: 10_000, Symbol: testSymbol},
	}
}

func TestPowerUpFeeMinimalRequestAtFullCapacity(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

	fee, err := testResource().Fee(1, NewPricingContext(now, 0))
	require.NoError(t, err)

	assert.Greater(t, fee.Amount, int64(0))
	assert.Less(t, fee.Amount, int64(10_000))
	assert.Equal(t, testSymbol, fee.Symbol)
}

func TestPowerUpFeeIsMonotonicInRequestedTime(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	resource := testResource()
	resource.Weight = 400_000_000_000_000
	resource.Utilization = 120_000_000_000_000
	resource.AdjustedUtilization = 180_000_000_000_000
	resource.UtilizationTimestamp = now.Add(-10 * time.Minute)
	resource.DecaySecs = 3600
	resource.Exponent = 2.5
	resource.MinPrice = Asset{Amount: 1_000_000, Symbol: testSymbol}
	resource.MaxPrice = Asset{Amount: 80_000_000, Symbol: testSymbol}
	pc := NewPricingContext(now, 12.5)

	previous := int64(0)
	for _, ms := range []float64{0, 1, 2, 5, 10, 100, 1_000, 50_000, 1_000_000, 10_000_000} {
		fee, err := resource.Fee(ms, pc)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, fee.Amount, previous, "ms=%v", ms)
		previous = fee.Amount
	}
}

func TestPowerUpFeeRoundsUp(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	resource := testResource()
	resource.Utilization = 250_000
	pc := NewPricingContext(now, 0)

	for _, ms := range []float64{1, 3, 7, 1_000, 123_456} {
		exact := resource.FeeUnits(resource.UtilizationIncrease(ms, pc), resource.AdjustedUtilizationAt(now))
		fee, err := resource.Fee(ms, pc)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, float64(fee.Amount), exact-unitsTolerance*math.Max(1, exact))
		assert.Less(t, float64(fee.Amount)-exact, 1.0)
	}
}

func TestAdjustedUtilizationNoOpWhenEqual(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	resource := testResource()
	resource.Utilization = 5_000
	resource.AdjustedUtilization = 5_000
	resource.UtilizationTimestamp = now.Add(-time.Hour)
	resource.DecaySecs = 3600

	assert.Equal(t, float64(5_000), resource.AdjustedUtilizationAt(now))
}

func TestAdjustedUtilizationDecays(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	resource := testResource()
	resource.Utilization = 1_000
	resource.AdjustedUtilization = 2_000
	resource.DecaySecs = 3600

	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{name: "no time elapsed", elapsed: 0, want: 2_000},
		{name: "one decay constant", elapsed: time.Hour, want: 1_000 + 1_000*math.Exp(-1)},
		{name: "long after", elapsed: 1000 * time.Hour, want: 1_000},
		{name: "timestamp in future clamps", elapsed: -time.Hour, want: 2_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resource := resource
			resource.UtilizationTimestamp = now.Add(-tt.elapsed)
			assert.InDelta(t, tt.want, resource.AdjustedUtilizationAt(now), 1e-6)
		})
	}
}

func TestPowerUpFeeChargesSpotPriceBelowAdjustedUtilization(t *testing.T) {
	resource := testResource()
	resource.Utilization = 100_000
	adjusted := 300_000.0

	// Entire request sits below the adjusted utilization: flat spot price.
	spot := resource.price(adjusted)
	assert.InDelta(t, spot*50_000/1_000_000, resource.FeeUnits(50_000, adjusted), 1e-9)

	// Request crosses the adjusted utilization: flat part plus integral.
	want := spot*200_000/1_000_000 + resource.priceIntegralDelta(300_000, 400_000)
	assert.InDelta(t, want, resource.FeeUnits(300_000, adjusted), 1e-9)
}

func TestPowerUpPriceFlatWhenExponentIsOne(t *testing.T) {
	resource := testResource()
	resource.Exponent = 1

	assert.Equal(t, float64(10_000), resource.price(0))
	assert.Equal(t, float64(10_000), resource.price(500_000))
	assert.InDelta(t, 10_000*0.5, resource.priceIntegralDelta(0, 500_000), 1e-9)
}

func TestPowerUpSpotFeeIsUpperBoundOfIntegralFee(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	resource := testResource()
	resource.Utilization = 400_000
	pc := NewPricingContext(now, 0)

	for _, ms := range []float64{1, 100, 10_000, 1_000_000} {
		fee, err := resource.Fee(ms, pc)
		require.NoError(t, err)
		spot, err := resource.SpotFee(ms, pc)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, spot.Amount, fee.Amount, "ms=%v", ms)
	}
}

func TestPowerUpFeeRejectsUnusablePoolState(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mutate   func(*PowerUpResource)
		shifted  float64
		contains string
	}{
		{name: "zero weight", mutate: func(r *PowerUpResource) { r.Weight = 0 }, contains: "weight"},
		{name: "no capacity", mutate: func(*PowerUpResource) {}, shifted: 100, contains: "capacity"},
		{name: "zero exponent", mutate: func(r *PowerUpResource) { r.Exponent = 0 }, contains: "exponent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resource := testResource()
			tt.mutate(&resource)

			_, err := resource.Fee(1, NewPricingContext(now, tt.shifted))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPoolState))
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}

func TestPricingContextAvailable(t *testing.T) {
	pc := NewPricingContext(time.Time{}, 25)
	assert.InDelta(t, MsPerDay*0.75, pc.Available(), 1e-6)
	assert.Equal(t, float64(34_560_000), MsPerDay)
}

func TestCurrentWeightRatioInterpolates(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	resource := PowerUpResource{
		InitialWeightRatio: 100_000_000_000_000,
		TargetWeightRatio:  900_000_000_000_000,
		InitialTimestamp:   start,
		TargetTimestamp:    start.Add(100 * 24 * time.Hour),
	}

	assert.Equal(t, int64(100_000_000_000_000), resource.CurrentWeightRatio(start.Add(-time.Hour)))
	assert.Equal(t, int64(500_000_000_000_000), resource.CurrentWeightRatio(start.Add(50*24*time.Hour)))
	assert.Equal(t, int64(900_000_000_000_000), resource.CurrentWeightRatio(start.Add(200*24*time.Hour)))

	assert.InDelta(t, 50.0, resource.ShiftedRatio(start.Add(50*24*time.Hour)), 1e-9)
}

func TestShiftedRatioFallsBackToStoredWeightRatio(t *testing.T) {
	resource := PowerUpResource{WeightRatio: 250_000_000_000_000}
	assert.InDelta(t, 25.0, resource.ShiftedRatio(time.Now()), 1e-9)
}

func TestShiftedRatioAfterTransitionLeavesCapacityToPowerUp(t *testing.T) {
	initial := time.Date(2021, 3, 12, 19, 53, 8, 0, time.UTC)
	resource := PowerUpResource{
		WeightRatio:        10_000_000_000_000,
		InitialWeightRatio: 1_000_000_000_000_000,
		TargetWeightRatio:  10_000_000_000_000,
		InitialTimestamp:   initial,
		TargetTimestamp:    initial.Add(120 * 24 * time.Hour),
	}

	assert.InDelta(t, 100.0, resource.ShiftedRatio(initial), 1e-9)

	now := initial.Add(365 * 24 * time.Hour)
	shifted := resource.ShiftedRatio(now)
	assert.InDelta(t, 1.0, shifted, 1e-9)

	pc := NewPricingContext(now, shifted)
	assert.InDelta(t, 0.99*MsPerDay, pc.Available(), 1e-3)
}
