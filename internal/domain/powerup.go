package domain

import (
	"fmt"
	"math"
	"time"
)

type PowerUpResource struct {
	Version              uint8     `json:"version"`
	Weight               int64     `json:"weight"`
	WeightRatio          int64     `json:"weight_ratio"`
	AssumedStakeWeight   int64     `json:"assumed_stake_weight"`
	InitialWeightRatio   int64     `json:"initial_weight_ratio"`
	TargetWeightRatio    int64     `json:"target_weight_ratio"`
	InitialTimestamp     time.Time `json:"initial_timestamp"`
	TargetTimestamp      time.Time `json:"target_timestamp"`
	Exponent             float64   `json:"exponent"`
	DecaySecs            uint32    `json:"decay_secs"`
	MinPrice             Asset     `json:"min_price"`
	MaxPrice             Asset     `json:"max_price"`
	Utilization          int64     `json:"utilization"`
	AdjustedUtilization  int64     `json:"adjusted_utilization"`
	UtilizationTimestamp time.Time `json:"utilization_timestamp"`
}

type PowerUpState struct {
	Version       uint8           `json:"version"`
	NET           PowerUpResource `json:"net"`
	CPU           PowerUpResource `json:"cpu"`
	PowerUpDays   uint32          `json:"powerup_days"`
	MinPowerUpFee Asset           `json:"min_powerup_fee"`
}

// PricingContext carries the inputs a quote depends on besides the pool
// snapshot itself.
type PricingContext struct {
	Now time.Time
	// ShiftedRatio is the percentage of network capacity still outside the
	// PowerUp market.
	ShiftedRatio float64
	MsPerDay     float64
}

func NewPricingContext(now time.Time, shiftedRatio float64) PricingContext {
	return PricingContext{Now: now, ShiftedRatio: shiftedRatio, MsPerDay: MsPerDay}
}

// Available is the daily CPU time, in ms, rentable through PowerUp.
func (c PricingContext) Available() float64 {
	return c.MsPerDay * (1 - c.ShiftedRatio/100)
}

// AdjustedUtilizationAt decays the adjusted utilization from its last
// on-chain update towards the instantaneous utilization.
func (r PowerUpResource) AdjustedUtilizationAt(now time.Time) float64 {
	utilization := float64(r.Utilization)
	if r.Utilization >= r.AdjustedUtilization || r.DecaySecs == 0 {
		return utilization
	}

	diff := float64(r.AdjustedUtilization - r.Utilization)
	elapsed := float64(now.Unix() - r.UtilizationTimestamp.Unix())
	delta := diff * math.Exp(-elapsed/float64(r.DecaySecs))
	delta = math.Min(math.Max(delta, 0), diff)

	return utilization + delta
}

// UtilizationIncrease converts a CPU request into weight units.
func (r PowerUpResource) UtilizationIncrease(msToRent float64, pc PricingContext) float64 {
	return msToRent / pc.Available() * float64(r.Weight)
}

// price returns p(u) for an absolute utilization.
func (r PowerUpResource) price(utilization float64) float64 {
	minPrice := float64(r.MinPrice.Amount)
	maxPrice := float64(r.MaxPrice.Amount)

	exponent := r.Exponent - 1
	if exponent <= 0 {
		return maxPrice
	}

	return minPrice + (maxPrice-minPrice)*math.Pow(utilization/float64(r.Weight), exponent)
}

// priceIntegralDelta integrates p over [start, end] in absolute
// utilization, normalised by weight.
func (r PowerUpResource) priceIntegralDelta(start, end float64) float64 {
	minPrice := float64(r.MinPrice.Amount)
	coefficient := (float64(r.MaxPrice.Amount) - minPrice) / r.Exponent
	startU := start / float64(r.Weight)
	endU := end / float64(r.Weight)

	return minPrice*endU - minPrice*startU +
		coefficient*math.Pow(endU, r.Exponent) - coefficient*math.Pow(startU, r.Exponent)
}

// FeeUnits is the exact fee, in smallest units, for adding
// utilizationIncrease on top of the current utilization given the decayed
// adjusted utilization. The part of the range below the adjusted
// utilization is charged at its spot price.
func (r PowerUpResource) FeeUnits(utilizationIncrease, adjustedUtilization float64) float64 {
	if utilizationIncrease <= 0 {
		return 0
	}

	fee := 0.0
	start := float64(r.Utilization)
	end := start + utilizationIncrease

	if start < adjustedUtilization {
		fee += r.price(adjustedUtilization) *
			math.Min(utilizationIncrease, adjustedUtilization-start) / float64(r.Weight)
		start = adjustedUtilization
	}

	if start < end {
		fee += r.priceIntegralDelta(start, end)
	}

	return fee
}

// SpotFeeUnits evaluates the curve once at the post-rental utilization
// and charges the whole request at that price.
func (r PowerUpResource) SpotFeeUnits(utilizationIncrease, adjustedUtilization float64) float64 {
	if utilizationIncrease <= 0 {
		return 0
	}

	end := math.Max(float64(r.Utilization), adjustedUtilization) + utilizationIncrease
	return r.price(end) * utilizationIncrease / float64(r.Weight)
}

func (r PowerUpResource) validate(pc PricingContext) error {
	if r.Weight <= 0 {
		return fmt.Errorf("%w: weight is %d", ErrInvalidPoolState, r.Weight)
	}
	if pc.Available() <= 0 {
		return fmt.Errorf("%w: no capacity available (shifted ratio %.2f)", ErrInvalidPoolState, pc.ShiftedRatio)
	}
	if r.Exponent <= 0 {
		return fmt.Errorf("%w: exponent %v", ErrInvalidPoolState, r.Exponent)
	}
	return nil
}

// Fee prices msToRent milliseconds of CPU against this snapshot.
func (r PowerUpResource) Fee(msToRent float64, pc PricingContext) (Asset, error) {
	if err := r.validate(pc); err != nil {
		return Asset{}, err
	}

	units := r.FeeUnits(r.UtilizationIncrease(msToRent, pc), r.AdjustedUtilizationAt(pc.Now))
	return AssetFromUnits(units, r.MaxPrice.Symbol), nil
}

func (r PowerUpResource) SpotFee(msToRent float64, pc PricingContext) (Asset, error) {
	if err := r.validate(pc); err != nil {
		return Asset{}, err
	}

	units := r.SpotFeeUnits(r.UtilizationIncrease(msToRent, pc), r.AdjustedUtilizationAt(pc.Now))
	return AssetFromUnits(units, r.MaxPrice.Symbol), nil
}

// CurrentWeightRatio interpolates the weight ratio linearly between the
// initial and target timestamps.
func (r PowerUpResource) CurrentWeightRatio(now time.Time) int64 {
	if !now.After(r.InitialTimestamp) {
		return r.InitialWeightRatio
	}
	if !now.Before(r.TargetTimestamp) {
		return r.TargetWeightRatio
	}

	span := float64(r.TargetTimestamp.Unix() - r.InitialTimestamp.Unix())
	elapsed := float64(now.Unix() - r.InitialTimestamp.Unix())
	delta := float64(r.TargetWeightRatio-r.InitialWeightRatio) * elapsed / span

	return r.InitialWeightRatio + int64(delta)
}

// ShiftedRatio is the percentage of capacity not yet moved into the
// PowerUp market at now. weight_ratio is assumed_stake_weight over
// assumed_stake_weight + weight, scaled by PowerUpFrac, so it falls as
// capacity moves into PowerUp.
func (r PowerUpResource) ShiftedRatio(now time.Time) float64 {
	if r.InitialTimestamp.IsZero() && r.TargetTimestamp.IsZero() {
		return float64(r.WeightRatio) / PowerUpFrac * 100
	}
	return float64(r.CurrentWeightRatio(now)) / PowerUpFrac * 100
}

// UtilizationRatio is the share of the market currently rented.
func (r PowerUpResource) UtilizationRatio() float64 {
	if r.Weight <= 0 {
		return 0
	}
	return float64(r.Utilization) / float64(r.Weight)
}
