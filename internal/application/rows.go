package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/tidwall/gjson"
)

const nodeTimeLayout = "2006-01-02T15:04:05.999"

// ErrMalformedRow marks a table row that could not be decoded.
var ErrMalformedRow = errors.New("malformed table row")

func decodePowerUpState(row json.RawMessage) (domain.PowerUpState, error) {
	if !gjson.ValidBytes(row) {
		return domain.PowerUpState{}, fmt.Errorf("%w: powerup state is not json", ErrMalformedRow)
	}
	res := gjson.ParseBytes(row)

	net, err := decodePowerUpResource(res.Get("net"))
	if err != nil {
		return domain.PowerUpState{}, fmt.Errorf("decode powerup net: %w", err)
	}
	cpu, err := decodePowerUpResource(res.Get("cpu"))
	if err != nil {
		return domain.PowerUpState{}, fmt.Errorf("decode powerup cpu: %w", err)
	}
	minFee, err := decodeAsset(res.Get("min_powerup_fee"))
	if err != nil {
		return domain.PowerUpState{}, fmt.Errorf("decode powerup min fee: %w", err)
	}

	return domain.PowerUpState{
		Version:       uint8(res.Get("version").Uint()),
		NET:           net,
		CPU:           cpu,
		PowerUpDays:   uint32(res.Get("powerup_days").Uint()),
		MinPowerUpFee: minFee,
	}, nil
}

func decodePowerUpResource(res gjson.Result) (domain.PowerUpResource, error) {
	if !res.IsObject() {
		return domain.PowerUpResource{}, fmt.Errorf("%w: resource is not an object", ErrMalformedRow)
	}

	minPrice, err := decodeAsset(res.Get("min_price"))
	if err != nil {
		return domain.PowerUpResource{}, err
	}
	maxPrice, err := decodeAsset(res.Get("max_price"))
	if err != nil {
		return domain.PowerUpResource{}, err
	}
	initial, err := decodeTime(res, "initial_timestamp")
	if err != nil {
		return domain.PowerUpResource{}, err
	}
	target, err := decodeTime(res, "target_timestamp")
	if err != nil {
		return domain.PowerUpResource{}, err
	}
	// The decay of adjusted utilization is measured from this timestamp.
	utilizationAt, err := decodeTime(res, "utilization_timestamp")
	if err != nil {
		return domain.PowerUpResource{}, err
	}
	if utilizationAt.IsZero() {
		return domain.PowerUpResource{}, fmt.Errorf("%w: utilization_timestamp is missing", ErrMalformedRow)
	}

	return domain.PowerUpResource{
		Version:              uint8(res.Get("version").Uint()),
		Weight:               res.Get("weight").Int(),
		WeightRatio:          res.Get("weight_ratio").Int(),
		AssumedStakeWeight:   res.Get("assumed_stake_weight").Int(),
		InitialWeightRatio:   res.Get("initial_weight_ratio").Int(),
		TargetWeightRatio:    res.Get("target_weight_ratio").Int(),
		InitialTimestamp:     initial,
		TargetTimestamp:      target,
		Exponent:             res.Get("exponent").Float(),
		DecaySecs:            uint32(res.Get("decay_secs").Uint()),
		MinPrice:             minPrice,
		MaxPrice:             maxPrice,
		Utilization:          res.Get("utilization").Int(),
		AdjustedUtilization:  res.Get("adjusted_utilization").Int(),
		UtilizationTimestamp: utilizationAt,
	}, nil
}

func decodeREXState(row json.RawMessage) (domain.REXState, error) {
	if !gjson.ValidBytes(row) {
		return domain.REXState{}, fmt.Errorf("%w: rex pool is not json", ErrMalformedRow)
	}
	res := gjson.ParseBytes(row)

	state := domain.REXState{
		Version: uint8(res.Get("version").Uint()),
		LoanNum: res.Get("loan_num").Uint(),
	}
	fields := []struct {
		path string
		dst  *domain.Asset
	}{
		{"total_lent", &state.TotalLent},
		{"total_unlent", &state.TotalUnlent},
		{"total_rent", &state.TotalRent},
		{"total_lendable", &state.TotalLendable},
		{"total_rex", &state.TotalRex},
		{"namebid_proceeds", &state.NamebidProceeds},
	}
	for _, field := range fields {
		asset, err := decodeAsset(res.Get(field.path))
		if err != nil {
			return domain.REXState{}, fmt.Errorf("decode rex %s: %w", field.path, err)
		}
		*field.dst = asset
	}

	return state, nil
}

// decodeDatapoints extracts the raw oracle values of a datapoints table.
func decodeDatapoints(rows []json.RawMessage) []uint64 {
	values := make([]uint64, 0, len(rows))
	for _, row := range rows {
		value := gjson.GetBytes(row, "value")
		if !value.Exists() {
			continue
		}
		values = append(values, value.Uint())
	}
	return values
}

func decodeAsset(res gjson.Result) (domain.Asset, error) {
	if !res.Exists() || res.String() == "" {
		return domain.Asset{}, nil
	}
	return domain.ParseAsset(res.String())
}

// decodeTime reads a node timestamp. A missing field is the zero time; a
// present field that does not parse is a malformed row.
func decodeTime(res gjson.Result, path string) (time.Time, error) {
	raw := strings.TrimSuffix(res.Get(path).String(), "Z")
	if raw == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(nodeTimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q", ErrMalformedRow, path, raw)
	}
	return parsed.UTC(), nil
}
