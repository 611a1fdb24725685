package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Symbol struct {
	Code      string
	Precision uint8
}

// ParseSymbol accepts the "4,EOS" form used by table rows.
func ParseSymbol(raw string) (Symbol, error) {
	precision, code, ok := strings.Cut(strings.TrimSpace(raw), ",")
	if !ok {
		return Symbol{}, fmt.Errorf("%w: symbol %q", ErrInvalidAsset, raw)
	}

	p, err := strconv.ParseUint(strings.TrimSpace(precision), 10, 8)
	if err != nil {
		return Symbol{}, fmt.Errorf("%w: symbol precision %q", ErrInvalidAsset, raw)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return Symbol{}, fmt.Errorf("%w: symbol code is empty", ErrInvalidAsset)
	}

	return Symbol{Code: strings.ToUpper(code), Precision: uint8(p)}, nil
}

func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.Precision, s.Code)
}

// Unit returns the number of smallest units in one whole token.
func (s Symbol) Unit() float64 {
	return math.Pow10(int(s.Precision))
}

// Asset is an amount in the smallest indivisible unit of its symbol.
type Asset struct {
	Amount int64
	Symbol Symbol
}

func ParseAsset(raw string) (Asset, error) {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAsset, raw)
	}

	amount, err := decimal.NewFromString(fields[0])
	if err != nil {
		return Asset{}, fmt.Errorf("%w: amount %q: %v", ErrInvalidAsset, fields[0], err)
	}

	precision := 0
	if _, fraction, ok := strings.Cut(fields[0], "."); ok {
		precision = len(fraction)
	}
	if precision > 18 {
		return Asset{}, fmt.Errorf("%w: precision %d out of range", ErrInvalidAsset, precision)
	}

	units := amount.Shift(int32(precision))
	if !units.IsInteger() {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAsset, raw)
	}

	return Asset{
		Amount: units.IntPart(),
		Symbol: Symbol{Code: fields[1], Precision: uint8(precision)},
	}, nil
}

// unitsTolerance is the relative distance from an integer below which a
// float is treated as that integer before rounding up.
const unitsTolerance = 1e-9

// AssetFromUnits rounds a real-valued amount of smallest units up, so a
// computed charge never ends below its exact value. Values within float
// noise of an integer keep that integer.
func AssetFromUnits(units float64, symbol Symbol) Asset {
	if nearest := math.Round(units); math.Abs(units-nearest) <= unitsTolerance*math.Max(1, math.Abs(nearest)) {
		units = nearest
	}
	return Asset{Amount: int64(math.Ceil(units)), Symbol: symbol}
}

// AssetFromTokens is AssetFromUnits for an amount in whole tokens.
func AssetFromTokens(tokens float64, symbol Symbol) Asset {
	return AssetFromUnits(tokens*symbol.Unit(), symbol)
}

func (a Asset) Decimal() decimal.Decimal {
	return decimal.New(a.Amount, -int32(a.Symbol.Precision))
}

func (a Asset) Float() float64 {
	return a.Decimal().InexactFloat64()
}

func (a Asset) IsZero() bool {
	return a.Amount == 0 && a.Symbol.Code == ""
}

func (a Asset) String() string {
	if a.IsZero() {
		return ""
	}
	return a.Decimal().StringFixed(int32(a.Symbol.Precision)) + " " + a.Symbol.Code
}

func (a Asset) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Asset) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	if raw == "" {
		*a = Asset{}
		return nil
	}

	parsed, err := ParseAsset(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
