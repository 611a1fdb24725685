package domain

import (
	"sort"
	"time"
)

// OracleQuoteScale is the fixed-point scale of oracle datapoint values.
const OracleQuoteScale = 10_000

type PricePoint struct {
	Pair      string    `json:"pair"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// MedianPrice returns the median of raw oracle values, scaled to a price.
func MedianPrice(values []uint64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := append([]uint64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid]) / OracleQuoteScale, true
	}

	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2 / OracleQuoteScale, true
}
