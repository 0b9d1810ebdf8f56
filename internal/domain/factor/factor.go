// Package factor holds the read-only lookup tables, clamps and rounding
// helpers shared by the setup calculators.
package factor

import (
	"math"

	"github.com/shopspring/decimal"
)

// Unit conversion constants.
const (
	KilogramsPerPound = 0.45359237
	PSIPerBar         = 14.5038
	MMPerInch         = 25.4
	KMPerMile         = 1.609344
)

// Table maps a key to a multiplicative factor with an explicit fallback for
// unmapped keys. Tables are built once and never mutated, so concurrent
// reads need no locking.
type Table[K comparable] struct {
	entries  map[K]float64
	fallback float64
}

// NewTable copies entries into a new Table. fallback is returned for keys
// that are not present.
func NewTable[K comparable](fallback float64, entries map[K]float64) Table[K] {
	copied := make(map[K]float64, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return Table[K]{entries: copied, fallback: fallback}
}

// Lookup returns the factor for key and whether the key was present.
func (t Table[K]) Lookup(key K) (float64, bool) {
	v, ok := t.entries[key]
	if !ok {
		return t.fallback, false
	}
	return v, true
}

// Value returns the factor for key, or the fallback.
func (t Table[K]) Value(key K) float64 {
	v, _ := t.Lookup(key)
	return v
}

// Fallback returns the documented default for unmapped keys.
func (t Table[K]) Fallback() float64 { return t.fallback }

// Len returns the number of mapped keys.
func (t Table[K]) Len() int { return len(t.entries) }

// ClampMax caps v at upper. It reports whether v was lowered.
func ClampMax(v, upper float64) (float64, bool) {
	if v > upper {
		return upper, true
	}
	return v, false
}

// ClampMin raises v to lower. It reports whether v was raised.
func ClampMin(v, lower float64) (float64, bool) {
	if v < lower {
		return lower, true
	}
	return v, false
}

// Clamp bounds v to [lower, upper].
func Clamp(v, lower, upper float64) float64 {
	return math.Max(lower, math.Min(upper, v))
}

// Round rounds v half away from zero to places decimal places.
// Decimal arithmetic keeps values such as 4.545 from drifting to 4.54.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// RoundInt rounds v half away from zero to an int.
func RoundInt(v float64) int {
	return int(math.Round(v))
}

// PercentChange returns (to-from)/from as a percentage, or 0 when from is 0.
func PercentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
