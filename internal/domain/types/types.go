// Package types contains common types used across the calculators.
package types

import (
	"fmt"
	"strings"

	"github.com/okian/garage/internal/domain/factor"
)

// WeightUnit selects how rider and equipment weights are expressed.
type WeightUnit string

// Supported weight units.
const (
	Pounds    WeightUnit = "lb"
	Kilograms WeightUnit = "kg"
)

// ParseWeightUnit accepts lb/lbs/pounds and kg/kgs/kilograms. Empty input means pounds.
func ParseWeightUnit(s string) (WeightUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lb", "lbs", "pounds":
		return Pounds, nil
	case "kg", "kgs", "kilograms":
		return Kilograms, nil
	default:
		return "", fmt.Errorf("unknown weight unit: %s", s)
	}
}

// ToKilograms converts w expressed in u to kilograms. Anything other than
// Kilograms is treated as pounds.
func (u WeightUnit) ToKilograms(w float64) float64 {
	if u == Kilograms {
		return w
	}
	return w * factor.KilogramsPerPound
}

// ToPounds converts w expressed in u to pounds.
func (u WeightUnit) ToPounds(w float64) float64 {
	if u == Kilograms {
		return w / factor.KilogramsPerPound
	}
	return w
}

// Accuracy reflects how much real component data backed a recommendation.
type Accuracy string

// Accuracy tiers, best first.
const (
	AccuracyHigh   Accuracy = "high"
	AccuracyMedium Accuracy = "medium"
	AccuracyLow    Accuracy = "low"
)

func (a Accuracy) rank() int {
	switch a {
	case AccuracyHigh:
		return 2
	case AccuracyMedium:
		return 1
	default:
		return 0
	}
}

// Lowest returns the least accurate of the given tiers, or AccuracyLow when empty.
func Lowest(tiers ...Accuracy) Accuracy {
	if len(tiers) == 0 {
		return AccuracyLow
	}
	low := tiers[0]
	for _, t := range tiers[1:] {
		if t.rank() < low.rank() {
			low = t
		}
	}
	if low.rank() == 0 {
		return AccuracyLow
	}
	return low
}

// Clamp names the bound a calculated value was held to.
type Clamp string

// Clamp bounds.
const (
	ClampMax Clamp = "max"
	ClampMin Clamp = "min"
)

// Diagnostics collects the human-readable notes and warnings attached to a
// calculation. Notes are informational; warnings mean a safety clamp fired.
// Clamps records every bound that fired, independent of the message text.
type Diagnostics struct {
	Notes    []string `json:"notes"`
	Warnings []string `json:"warnings"`
	Clamps   []Clamp  `json:"-"`
}

// Clamped records that a bound fired.
func (d *Diagnostics) Clamped(c Clamp) {
	d.Clamps = append(d.Clamps, c)
}

// Note appends a formatted note.
func (d *Diagnostics) Note(format string, args ...any) {
	d.Notes = append(d.Notes, fmt.Sprintf(format, args...))
}

// Warn appends a formatted warning.
func (d *Diagnostics) Warn(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// Finalize replaces nil slices with empty ones so results encode as [] rather than null.
func (d *Diagnostics) Finalize() {
	if d.Notes == nil {
		d.Notes = []string{}
	}
	if d.Warnings == nil {
		d.Warnings = []string{}
	}
}
