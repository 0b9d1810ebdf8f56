// Package gearing turns chainring and cog counts into ratios, road speeds
// and before/after comparisons between two drivetrains.
package gearing

import (
	"cmp"
	"math"
	"slices"

	"github.com/okian/garage/internal/domain/factor"
)

const (
	// DefaultCircumferenceMM is a 700x25c road wheel, used when a setup has
	// no circumference.
	DefaultCircumferenceMM = 2105.0
	// DefaultCadence is the cadence speeds are quoted at when none is given.
	DefaultCadence = 90.0

	defaultBSD = 622.0
)

// bead seat diameters in millimetres, keyed by wheel size.
var beadSeats = factor.NewTable(defaultBSD, map[string]float64{
	"700c": 622,
	"29er": 622,
	"650b": 584,
	"26":   559,
})

// Setup is one drivetrain: the chainrings, the cassette cogs and the rolling
// circumference of the driven wheel.
type Setup struct {
	Chainrings           []int   `json:"chainrings"`
	Cogs                 []int   `json:"cogs"`
	WheelCircumferenceMM float64 `json:"wheel_circumference_mm"`
}

// GearRatio is one chainring/cog pairing. Gear numbers run from 1 (easiest)
// to n (hardest).
type GearRatio struct {
	Gear         int     `json:"gear"`
	Chainring    int     `json:"chainring"`
	Cog          int     `json:"cog"`
	Ratio        float64 `json:"ratio"`
	SpeedKPH     float64 `json:"speed_kph"`
	SpeedMPH     float64 `json:"speed_mph"`
	GearInches   float64 `json:"gear_inches"`
	DevelopmentM float64 `json:"development_m"`
}

// Comparison describes how a proposed setup differs from the current one.
// Positive EasiestGearImprovement means easier climbing; positive
// TopSpeedChange means a taller top gear.
type Comparison struct {
	EasiestGearImprovement float64 `json:"easiest_gear_improvement"`
	TopSpeedChange         float64 `json:"top_speed_change"`
	CurrentRange           float64 `json:"current_range"`
	ProposedRange          float64 `json:"proposed_range"`
	RangeChange            float64 `json:"range_change"`
}

// Circumference estimates rolling circumference in millimetres from the wheel
// size and tire width. Unknown wheel sizes use the 622mm bead seat.
func Circumference(wheel string, tireWidthMM float64) float64 {
	bsd := beadSeats.Value(wheel)
	return factor.Round(math.Pi*(bsd+2*math.Max(tireWidthMM, 0)), 0)
}

// Calculate returns every chainring/cog pairing ordered from easiest to
// hardest. Non-positive tooth counts are ignored; an empty chainring or cog
// list yields an empty slice. A non-positive cadence falls back to
// DefaultCadence.
func Calculate(setup Setup, cadence float64) []GearRatio {
	rings := teeth(setup.Chainrings)
	cogs := teeth(setup.Cogs)
	if len(rings) == 0 || len(cogs) == 0 {
		return []GearRatio{}
	}
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	circumference := setup.circumference()

	slices.SortFunc(rings, func(a, b int) int { return cmp.Compare(b, a) })
	slices.Sort(cogs)

	type pair struct {
		ring, cog int
		ratio     float64
	}
	pairs := make([]pair, 0, len(rings)*len(cogs))
	for _, r := range rings {
		for _, c := range cogs {
			pairs = append(pairs, pair{ring: r, cog: c, ratio: float64(r) / float64(c)})
		}
	}
	slices.SortStableFunc(pairs, func(a, b pair) int { return cmp.Compare(a.ratio, b.ratio) })

	meters := circumference / 1000
	diameterIn := circumference / math.Pi / factor.MMPerInch

	out := make([]GearRatio, len(pairs))
	for i, p := range pairs {
		kph := meters * p.ratio * cadence * 60 / 1000
		out[i] = GearRatio{
			Gear:         i + 1,
			Chainring:    p.ring,
			Cog:          p.cog,
			Ratio:        factor.Round(p.ratio, 2),
			SpeedKPH:     factor.Round(kph, 1),
			SpeedMPH:     factor.Round(kph/factor.KMPerMile, 1),
			GearInches:   factor.Round(diameterIn*p.ratio, 1),
			DevelopmentM: factor.Round(meters*p.ratio, 2),
		}
	}
	return out
}

// Compare reports the climbing, top-speed and range deltas from current to
// proposed. If either setup has no usable gears the zero Comparison is
// returned.
func Compare(current, proposed Setup) Comparison {
	curEasy, curHard, ok := current.extremes()
	if !ok {
		return Comparison{}
	}
	propEasy, propHard, ok := proposed.extremes()
	if !ok {
		return Comparison{}
	}

	curRange := curHard / curEasy
	propRange := propHard / propEasy
	return Comparison{
		EasiestGearImprovement: factor.Round((curEasy-propEasy)/curEasy*100, 1),
		TopSpeedChange:         factor.Round(factor.PercentChange(curHard, propHard), 1),
		CurrentRange:           factor.Round(curRange, 2),
		ProposedRange:          factor.Round(propRange, 2),
		RangeChange:            factor.Round(factor.PercentChange(curRange, propRange), 1),
	}
}

// extremes returns the easiest and hardest raw ratios.
func (s Setup) extremes() (easiest, hardest float64, ok bool) {
	rings := teeth(s.Chainrings)
	cogs := teeth(s.Cogs)
	if len(rings) == 0 || len(cogs) == 0 {
		return 0, 0, false
	}
	easiest = float64(slices.Min(rings)) / float64(slices.Max(cogs))
	hardest = float64(slices.Max(rings)) / float64(slices.Min(cogs))
	return easiest, hardest, true
}

func (s Setup) circumference() float64 {
	if s.WheelCircumferenceMM > 0 {
		return s.WheelCircumferenceMM
	}
	return DefaultCircumferenceMM
}

// teeth returns a copy of counts without non-positive entries.
func teeth(counts []int) []int {
	out := make([]int, 0, len(counts))
	for _, n := range counts {
		if n > 0 {
			out = append(out, n)
		}
	}
	return out
}
