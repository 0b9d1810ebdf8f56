package tirepressure

import (
	"math"
	"strconv"

	"github.com/okian/garage/internal/domain/factor"
	"github.com/okian/garage/internal/domain/types"
)

// Model constants.
const (
	// dropConstant yields a 15% tire drop for a wheel load in kilograms-force
	// over an effective width in inches.
	dropConstant = 1.56

	// baselineRimMM is the internal rim width tire makers measure on.
	baselineRimMM = 19.0
	// rimGrowthPerMM is how much a mounted tire widens per mm of rim above the baseline.
	rimGrowthPerMM = 0.4
	// minWidthShare keeps very narrow rims from collapsing the effective width.
	minWidthShare = 0.5

	defaultFrontShare     = 0.45
	defaultHooklessMaxPSI = 72.0
	defaultRoadMinPSI     = 30.0
	defaultGravelMinPSI   = 24.0
	defaultMTBMinPSI      = 20.0

	roadMaxWidthMM = 32.0
	mtbMinWidthMM  = 50.0
)

// Adjustment tables. Unknown keys fall back to the neutral factor 1.0.
var (
	casingFactors = factor.NewTable(1.0, map[Casing]float64{
		CasingStandard:    1.00,
		CasingSupple:      0.95,
		CasingUltraSupple: 0.92,
	})
	surfaceFactors = factor.NewTable(1.0, map[Surface]float64{
		SurfacePavement:      1.00,
		SurfaceRoughPavement: 0.95,
		SurfaceGravel:        0.90,
		SurfaceRoughGravel:   0.85,
		SurfaceSingletrack:   0.80,
	})
	mountFactors = factor.NewTable(1.0, map[Mount]float64{
		MountTubeType: 1.00,
		MountTubeless: 0.90,
	})
)

// Calculator computes tire pressures. A Calculator is immutable after
// construction and safe for concurrent use.
type Calculator struct {
	frontShare     float64
	hooklessMaxPSI float64
	minPSI         map[Class]float64
}

// NewCalculator creates a calculator with configuration options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		frontShare:     defaultFrontShare,
		hooklessMaxPSI: defaultHooklessMaxPSI,
		minPSI: map[Class]float64{
			ClassRoad:   defaultRoadMinPSI,
			ClassGravel: defaultGravelMinPSI,
			ClassMTB:    defaultMTBMinPSI,
		},
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

var defaultCalculator = NewCalculator()

// Calculate computes pressures with the default constants.
func Calculate(in Input) Result {
	return defaultCalculator.Calculate(in)
}

// HooklessMaxPSI returns the configured hookless ceiling.
func (c *Calculator) HooklessMaxPSI() float64 { return c.hooklessMaxPSI }

// MinimumPSI returns the rim-strike floor for a wheel class.
func (c *Calculator) MinimumPSI(class Class) float64 { return c.minPSI[class] }

// Calculate computes front and rear pressure for in. Arithmetic stays in
// floating point; values are rounded once, on the way out.
func (c *Calculator) Calculate(in Input) Result {
	var diag types.Diagnostics

	totalKg := in.Unit.ToKilograms(in.RiderWeight + in.BikeWeight)
	frontKg := totalKg * c.frontShare
	rearKg := totalKg * (1 - c.frontShare)

	width := EffectiveWidth(in.TireWidthMM, in.RimWidthMM)
	diag.Note("Effective tire width %smm (%smm tire on %smm internal rim)",
		trim(width), trim(in.TireWidthMM), trim(in.RimWidthMM))

	adjust := casingFactors.Value(in.Casing) *
		surfaceFactors.Value(in.Surface) *
		mountFactors.Value(in.Mount)

	front := basePressure(frontKg, width) * adjust
	rear := basePressure(rearKg, width) * adjust

	if in.Hookless {
		var capped bool
		if front, capped = factor.ClampMax(front, c.hooklessMaxPSI); capped {
			diag.Warn("Front pressure capped at %s PSI (hookless rim limit)", trim(c.hooklessMaxPSI))
			diag.Clamped(types.ClampMax)
		}
		if rear, capped = factor.ClampMax(rear, c.hooklessMaxPSI); capped {
			diag.Warn("Rear pressure capped at %s PSI (hookless rim limit)", trim(c.hooklessMaxPSI))
			diag.Clamped(types.ClampMax)
		}
	}

	class := Classify(in.Wheel, in.TireWidthMM)
	floor := c.minPSI[class]
	var raised bool
	if front, raised = factor.ClampMin(front, floor); raised {
		diag.Warn("Front pressure raised to %s PSI minimum to avoid rim strikes", trim(floor))
		diag.Clamped(types.ClampMin)
	}
	if rear, raised = factor.ClampMin(rear, floor); raised {
		diag.Warn("Rear pressure raised to %s PSI minimum to avoid rim strikes", trim(floor))
		diag.Clamped(types.ClampMin)
	}

	if f := casingFactors.Value(in.Casing); f < 1 {
		diag.Note("Supple casing deforms more easily, so it needs %d%% less pressure", percentBelow(f))
	}
	if f := surfaceFactors.Value(in.Surface); f < 1 {
		diag.Note("Rougher surface: %d%% lower pressure cuts vibration losses", percentBelow(f))
	}
	if in.Mount == MountTubeless {
		diag.Note("Tubeless: no pinch flats, so pressure can run %d%% lower", percentBelow(mountFactors.Value(MountTubeless)))
	}

	diag.Finalize()
	return Result{
		FrontPSI:         factor.RoundInt(front),
		RearPSI:          factor.RoundInt(rear),
		FrontBar:         factor.Round(front/factor.PSIPerBar, 2),
		RearBar:          factor.Round(rear/factor.PSIPerBar, 2),
		EffectiveWidthMM: factor.Round(width, 1),
		Class:            class,
		Diagnostics:      diag,
	}
}

// EffectiveWidth returns the mounted tire width for a nominal tire on a rim
// with the given internal width.
func EffectiveWidth(tireMM, rimMM float64) float64 {
	w := tireMM + (rimMM-baselineRimMM)*rimGrowthPerMM
	return math.Max(w, tireMM*minWidthShare)
}

// Classify picks the rim-strike floor class. 29er wheels and anything 50mm
// or wider are MTB; 700c up to 32mm is road; everything else is gravel.
func Classify(wheel Wheel, tireMM float64) Class {
	switch {
	case wheel == Wheel29er || tireMM >= mtbMinWidthMM:
		return ClassMTB
	case wheel == Wheel700c && tireMM <= roadMaxWidthMM:
		return ClassRoad
	default:
		return ClassGravel
	}
}

func basePressure(loadKg, widthMM float64) float64 {
	if widthMM <= 0 {
		return 0
	}
	return dropConstant * loadKg / (widthMM / factor.MMPerInch)
}

func percentBelow(f float64) int {
	return factor.RoundInt((1 - f) * 100)
}

// trim formats v with at most one decimal place and no trailing zero.
func trim(v float64) string {
	return strconv.FormatFloat(factor.Round(v, 1), 'f', -1, 64)
}
