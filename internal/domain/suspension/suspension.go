package suspension

import (
	"fmt"
	"math"
	"strconv"

	"github.com/okian/garage/internal/domain/factor"
	"github.com/okian/garage/internal/domain/model"
	"github.com/okian/garage/internal/domain/types"
)

// Model constants.
const (
	// defaultDiameterRatio is used for stanchion or air can sizes missing from the tables.
	defaultDiameterRatio = 1.5
	neutralFactor        = 1.0

	// baselineSagPercent is the sag the ratio tables were calibrated at.
	baselineSagPercent = 25.0

	defaultMinPSI          = 40.0
	defaultMinPSIPerKg     = 0.8
	defaultReboundBase     = 8.0
	defaultReboundRefLb    = 160.0
	defaultReboundLbPerClk = 20.0
	minReboundClicks       = 1
	maxReboundClicks       = 20
)

// Reasons reported with StatusInsufficientInput.
const (
	ReasonNoUnits  = "no fork or shock spec provided"
	ReasonNoWeight = "rider weight must be positive"
)

// Lookup tables. Keys are millimetres; pressure ratios are PSI per kilogram
// of rider weight at 25% sag.
var (
	forkRatios = factor.NewTable(defaultDiameterRatio, map[float64]float64{
		32: 1.10,
		34: 1.00,
		35: 0.97,
		36: 0.92,
		38: 0.88,
		40: 0.85,
	})
	shockRatios = factor.NewTable(defaultDiameterRatio, map[float64]float64{
		8.5:  2.60,
		9.5:  2.45,
		10:   2.40,
		11:   2.30,
		12.5: 2.20,
	})
	travelFactors = factor.NewTable(neutralFactor, map[float64]float64{
		100: 1.05,
		120: 1.02,
		130: 1.00,
		140: 0.97,
		150: 0.95,
		160: 0.93,
		170: 0.91,
		180: 0.90,
		200: 0.88,
	})
	disciplineFactors = factor.NewTable(neutralFactor, map[Discipline]float64{
		DisciplineXC:     1.10,
		DisciplineTrail:  1.00,
		DisciplineEnduro: 0.95,
		DisciplineDH:     0.90,
		DisciplineCasual: 0.95,
	})
	disciplineSag = factor.NewTable(baselineSagPercent, map[Discipline]float64{
		DisciplineXC:     20,
		DisciplineTrail:  25,
		DisciplineEnduro: 30,
		DisciplineDH:     30,
		DisciplineCasual: 22,
	})
	compressionClicks = map[Discipline]int{
		DisciplineXC:     8,
		DisciplineTrail:  5,
		DisciplineEnduro: 6,
		DisciplineDH:     7,
		DisciplineCasual: 3,
	}
	volumeSpacers = map[Discipline]int{
		DisciplineXC:     0,
		DisciplineTrail:  1,
		DisciplineEnduro: 2,
		DisciplineDH:     2,
		DisciplineCasual: 0,
	}
)

// Calculator computes suspension baselines. It is immutable after
// construction and safe for concurrent use.
type Calculator struct {
	minPSI             float64
	minPSIPerKg        float64
	reboundBase        float64
	reboundReferenceLb float64
	reboundLbPerClick  float64
}

// NewCalculator creates a calculator with configuration options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		minPSI:             defaultMinPSI,
		minPSIPerKg:        defaultMinPSIPerKg,
		reboundBase:        defaultReboundBase,
		reboundReferenceLb: defaultReboundRefLb,
		reboundLbPerClick:  defaultReboundLbPerClk,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCalculator = NewCalculator()

// Calculate computes a recommendation with the default constants.
func Calculate(in Input) Recommendation {
	return defaultCalculator.Calculate(in)
}

// MinimumPSI returns the pressure floor for a rider+gear weight in kilograms.
func (c *Calculator) MinimumPSI(weightKg float64) float64 {
	return math.Max(c.minPSI, weightKg*c.minPSIPerKg)
}

// ReboundClicks estimates rebound clicks from closed for a weight in pounds.
func (c *Calculator) ReboundClicks(weightLb float64) int {
	clicks := c.reboundBase + (weightLb-c.reboundReferenceLb)/c.reboundLbPerClick
	return int(factor.Clamp(math.Round(clicks), minReboundClicks, maxReboundClicks))
}

// Calculate computes a baseline for every unit present in in.
func (c *Calculator) Calculate(in Input) Recommendation {
	if in.Fork == nil && in.Shock == nil {
		return insufficient(ReasonNoUnits, "Add a fork or shock spec to get a suspension baseline")
	}
	total := in.RiderWeight + in.GearWeight
	if total <= 0 {
		return insufficient(ReasonNoWeight, "Enter rider and gear weight to get a suspension baseline")
	}

	var diag types.Diagnostics
	weightKg := in.Unit.ToKilograms(total)
	weightLb := in.Unit.ToPounds(total)

	if _, ok := disciplineFactors.Lookup(in.Discipline); !ok && in.Discipline != "" {
		diag.Note("Unknown discipline %q; using neutral factor %s", in.Discipline, format(neutralFactor))
	}

	rec := Recommendation{Status: StatusOK}
	var tiers []types.Accuracy
	if in.Fork != nil {
		s := c.setup(*in.Fork, model.KindFork, weightKg, weightLb, in.Discipline, in.TargetSagPercent)
		rec.Fork = &s
		tiers = append(tiers, s.Accuracy)
	}
	if in.Shock != nil {
		s := c.setup(*in.Shock, model.KindShock, weightKg, weightLb, in.Discipline, in.TargetSagPercent)
		rec.Shock = &s
		tiers = append(tiers, s.Accuracy)
	}
	rec.Accuracy = types.Lowest(tiers...)

	diag.Finalize()
	rec.Notes = diag.Notes
	return rec
}

func insufficient(reason, note string) Recommendation {
	return Recommendation{
		Status:   StatusInsufficientInput,
		Reason:   reason,
		Accuracy: types.AccuracyLow,
		Notes:    []string{note},
	}
}

func (c *Calculator) setup(spec model.SuspensionSpec, kind model.SpecKind, weightKg, weightLb float64, d Discipline, sagOverride *float64) Setup {
	var diag types.Diagnostics
	if spec.Kind != "" {
		kind = spec.Kind
	}
	name := spec.Name()
	if name == "" {
		name = string(kind)
	}

	ratios := forkRatios
	sizeLabel := "stanchion"
	if kind == model.KindShock {
		ratios = shockRatios
		sizeLabel = "air can"
	}

	ratio, diameterKnown := ratios.Lookup(spec.StanchionMM)
	travel, travelKnown := travelFactors.Lookup(spec.TravelMM)
	discipline := disciplineFactors.Value(d)

	sag := disciplineSag.Value(d)
	if sagOverride != nil && *sagOverride > 0 {
		sag = *sagOverride
	}

	diag.Note("%s: %smm %s, %smm travel", name, format(spec.StanchionMM), sizeLabel, format(spec.TravelMM))
	diag.Note("Target sag %s%% (%smm × %s%% = %smm)",
		format(sag), format(spec.TravelMM), format(sag), format(spec.TravelMM*sag/100))
	if stock := spec.RecommendedSagPercent; stock > 0 && factor.Round(stock, 1) != factor.Round(sag, 1) {
		diag.Note("Manufacturer recommends %s%% sag (%smm); start there if you prefer the stock feel",
			format(stock), format(spec.TravelMM*stock/100))
	}

	out := Setup{
		Unit:             name,
		Kind:             kind,
		TargetSagPercent: factor.Round(sag, 1),
		TargetSagMM:      factor.Round(spec.TravelMM*sag/100, 1),
		ReboundClicks:    c.ReboundClicks(weightLb),
	}
	if clicks, ok := compressionClicks[d]; ok {
		out.CompressionClicks = &clicks
	}

	if spec.IsCoil() {
		diag.Note("Coil spring: choose a spring rate that gives %s%% sag; air pressure does not apply", format(sag))
		out.Accuracy = types.AccuracyLow
		if travelKnown {
			out.Accuracy = types.AccuracyMedium
		}
		diag.Finalize()
		out.Notes = diag.Notes
		return out
	}

	if !diameterKnown {
		diag.Note("No pressure ratio for %smm %s; using default %s", format(spec.StanchionMM), sizeLabel, format(ratio))
	}
	if !travelKnown {
		diag.Note("No travel factor for %smm; using %s", format(spec.TravelMM), format(travel))
	}

	psi := weightKg * ratio * travel * discipline
	psi *= baselineSagPercent / sag

	// The manufacturer maximum is a hard ceiling and wins over the floor.
	var hit bool
	floor := c.MinimumPSI(weightKg)
	ceiling := spec.MaxPressurePSI
	switch {
	case ceiling > 0 && floor > ceiling:
		psi = ceiling
		diag.Note("Rider weight is above this unit's range: the %s PSI minimum exceeds the manufacturer maximum, so pressure is held at %s PSI",
			format(math.Round(floor)), format(ceiling))
		diag.Clamped(types.ClampMax)
	default:
		if ceiling > 0 {
			if psi, hit = factor.ClampMax(psi, ceiling); hit {
				diag.Note("Pressure capped at manufacturer maximum %s PSI", format(ceiling))
				diag.Clamped(types.ClampMax)
			}
		}
		if psi, hit = factor.ClampMin(psi, floor); hit {
			diag.Note("Pressure raised to %s PSI minimum", format(math.Round(floor)))
			diag.Clamped(types.ClampMin)
		}
	}

	if spec.Curve == model.CurveProgressive {
		diag.Note("Progressive air spring ramps up late in the stroke; add volume spacers only if you bottom out")
	}

	if spacers, ok := volumeSpacers[d]; ok {
		if spec.Curve == model.CurveProgressive {
			spacers--
		}
		spacers = max(spacers, 0)
		out.VolumeSpacers = &spacers
	}

	out.AirPressurePSI = factor.RoundInt(psi)
	out.Accuracy = accuracy(spec, diameterKnown, travelKnown)
	diag.Finalize()
	out.Notes = diag.Notes
	out.Clamps = diag.Clamps
	return out
}

func accuracy(spec model.SuspensionSpec, diameterKnown, travelKnown bool) types.Accuracy {
	switch {
	case spec.VolumeCC > 0 && spec.PressureChart:
		return types.AccuracyHigh
	case diameterKnown && travelKnown:
		return types.AccuracyMedium
	default:
		return types.AccuracyLow
	}
}

func format(v float64) string {
	return strconv.FormatFloat(factor.Round(v, 1), 'f', -1, 64)
}

// DefaultSag returns the target sag percent for a discipline.
func DefaultSag(d Discipline) float64 {
	return disciplineSag.Value(d)
}

// String implements fmt.Stringer.
func (s Setup) String() string {
	if s.AirPressurePSI == 0 {
		return fmt.Sprintf("%s: %s%% sag, %d rebound clicks", s.Unit, format(s.TargetSagPercent), s.ReboundClicks)
	}
	return fmt.Sprintf("%s: %d PSI, %s%% sag, %d rebound clicks", s.Unit, s.AirPressurePSI, format(s.TargetSagPercent), s.ReboundClicks)
}
