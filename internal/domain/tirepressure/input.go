package tirepressure

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/garage/internal/domain/types"
)

// Wheel is the wheel diameter class.
type Wheel string

// Wheel classes.
const (
	Wheel700c Wheel = "700c"
	Wheel650b Wheel = "650b"
	Wheel29er Wheel = "29er"
)

// Casing describes how supple the tire carcass is.
type Casing string

// Casing qualities.
const (
	CasingStandard    Casing = "standard"
	CasingSupple      Casing = "supple"
	CasingUltraSupple Casing = "ultra-supple"
)

// Surface is the roughness of the riding surface, smoothest first.
type Surface string

// Surface roughness levels.
const (
	SurfacePavement      Surface = "pavement"
	SurfaceRoughPavement Surface = "rough-pavement"
	SurfaceGravel        Surface = "gravel"
	SurfaceRoughGravel   Surface = "rough-gravel"
	SurfaceSingletrack   Surface = "singletrack"
)

// Mount is the tire mounting type.
type Mount string

// Mounting types.
const (
	MountTubeType Mount = "tubetype"
	MountTubeless Mount = "tubeless"
)

// Class is the rim-strike floor class derived from wheel and tire width.
type Class string

// Wheel classes used for the minimum pressure floor.
const (
	ClassRoad   Class = "road"
	ClassGravel Class = "gravel"
	ClassMTB    Class = "mtb"
)

// Sentinel kinds for input validation.
var (
	ErrInvalidWeight = errors.New("invalid weight")
	ErrInvalidWidth  = errors.New("invalid width")
	ErrUnknownOption = errors.New("unknown option")
)

// Input combines the rider load and tire setup for one bike.
type Input struct {
	RiderWeight float64          `json:"rider_weight"`
	BikeWeight  float64          `json:"bike_weight"`
	Unit        types.WeightUnit `json:"unit"`
	TireWidthMM float64          `json:"tire_width_mm"`
	RimWidthMM  float64          `json:"rim_width_mm"`
	Wheel       Wheel            `json:"wheel"`
	Casing      Casing           `json:"casing"`
	Surface     Surface          `json:"surface"`
	Mount       Mount            `json:"mount"`
	Hookless    bool             `json:"hookless"`
}

// Validate reports inputs the calculator would silently default. The
// calculator itself never rejects input; adapters call Validate first.
func (in Input) Validate() error {
	switch {
	case !finite(in.RiderWeight) || !finite(in.BikeWeight):
		return fmt.Errorf("%w: weights must be finite numbers", ErrInvalidWeight)
	case !finite(in.TireWidthMM) || !finite(in.RimWidthMM):
		return fmt.Errorf("%w: widths must be finite numbers", ErrInvalidWidth)
	case in.RiderWeight < 0 || in.BikeWeight < 0 || in.RiderWeight+in.BikeWeight <= 0:
		return fmt.Errorf("%w: total weight must be positive", ErrInvalidWeight)
	case in.TireWidthMM <= 0:
		return fmt.Errorf("%w: tire width must be positive", ErrInvalidWidth)
	case in.RimWidthMM <= 0:
		return fmt.Errorf("%w: rim width must be positive", ErrInvalidWidth)
	}
	if in.Unit != "" && in.Unit != types.Pounds && in.Unit != types.Kilograms {
		return fmt.Errorf("%w: unit %q", ErrUnknownOption, in.Unit)
	}
	if in.Wheel != "" && !knownWheel(in.Wheel) {
		return fmt.Errorf("%w: wheel %q", ErrUnknownOption, in.Wheel)
	}
	if _, ok := casingFactors.Lookup(in.Casing); in.Casing != "" && !ok {
		return fmt.Errorf("%w: casing %q", ErrUnknownOption, in.Casing)
	}
	if _, ok := surfaceFactors.Lookup(in.Surface); in.Surface != "" && !ok {
		return fmt.Errorf("%w: surface %q", ErrUnknownOption, in.Surface)
	}
	if _, ok := mountFactors.Lookup(in.Mount); in.Mount != "" && !ok {
		return fmt.Errorf("%w: mount %q", ErrUnknownOption, in.Mount)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func knownWheel(w Wheel) bool {
	switch w {
	case Wheel700c, Wheel650b, Wheel29er:
		return true
	}
	return false
}

// Result is the pressure recommendation for one bike.
type Result struct {
	FrontPSI         int     `json:"front_psi"`
	RearPSI          int     `json:"rear_psi"`
	FrontBar         float64 `json:"front_bar"`
	RearBar          float64 `json:"rear_bar"`
	EffectiveWidthMM float64 `json:"effective_width_mm"`
	Class            Class   `json:"class"`
	types.Diagnostics
}
