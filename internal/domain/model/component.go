// Package model contains component records passed between layers.
package model

import "strings"

// SpecKind says whether a suspension spec describes a fork or a rear shock.
type SpecKind string

// Suspension unit kinds.
const (
	KindFork  SpecKind = "fork"
	KindShock SpecKind = "shock"
)

// SpringCurve classifies how spring force grows through the stroke.
type SpringCurve string

// Spring curve classes.
const (
	CurveLinear      SpringCurve = "linear"
	CurveProgressive SpringCurve = "progressive"
	CurveDigressive  SpringCurve = "digressive"
	CurveCoil        SpringCurve = "coil"
)

// SuspensionSpec describes a fork or shock as published by its manufacturer.
// Brand and Model identify the part for lookup only; they never change the math.
type SuspensionSpec struct {
	Brand    string   `json:"brand"`
	Model    string   `json:"model"`
	Kind     SpecKind `json:"kind"`
	TravelMM float64  `json:"travel_mm"`
	// StanchionMM is the stanchion diameter for forks and the air can
	// diameter for shocks.
	StanchionMM float64 `json:"stanchion_mm"`
	// VolumeCC is 0 when unknown.
	VolumeCC float64 `json:"volume_cc"`
	// MaxPressurePSI is a hard ceiling; 0 for coil units.
	MaxPressurePSI        float64     `json:"max_pressure_psi"`
	RecommendedSagPercent float64     `json:"recommended_sag"`
	Curve                 SpringCurve `json:"curve"`
	// PressureChart is set when the manufacturer publishes a pressure chart.
	PressureChart bool `json:"pressure_chart"`
}

// IsCoil reports whether the unit is sprung by a coil, in which case air
// pressure does not apply.
func (s SuspensionSpec) IsCoil() bool {
	return s.Curve == CurveCoil
}

// Name returns "Brand Model", trimmed.
func (s SuspensionSpec) Name() string {
	return strings.TrimSpace(s.Brand + " " + s.Model)
}

// Drivetrain describes the parts checked for shifting compatibility.
type Drivetrain struct {
	ShifterSpeeds       int `json:"shifter_speeds"`
	DerailleurSpeeds    int `json:"derailleur_speeds"`
	CassetteSpeeds      int `json:"cassette_speeds"`
	ChainSpeeds         int `json:"chain_speeds"`
	CassetteSmallestCog int `json:"cassette_smallest_cog"`
	CassetteLargestCog  int `json:"cassette_largest_cog"`
	DerailleurMaxCog    int `json:"derailleur_max_cog"`
	// DerailleurCapacity is the total teeth the cage can wrap; 0 when unknown.
	DerailleurCapacity int `json:"derailleur_capacity"`
	ChainringLargest   int `json:"chainring_largest"`
	ChainringSmallest  int `json:"chainring_smallest"`
}
