package model

import "strings"

// catalog lists published specs for common units. Values come from
// manufacturer setup guides; it is read-only after init.
var catalog = []SuspensionSpec{
	{Brand: "Fox", Model: "32 Step-Cast", Kind: KindFork, TravelMM: 100, StanchionMM: 32, MaxPressurePSI: 120, RecommendedSagPercent: 15, Curve: CurveLinear, PressureChart: true},
	{Brand: "Fox", Model: "34", Kind: KindFork, TravelMM: 140, StanchionMM: 34, VolumeCC: 260, MaxPressurePSI: 140, RecommendedSagPercent: 20, Curve: CurveProgressive, PressureChart: true},
	{Brand: "Fox", Model: "36", Kind: KindFork, TravelMM: 160, StanchionMM: 36, VolumeCC: 300, MaxPressurePSI: 140, RecommendedSagPercent: 20, Curve: CurveProgressive, PressureChart: true},
	{Brand: "Fox", Model: "38", Kind: KindFork, TravelMM: 170, StanchionMM: 38, VolumeCC: 330, MaxPressurePSI: 140, RecommendedSagPercent: 20, Curve: CurveProgressive, PressureChart: true},
	{Brand: "Fox", Model: "40", Kind: KindFork, TravelMM: 200, StanchionMM: 40, MaxPressurePSI: 130, RecommendedSagPercent: 20, Curve: CurveLinear, PressureChart: true},
	{Brand: "RockShox", Model: "SID", Kind: KindFork, TravelMM: 120, StanchionMM: 35, MaxPressurePSI: 140, RecommendedSagPercent: 15, Curve: CurveLinear, PressureChart: true},
	{Brand: "RockShox", Model: "Pike", Kind: KindFork, TravelMM: 140, StanchionMM: 35, MaxPressurePSI: 160, RecommendedSagPercent: 20, Curve: CurveProgressive, PressureChart: true},
	{Brand: "RockShox", Model: "Lyrik", Kind: KindFork, TravelMM: 160, StanchionMM: 35, MaxPressurePSI: 160, RecommendedSagPercent: 20, Curve: CurveProgressive, PressureChart: true},
	{Brand: "RockShox", Model: "ZEB", Kind: KindFork, TravelMM: 170, StanchionMM: 38, MaxPressurePSI: 160, RecommendedSagPercent: 20, Curve: CurveProgressive, PressureChart: true},
	{Brand: "Fox", Model: "Float DPS", Kind: KindShock, TravelMM: 130, StanchionMM: 9.5, MaxPressurePSI: 350, RecommendedSagPercent: 25, Curve: CurveProgressive, PressureChart: true},
	{Brand: "Fox", Model: "Float X", Kind: KindShock, TravelMM: 150, StanchionMM: 11, VolumeCC: 190, MaxPressurePSI: 350, RecommendedSagPercent: 30, Curve: CurveLinear, PressureChart: true},
	{Brand: "RockShox", Model: "Super Deluxe", Kind: KindShock, TravelMM: 150, StanchionMM: 10, MaxPressurePSI: 325, RecommendedSagPercent: 30, Curve: CurveLinear, PressureChart: true},
	{Brand: "RockShox", Model: "Super Deluxe Coil", Kind: KindShock, TravelMM: 160, StanchionMM: 0, Curve: CurveCoil},
	{Brand: "Fox", Model: "DHX2", Kind: KindShock, TravelMM: 200, StanchionMM: 0, Curve: CurveCoil},
}

// LookupSuspension finds a catalog spec by brand and model, ignoring case
// and surrounding whitespace.
func LookupSuspension(brand, modelName string) (SuspensionSpec, bool) {
	b := strings.TrimSpace(brand)
	m := strings.TrimSpace(modelName)
	for _, s := range catalog {
		if strings.EqualFold(s.Brand, b) && strings.EqualFold(s.Model, m) {
			return s, true
		}
	}
	return SuspensionSpec{}, false
}

// Catalog returns a copy of the known specs.
func Catalog() []SuspensionSpec {
	out := make([]SuspensionSpec, len(catalog))
	copy(out, catalog)
	return out
}
