package service

import (
	"github.com/okian/garage/internal/config"
	"github.com/okian/garage/internal/domain/suspension"
	"github.com/okian/garage/internal/domain/tirepressure"
)

// ConfigOptions builds the calculators and pool settings described by cfg.
func ConfigOptions(cfg *config.Config) []Option {
	tires := tirepressure.NewCalculator(
		tirepressure.WithHooklessMaxPSI(cfg.TireHooklessMaxPSI),
		tirepressure.WithMinimumPSI(cfg.TireRoadMinPSI, cfg.TireGravelMinPSI, cfg.TireMTBMinPSI),
		tirepressure.WithFrontLoadShare(cfg.TireFrontLoadShare),
	)
	susp := suspension.NewCalculator(
		suspension.WithMinimumPressure(cfg.SuspensionMinPSI, cfg.SuspensionMinPSIPerKg),
		suspension.WithRebound(cfg.ReboundBaseClicks, cfg.ReboundReferenceLb, cfg.ReboundLbPerClick),
	)
	return []Option{
		WithTireCalculator(tires),
		WithSuspensionCalculator(susp),
		WithWorkerCount(cfg.BatchWorkers),
		WithMaxBatchItems(cfg.BatchMaxItems),
		WithDefaultCadence(cfg.DefaultCadence),
	}
}
