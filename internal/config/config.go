// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Validation and load failures wrap this package's sentinel errors.
package config

import (
	"fmt"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects console or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// BatchWorkers sets how many calculations a batch runs concurrently.
	BatchWorkers int `koanf:"batch_workers"`

	// BatchMaxItems caps the number of inputs in one batch or import.
	BatchMaxItems int `koanf:"batch_max_items"`

	// MaxUploadBytes caps uploaded spreadsheets.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// Tire pressure tuning.
	TireHooklessMaxPSI float64 `koanf:"tire_hookless_max_psi"`
	TireRoadMinPSI     float64 `koanf:"tire_road_min_psi"`
	TireGravelMinPSI   float64 `koanf:"tire_gravel_min_psi"`
	TireMTBMinPSI      float64 `koanf:"tire_mtb_min_psi"`
	TireFrontLoadShare float64 `koanf:"tire_front_load_share"`

	// Suspension tuning.
	SuspensionMinPSI      float64 `koanf:"suspension_min_psi"`
	SuspensionMinPSIPerKg float64 `koanf:"suspension_min_psi_per_kg"`
	ReboundBaseClicks     float64 `koanf:"rebound_base_clicks"`
	ReboundReferenceLb    float64 `koanf:"rebound_reference_lb"`
	ReboundLbPerClick     float64 `koanf:"rebound_lb_per_click"`

	// DefaultCadence is used by gear calculations that omit a cadence.
	DefaultCadence float64 `koanf:"default_cadence"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "console",
		Addr:                  ":9080",
		BatchWorkers:          runtime.NumCPU(),
		BatchMaxItems:         500,
		MaxUploadBytes:        5 << 20,
		TireHooklessMaxPSI:    72,
		TireRoadMinPSI:        30,
		TireGravelMinPSI:      24,
		TireMTBMinPSI:         20,
		TireFrontLoadShare:    0.45,
		SuspensionMinPSI:      40,
		SuspensionMinPSIPerKg: 0.8,
		ReboundBaseClicks:     8,
		ReboundReferenceLb:    160,
		ReboundLbPerClick:     20,
		DefaultCadence:        90,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "console" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be console or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.BatchWorkers <= 0:
		return fmt.Errorf("%w: batch_workers must be positive", ErrInvalidConfig)
	case c.BatchMaxItems <= 0:
		return fmt.Errorf("%w: batch_max_items must be positive", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case c.TireFrontLoadShare <= 0 || c.TireFrontLoadShare >= 1:
		return fmt.Errorf("%w: tire_front_load_share must be between 0 and 1", ErrInvalidConfig)
	case c.DefaultCadence <= 0:
		return fmt.Errorf("%w: default_cadence must be positive", ErrInvalidConfig)
	}

	positive := map[string]float64{
		"tire_hookless_max_psi":     c.TireHooklessMaxPSI,
		"tire_road_min_psi":         c.TireRoadMinPSI,
		"tire_gravel_min_psi":       c.TireGravelMinPSI,
		"tire_mtb_min_psi":          c.TireMTBMinPSI,
		"suspension_min_psi":        c.SuspensionMinPSI,
		"suspension_min_psi_per_kg": c.SuspensionMinPSIPerKg,
		"rebound_base_clicks":       c.ReboundBaseClicks,
		"rebound_reference_lb":      c.ReboundReferenceLb,
		"rebound_lb_per_click":      c.ReboundLbPerClick,
	}
	for _, key := range positiveKeys {
		if positive[key] <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, key)
		}
	}
	for _, key := range []string{"tire_road_min_psi", "tire_gravel_min_psi", "tire_mtb_min_psi"} {
		if c.TireHooklessMaxPSI < positive[key] {
			return fmt.Errorf("%w: tire_hookless_max_psi is below %s", ErrInvalidConfig, key)
		}
	}
	return nil
}

// positiveKeys fixes the order validation errors are reported in.
var positiveKeys = []string{
	"tire_hookless_max_psi",
	"tire_road_min_psi",
	"tire_gravel_min_psi",
	"tire_mtb_min_psi",
	"suspension_min_psi",
	"suspension_min_psi_per_kg",
	"rebound_base_clicks",
	"rebound_reference_lb",
	"rebound_lb_per_click",
}
