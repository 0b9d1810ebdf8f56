package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/garage/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.BatchWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.BatchMaxItems, convey.ShouldEqual, 500)
			convey.So(cfg.TireHooklessMaxPSI, convey.ShouldEqual, 72)
			convey.So(cfg.TireFrontLoadShare, convey.ShouldEqual, 0.45)
			convey.So(cfg.SuspensionMinPSI, convey.ShouldEqual, 40)
			convey.So(cfg.DefaultCadence, convey.ShouldEqual, 90)
		})

		convey.Convey("And the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configurations", t, func() {
		cases := map[string]func(*config.Config){
			"addr":                  func(c *config.Config) { c.Addr = "" },
			"log_format":            func(c *config.Config) { c.LogFormat = "xml" },
			"batch_workers":         func(c *config.Config) { c.BatchWorkers = 0 },
			"batch_max_items":       func(c *config.Config) { c.BatchMaxItems = -1 },
			"max_upload_bytes":      func(c *config.Config) { c.MaxUploadBytes = 0 },
			"tire_front_load_share": func(c *config.Config) { c.TireFrontLoadShare = 1 },
			"default_cadence":       func(c *config.Config) { c.DefaultCadence = 0 },
			"tire_mtb_min_psi":      func(c *config.Config) { c.TireMTBMinPSI = 0 },
			"rebound_lb_per_click":  func(c *config.Config) { c.ReboundLbPerClick = -5 },
			"tire_hookless_max_psi": func(c *config.Config) { c.TireHooklessMaxPSI = 25 },
			"tire_gravel_min_psi":   func(c *config.Config) { c.TireGravelMinPSI = 80 },
		}

		for key, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, key)
		}
	})
}

func TestConfig_ValidateHooklessCeiling(t *testing.T) {
	convey.Convey("Given a hookless ceiling below a class floor", t, func() {
		floors := map[string]func(*config.Config){
			"tire_road_min_psi":   func(c *config.Config) { c.TireRoadMinPSI = 75 },
			"tire_gravel_min_psi": func(c *config.Config) { c.TireGravelMinPSI = 75 },
			"tire_mtb_min_psi":    func(c *config.Config) { c.TireMTBMinPSI = 75 },
		}

		for key, mutate := range floors {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldEndWith, "tire_hookless_max_psi is below "+key)
		}
	})

	convey.Convey("Given every floor at the ceiling", t, func() {
		cfg := config.New()
		cfg.TireRoadMinPSI = cfg.TireHooklessMaxPSI
		cfg.TireGravelMinPSI = cfg.TireHooklessMaxPSI
		cfg.TireMTBMinPSI = cfg.TireHooklessMaxPSI

		convey.Convey("Then it validates", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
