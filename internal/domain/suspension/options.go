// Package suspension computes baseline air pressure, sag and damping clicks
// for forks and rear shocks.
package suspension

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithMinimumPressure sets the absolute floor and the per-kilogram floor;
// the effective floor is the larger of floorPSI and weight × perKg.
func WithMinimumPressure(floorPSI, perKg float64) Option {
	return func(c *Calculator) {
		if floorPSI > 0 {
			c.minPSI = floorPSI
		}
		if perKg > 0 {
			c.minPSIPerKg = perKg
		}
	}
}

// WithRebound sets the rebound heuristic: base clicks at referenceLb, one
// click per lbPerClick of rider weight above or below it.
func WithRebound(baseClicks, referenceLb, lbPerClick float64) Option {
	return func(c *Calculator) {
		if baseClicks > 0 {
			c.reboundBase = baseClicks
		}
		if referenceLb > 0 {
			c.reboundReferenceLb = referenceLb
		}
		if lbPerClick > 0 {
			c.reboundLbPerClick = lbPerClick
		}
	}
}
