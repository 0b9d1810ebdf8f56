// Package tirepressure turns rider load and tire geometry into front and rear pressures.
package tirepressure

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithHooklessMaxPSI sets the ceiling applied to hookless rims.
func WithHooklessMaxPSI(psi float64) Option {
	return func(c *Calculator) {
		if psi > 0 {
			c.hooklessMaxPSI = psi
		}
	}
}

// WithMinimumPSI sets the rim-strike floors per wheel class. Non-positive
// values keep the defaults.
func WithMinimumPSI(road, gravel, mtb float64) Option {
	return func(c *Calculator) {
		if road > 0 {
			c.minPSI[ClassRoad] = road
		}
		if gravel > 0 {
			c.minPSI[ClassGravel] = gravel
		}
		if mtb > 0 {
			c.minPSI[ClassMTB] = mtb
		}
	}
}

// WithFrontLoadShare sets the fraction of total weight carried by the front
// wheel. Values outside (0, 1) are ignored.
func WithFrontLoadShare(share float64) Option {
	return func(c *Calculator) {
		if share > 0 && share < 1 {
			c.frontShare = share
		}
	}
}
