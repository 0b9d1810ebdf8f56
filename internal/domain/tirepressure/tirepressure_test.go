package tirepressure_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/garage/internal/domain/tirepressure"
	"github.com/okian/garage/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func roadTubeless() tirepressure.Input {
	return tirepressure.Input{
		RiderWeight: 165,
		BikeWeight:  19,
		Unit:        types.Pounds,
		TireWidthMM: 28,
		RimWidthMM:  21,
		Wheel:       tirepressure.Wheel700c,
		Casing:      tirepressure.CasingStandard,
		Surface:     tirepressure.SurfacePavement,
		Mount:       tirepressure.MountTubeless,
	}
}

func TestCalculate_RoadTubeless(t *testing.T) {
	Convey("Given a 165 lb rider on 28mm tubeless road tires", t, func() {
		in := roadTubeless()

		Convey("When calculating pressure", func() {
			res := tirepressure.Calculate(in)

			Convey("Then both wheels land in the plausible range without clamps", func() {
				So(res.FrontPSI, ShouldBeBetweenOrEqual, 24, 60)
				So(res.RearPSI, ShouldBeBetweenOrEqual, 24, 60)
				So(res.Warnings, ShouldBeEmpty)
			})

			Convey("And the rear runs higher than the front", func() {
				So(res.FrontPSI, ShouldEqual, 47)
				So(res.RearPSI, ShouldEqual, 57)
			})

			Convey("And the effective width derivation is noted", func() {
				So(res.EffectiveWidthMM, ShouldEqual, 28.8)
				So(res.Notes[0], ShouldEqual, "Effective tire width 28.8mm (28mm tire on 21mm internal rim)")
			})

			Convey("And the tubeless adjustment is explained", func() {
				So(res.Notes, ShouldContain, "Tubeless: no pinch flats, so pressure can run 10% lower")
			})

			Convey("And bar values are derived from PSI", func() {
				So(res.FrontBar, ShouldAlmostEqual, 3.21, 0.01)
				So(res.RearBar, ShouldAlmostEqual, 3.92, 0.01)
			})

			Convey("And the wheel is classed as road", func() {
				So(res.Class, ShouldEqual, tirepressure.ClassRoad)
			})
		})

		Convey("When the same load is given in kilograms", func() {
			in.Unit = types.Kilograms
			in.RiderWeight = 165 * 0.45359237
			in.BikeWeight = 19 * 0.45359237
			res := tirepressure.Calculate(in)

			Convey("Then the result matches the pound input", func() {
				lb := tirepressure.Calculate(roadTubeless())
				So(res.FrontPSI, ShouldEqual, lb.FrontPSI)
				So(res.RearPSI, ShouldEqual, lb.RearPSI)
			})
		})
	})
}

func TestCalculate_Hookless(t *testing.T) {
	Convey("Given a heavy rider on narrow tires and hookless rims", t, func() {
		in := tirepressure.Input{
			RiderWeight: 250,
			BikeWeight:  20,
			TireWidthMM: 23,
			RimWidthMM:  17,
			Wheel:       tirepressure.Wheel700c,
			Casing:      tirepressure.CasingStandard,
			Surface:     tirepressure.SurfacePavement,
			Mount:       tirepressure.MountTubeType,
			Hookless:    true,
		}

		Convey("When calculating pressure", func() {
			res := tirepressure.Calculate(in)

			Convey("Then both wheels are capped at exactly 72 PSI", func() {
				So(res.FrontPSI, ShouldEqual, 72)
				So(res.RearPSI, ShouldEqual, 72)
				So(res.FrontBar, ShouldEqual, 4.96)
			})

			Convey("And one warning names each clamped wheel", func() {
				So(res.Warnings, ShouldHaveLength, 2)
				So(res.Warnings[0], ShouldContainSubstring, "Front")
				So(res.Warnings[1], ShouldContainSubstring, "Rear")
				So(res.Warnings[0], ShouldContainSubstring, "72 PSI")
			})

			Convey("And each clamp is recorded as a ceiling", func() {
				So(res.Clamps, ShouldResemble, []types.Clamp{types.ClampMax, types.ClampMax})
			})
		})

		Convey("When the rim has hooks", func() {
			in.Hookless = false
			res := tirepressure.Calculate(in)

			Convey("Then no ceiling applies", func() {
				So(res.FrontPSI, ShouldBeGreaterThan, 72)
				So(res.RearPSI, ShouldBeGreaterThan, 72)
				So(res.Warnings, ShouldBeEmpty)
				So(res.Clamps, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a setup where only the rear exceeds the hookless ceiling", t, func() {
		in := tirepressure.Input{
			RiderWeight: 165,
			BikeWeight:  19,
			TireWidthMM: 25,
			RimWidthMM:  19,
			Wheel:       tirepressure.Wheel700c,
			Mount:       tirepressure.MountTubeType,
			Hookless:    true,
		}

		Convey("When calculating pressure", func() {
			res := tirepressure.Calculate(in)

			Convey("Then only the rear is clamped and warned about", func() {
				So(res.FrontPSI, ShouldEqual, 60)
				So(res.RearPSI, ShouldEqual, 72)
				So(res.Warnings, ShouldResemble, []string{"Rear pressure capped at 72 PSI (hookless rim limit)"})
			})
		})
	})
}

func TestCalculate_MinimumFloor(t *testing.T) {
	Convey("Given a light rider on wide tubeless MTB tires on singletrack", t, func() {
		in := tirepressure.Input{
			RiderWeight: 150,
			BikeWeight:  20,
			TireWidthMM: 60,
			RimWidthMM:  30,
			Wheel:       tirepressure.Wheel29er,
			Casing:      tirepressure.CasingStandard,
			Surface:     tirepressure.SurfaceSingletrack,
			Mount:       tirepressure.MountTubeless,
		}

		Convey("When calculating pressure", func() {
			res := tirepressure.Calculate(in)

			Convey("Then both wheels are raised to the MTB floor", func() {
				So(res.Class, ShouldEqual, tirepressure.ClassMTB)
				So(res.FrontPSI, ShouldEqual, 20)
				So(res.RearPSI, ShouldEqual, 20)
			})

			Convey("And each raise produces a warning", func() {
				So(res.Warnings, ShouldResemble, []string{
					"Front pressure raised to 20 PSI minimum to avoid rim strikes",
					"Rear pressure raised to 20 PSI minimum to avoid rim strikes",
				})
			})

			Convey("And the surface adjustment is explained", func() {
				So(res.Notes, ShouldContain, "Rougher surface: 20% lower pressure cuts vibration losses")
			})
		})

		Convey("When a custom floor is configured", func() {
			calc := tirepressure.NewCalculator(tirepressure.WithMinimumPSI(0, 0, 22))
			res := calc.Calculate(in)

			Convey("Then the configured floor is used", func() {
				So(res.FrontPSI, ShouldEqual, 22)
				So(calc.MinimumPSI(tirepressure.ClassRoad), ShouldEqual, 30)
			})
		})
	})
}

func TestCalculate_Factors(t *testing.T) {
	Convey("Given the same load on different casings", t, func() {
		in := roadTubeless()
		standard := tirepressure.Calculate(in)
		in.Casing = tirepressure.CasingUltraSupple
		supple := tirepressure.Calculate(in)

		Convey("Then the supple casing runs lower and says why", func() {
			So(supple.RearPSI, ShouldBeLessThan, standard.RearPSI)
			So(supple.Notes, ShouldContain, "Supple casing deforms more easily, so it needs 8% less pressure")
		})
	})

	Convey("Given unknown enum values", t, func() {
		in := roadTubeless()
		known := tirepressure.Calculate(in)
		in.Casing = "paper"
		in.Surface = "ice"

		Convey("When calculating", func() {
			res := tirepressure.Calculate(in)

			Convey("Then neutral factors are used rather than zero", func() {
				So(res.FrontPSI, ShouldEqual, known.FrontPSI)
				So(res.RearPSI, ShouldEqual, known.RearPSI)
			})
		})
	})

	Convey("Given a custom front load share", t, func() {
		calc := tirepressure.NewCalculator(tirepressure.WithFrontLoadShare(0.5), tirepressure.WithFrontLoadShare(2))
		res := calc.Calculate(roadTubeless())

		Convey("Then front and rear carry the same pressure", func() {
			So(res.FrontPSI, ShouldEqual, res.RearPSI)
		})
	})
}

func TestCalculate_Properties(t *testing.T) {
	Convey("Given a sweep of rider weights", t, func() {
		calc := tirepressure.NewCalculator()
		in := roadTubeless()
		in.Hookless = true

		Convey("Then pressure never decreases as weight rises and stays inside the bounds", func() {
			prevFront, prevRear := 0, 0
			for w := 80.0; w <= 320; w += 5 {
				in.RiderWeight = w
				res := calc.Calculate(in)
				So(res.FrontPSI, ShouldBeGreaterThanOrEqualTo, prevFront)
				So(res.RearPSI, ShouldBeGreaterThanOrEqualTo, prevRear)
				So(res.FrontPSI, ShouldBeBetweenOrEqual, 30, 72)
				So(res.RearPSI, ShouldBeBetweenOrEqual, 30, 72)
				prevFront, prevRear = res.FrontPSI, res.RearPSI
			}
		})

		Convey("And identical inputs give identical results", func() {
			So(calc.Calculate(in), ShouldResemble, calc.Calculate(in))
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given wheel classes", t, func() {
		So(tirepressure.Classify(tirepressure.Wheel700c, 28), ShouldEqual, tirepressure.ClassRoad)
		So(tirepressure.Classify(tirepressure.Wheel700c, 32), ShouldEqual, tirepressure.ClassRoad)
		So(tirepressure.Classify(tirepressure.Wheel700c, 40), ShouldEqual, tirepressure.ClassGravel)
		So(tirepressure.Classify(tirepressure.Wheel650b, 47), ShouldEqual, tirepressure.ClassGravel)
		So(tirepressure.Classify(tirepressure.Wheel650b, 60), ShouldEqual, tirepressure.ClassMTB)
		So(tirepressure.Classify(tirepressure.Wheel29er, 40), ShouldEqual, tirepressure.ClassMTB)
	})
}

func TestEffectiveWidth(t *testing.T) {
	Convey("Given rim widths around the 19mm baseline", t, func() {
		So(tirepressure.EffectiveWidth(28, 19), ShouldEqual, 28)
		So(tirepressure.EffectiveWidth(28, 21), ShouldAlmostEqual, 28.8, 1e-9)
		So(tirepressure.EffectiveWidth(28, 15), ShouldAlmostEqual, 26.4, 1e-9)
		So(tirepressure.EffectiveWidth(10, -100), ShouldEqual, 5)
	})
}

func TestInput_Validate(t *testing.T) {
	Convey("Given input validation", t, func() {
		Convey("Then a complete input is valid", func() {
			So(roadTubeless().Validate(), ShouldBeNil)
		})

		Convey("And zero weight is rejected", func() {
			in := roadTubeless()
			in.RiderWeight, in.BikeWeight = 0, 0
			So(errors.Is(in.Validate(), tirepressure.ErrInvalidWeight), ShouldBeTrue)
		})

		Convey("And non-positive widths are rejected", func() {
			in := roadTubeless()
			in.RimWidthMM = 0
			So(errors.Is(in.Validate(), tirepressure.ErrInvalidWidth), ShouldBeTrue)
		})

		Convey("And non-finite weights are rejected", func() {
			for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				in := roadTubeless()
				in.RiderWeight = v
				So(errors.Is(in.Validate(), tirepressure.ErrInvalidWeight), ShouldBeTrue)
			}
		})

		Convey("And non-finite widths are rejected", func() {
			in := roadTubeless()
			in.TireWidthMM = math.NaN()
			So(errors.Is(in.Validate(), tirepressure.ErrInvalidWidth), ShouldBeTrue)

			in = roadTubeless()
			in.RimWidthMM = math.Inf(1)
			So(errors.Is(in.Validate(), tirepressure.ErrInvalidWidth), ShouldBeTrue)
		})

		Convey("And unknown enum values are rejected", func() {
			in := roadTubeless()
			in.Surface = "ice"
			err := in.Validate()
			So(errors.Is(err, tirepressure.ErrUnknownOption), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "ice")
		})
	})
}
