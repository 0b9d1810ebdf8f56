package types_test

import (
	"testing"

	types "github.com/okian/garage/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWeightUnit(t *testing.T) {
	Convey("Given weight unit parsing", t, func() {
		Convey("When parsing pound spellings", func() {
			for _, s := range []string{"", "lb", "LBS", " pounds "} {
				u, err := types.ParseWeightUnit(s)
				So(err, ShouldBeNil)
				So(u, ShouldEqual, types.Pounds)
			}
		})

		Convey("When parsing kilogram spellings", func() {
			for _, s := range []string{"kg", "Kgs", "kilograms"} {
				u, err := types.ParseWeightUnit(s)
				So(err, ShouldBeNil)
				So(u, ShouldEqual, types.Kilograms)
			}
		})

		Convey("When parsing an unknown unit", func() {
			_, err := types.ParseWeightUnit("stone")

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "stone")
			})
		})
	})

	Convey("Given weight conversions", t, func() {
		Convey("Then pounds convert to kilograms", func() {
			So(types.Pounds.ToKilograms(100), ShouldAlmostEqual, 45.359237, 1e-9)
			So(types.Kilograms.ToKilograms(70), ShouldEqual, 70)
		})

		Convey("And kilograms convert to pounds", func() {
			So(types.Kilograms.ToPounds(45.359237), ShouldAlmostEqual, 100, 1e-9)
			So(types.Pounds.ToPounds(180), ShouldEqual, 180)
		})

		Convey("And an empty unit behaves like pounds", func() {
			So(types.WeightUnit("").ToKilograms(100), ShouldAlmostEqual, 45.359237, 1e-9)
		})
	})
}

func TestAccuracy(t *testing.T) {
	Convey("Given accuracy tiers", t, func() {
		Convey("Then Lowest picks the least accurate tier", func() {
			So(types.Lowest(types.AccuracyHigh, types.AccuracyMedium), ShouldEqual, types.AccuracyMedium)
			So(types.Lowest(types.AccuracyHigh, types.AccuracyLow, types.AccuracyMedium), ShouldEqual, types.AccuracyLow)
			So(types.Lowest(types.AccuracyHigh), ShouldEqual, types.AccuracyHigh)
		})

		Convey("And no tiers means low", func() {
			So(types.Lowest(), ShouldEqual, types.AccuracyLow)
		})
	})
}

func TestDiagnostics(t *testing.T) {
	Convey("Given empty diagnostics", t, func() {
		var d types.Diagnostics

		Convey("When finalized without entries", func() {
			d.Finalize()

			Convey("Then both lists are empty but not nil", func() {
				So(d.Notes, ShouldNotBeNil)
				So(d.Warnings, ShouldNotBeNil)
				So(d.Notes, ShouldBeEmpty)
				So(d.Warnings, ShouldBeEmpty)
			})
		})

		Convey("When notes and warnings are added", func() {
			d.Note("width %dmm", 28)
			d.Warn("capped at %d PSI", 72)
			d.Note("second")

			Convey("Then they keep insertion order", func() {
				So(d.Notes, ShouldResemble, []string{"width 28mm", "second"})
				So(d.Warnings, ShouldResemble, []string{"capped at 72 PSI"})
			})
		})

		Convey("When bounds fire", func() {
			d.Clamped(types.ClampMax)
			d.Clamped(types.ClampMin)

			Convey("Then they are recorded apart from the messages", func() {
				So(d.Clamps, ShouldResemble, []types.Clamp{types.ClampMax, types.ClampMin})
				So(d.Notes, ShouldBeEmpty)
			})
		})
	})
}
