package factor_test

import (
	"math"
	"testing"

	"github.com/okian/garage/internal/domain/factor"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTable(t *testing.T) {
	Convey("Given a factor table with a documented fallback", t, func() {
		entries := map[string]float64{"supple": 0.95}
		table := factor.NewTable(1.0, entries)

		Convey("When looking up a mapped key", func() {
			v, ok := table.Lookup("supple")

			Convey("Then the mapped factor is returned", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 0.95)
			})
		})

		Convey("When looking up an unmapped key", func() {
			v, ok := table.Lookup("paper-thin")

			Convey("Then the fallback is returned, never zero", func() {
				So(ok, ShouldBeFalse)
				So(v, ShouldEqual, 1.0)
				So(table.Value("paper-thin"), ShouldEqual, table.Fallback())
			})
		})

		Convey("When the source map is mutated after construction", func() {
			entries["supple"] = 0.5
			entries["new"] = 2

			Convey("Then the table is unaffected", func() {
				So(table.Value("supple"), ShouldEqual, 0.95)
				So(table.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestClamps(t *testing.T) {
	Convey("Given clamp helpers", t, func() {
		Convey("Then ClampMax lowers only values above the ceiling", func() {
			v, hit := factor.ClampMax(80, 72)
			So(v, ShouldEqual, 72)
			So(hit, ShouldBeTrue)

			v, hit = factor.ClampMax(72, 72)
			So(v, ShouldEqual, 72)
			So(hit, ShouldBeFalse)
		})

		Convey("And ClampMin raises only values below the floor", func() {
			v, hit := factor.ClampMin(18, 20)
			So(v, ShouldEqual, 20)
			So(hit, ShouldBeTrue)

			v, hit = factor.ClampMin(21, 20)
			So(v, ShouldEqual, 21)
			So(hit, ShouldBeFalse)
		})

		Convey("And Clamp bounds both sides", func() {
			So(factor.Clamp(0, 1, 20), ShouldEqual, 1)
			So(factor.Clamp(25, 1, 20), ShouldEqual, 20)
			So(factor.Clamp(9, 1, 20), ShouldEqual, 9)
		})
	})
}

func TestRounding(t *testing.T) {
	Convey("Given rounding helpers", t, func() {
		Convey("Then Round rounds half away from zero", func() {
			So(factor.Round(4.545, 2), ShouldEqual, 4.55)
			So(factor.Round(50.0/11.0, 2), ShouldEqual, 4.55)
			So(factor.Round(1.25, 1), ShouldEqual, 1.3)
			So(factor.Round(-1.25, 1), ShouldEqual, -1.3)
		})

		Convey("And non-finite values pass through", func() {
			So(math.IsNaN(factor.Round(math.NaN(), 2)), ShouldBeTrue)
			So(math.IsInf(factor.Round(math.Inf(1), 2), 1), ShouldBeTrue)
		})

		Convey("And RoundInt rounds to the nearest integer", func() {
			So(factor.RoundInt(46.5), ShouldEqual, 47)
			So(factor.RoundInt(46.49), ShouldEqual, 46)
		})
	})
}

func TestPercentChange(t *testing.T) {
	Convey("Given percent change", t, func() {
		So(factor.PercentChange(2, 3), ShouldEqual, 50)
		So(factor.PercentChange(4, 2), ShouldEqual, -50)
		So(factor.PercentChange(0, 5), ShouldEqual, 0)
	})
}
