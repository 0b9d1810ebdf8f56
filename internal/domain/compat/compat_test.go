package compat_test

import (
	"testing"

	"github.com/okian/garage/internal/domain/compat"
	"github.com/okian/garage/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func roadEleven() model.Drivetrain {
	return model.Drivetrain{
		ShifterSpeeds:       11,
		DerailleurSpeeds:    11,
		CassetteSpeeds:      11,
		ChainSpeeds:         11,
		CassetteSmallestCog: 11,
		CassetteLargestCog:  34,
		DerailleurMaxCog:    34,
		DerailleurCapacity:  39,
		ChainringLargest:    50,
		ChainringSmallest:   34,
	}
}

func codes(r compat.Report) []string {
	out := make([]string, 0, len(r.Issues))
	for _, i := range r.Issues {
		out = append(out, i.Code)
	}
	return out
}

func TestCheck(t *testing.T) {
	Convey("Given a matched 11-speed road drivetrain", t, func() {
		r := compat.Check(roadEleven())

		Convey("Then it is compatible", func() {
			So(r.Compatible, ShouldBeTrue)
			So(r.Issues, ShouldBeEmpty)
			So(r.Issues, ShouldNotBeNil)
		})

		Convey("And the capacity it needs is reported", func() {
			So(r.RequiredCapacity, ShouldEqual, 39)
			So(r.Notes, ShouldContain, "Drivetrain needs 39T of capacity (11-34T cassette, 50/34T chainrings)")
		})
	})

	Convey("Given a 12-speed shifter on an 11-speed derailleur", t, func() {
		d := roadEleven()
		d.ShifterSpeeds = 12
		r := compat.Check(d)

		Convey("Then the speed mismatch is reported", func() {
			So(r.Compatible, ShouldBeFalse)
			So(codes(r), ShouldResemble, []string{compat.CodeShifterSpeeds})
			So(r.Issues[0].Message, ShouldEqual, "12-speed shifter does not match 11-speed derailleur")
		})
	})

	Convey("Given a 10-speed chain on an 11-speed cassette", t, func() {
		d := roadEleven()
		d.ChainSpeeds = 10
		So(codes(compat.Check(d)), ShouldResemble, []string{compat.CodeChainSpeeds})
	})

	Convey("Given a cassette bigger than the derailleur allows", t, func() {
		d := roadEleven()
		d.CassetteLargestCog = 36
		r := compat.Check(d)

		Convey("Then both the max cog and the capacity rules fail", func() {
			So(codes(r), ShouldResemble, []string{compat.CodeMaxCog, compat.CodeCapacity})
			So(r.Issues[0].Message, ShouldEqual, "36T largest cog exceeds the derailleur's 34T maximum")
			So(r.RequiredCapacity, ShouldEqual, 41)
		})
	})

	Convey("Given a single chainring", t, func() {
		d := model.Drivetrain{
			CassetteSmallestCog: 10,
			CassetteLargestCog:  51,
			DerailleurMaxCog:    52,
			DerailleurCapacity:  41,
			ChainringLargest:    32,
		}
		r := compat.Check(d)

		Convey("Then capacity only counts the cassette span", func() {
			So(r.Compatible, ShouldBeTrue)
			So(r.RequiredCapacity, ShouldEqual, 41)
		})
	})

	Convey("Given cog counts in the wrong order", t, func() {
		d := roadEleven()
		d.CassetteSmallestCog, d.CassetteLargestCog = 34, 11
		So(codes(compat.Check(d)), ShouldContain, compat.CodeCogOrder)
	})

	Convey("Given nothing but zeros", t, func() {
		r := compat.Check(model.Drivetrain{})

		Convey("Then no rule fails and every skipped check is noted", func() {
			So(r.Compatible, ShouldBeTrue)
			So(r.Issues, ShouldBeEmpty)
			So(r.RequiredCapacity, ShouldEqual, 0)
			So(r.Notes, ShouldHaveLength, 5)
		})
	})
}
