package report_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/okian/garage/internal/adapters/report"
	"github.com/okian/garage/internal/domain/compat"
	"github.com/okian/garage/internal/domain/gearing"
	"github.com/okian/garage/internal/domain/model"
	"github.com/okian/garage/internal/domain/suspension"
	"github.com/okian/garage/internal/domain/tirepressure"
	"github.com/okian/garage/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func fullSheet() report.SetupSheet {
	tire := tirepressure.Calculate(tirepressure.Input{
		RiderWeight: 165, BikeWeight: 19, TireWidthMM: 28, RimWidthMM: 21,
		Wheel: tirepressure.Wheel700c, Mount: tirepressure.MountTubeless,
	})
	fork, _ := model.LookupSuspension("Fox", "34")
	susp := suspension.Calculate(suspension.Input{
		RiderWeight: 180, GearWeight: 5, Unit: types.Pounds, Fork: &fork, Discipline: suspension.DisciplineTrail,
	})
	gears := gearing.Calculate(gearing.Setup{Chainrings: []int{50, 34}, Cogs: []int{11, 34}, WheelCircumferenceMM: 2100}, 90)
	rep := compat.Check(model.Drivetrain{ShifterSpeeds: 12, DerailleurSpeeds: 11})

	return report.SetupSheet{
		Title:      "Trail bike baseline",
		Rider:      "Sam",
		Bike:       "Stumpjumper",
		Date:       time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Tire:       &tire,
		Suspension: &susp,
		Gears:      gears,
		Compat:     &rep,
	}
}

func TestRender(t *testing.T) {
	Convey("Given a sheet with every section", t, func() {
		sheet := fullSheet()

		Convey("When rendering without compression", func() {
			var buf bytes.Buffer
			err := report.Render(&buf, sheet, report.WithCompression(false))

			Convey("Then a PDF is written", func() {
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), ShouldBeTrue)
			})

			Convey("And every section is present", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "Trail bike baseline")
				So(out, ShouldContainSubstring, "Date: 2026-03-14")
				So(out, ShouldContainSubstring, "Front: 47 PSI")
				So(out, ShouldContainSubstring, "Fox 34: 81 PSI")
				So(out, ShouldContainSubstring, "Gearing")
				So(out, ShouldContainSubstring, "4.55")
				So(out, ShouldContainSubstring, "12-speed shifter does not match 11-speed derailleur")
			})
		})

		Convey("When rendering with compression", func() {
			var compressed, plain bytes.Buffer
			So(report.Render(&compressed, sheet), ShouldBeNil)
			So(report.Render(&plain, sheet, report.WithCompression(false)), ShouldBeNil)

			Convey("Then the output is smaller", func() {
				So(compressed.Len(), ShouldBeLessThan, plain.Len())
			})
		})
	})

	Convey("Given an insufficient suspension result", t, func() {
		rec := suspension.Calculate(suspension.Input{RiderWeight: 170})
		var buf bytes.Buffer
		err := report.Render(&buf, report.SetupSheet{Suspension: &rec}, report.WithCompression(false))

		Convey("Then the sheet says why", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Not enough data")
			So(buf.String(), ShouldContainSubstring, "Setup Sheet")
		})
	})

	Convey("Given an empty sheet", t, func() {
		err := report.Render(&bytes.Buffer{}, report.SetupSheet{Title: "nothing"})

		Convey("Then rendering is refused", func() {
			So(errors.Is(err, report.ErrEmptySheet), ShouldBeTrue)
		})
	})
}
