package importer_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/okian/garage/internal/adapters/importer"
	"github.com/okian/garage/internal/domain/tirepressure"
	"github.com/okian/garage/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

// workbook builds an .xlsx in memory with rows written from A1.
func workbook(rows ...[]any) *bytes.Buffer {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		So(err, ShouldBeNil)
		So(f.SetSheetRow("Sheet1", ref, &row), ShouldBeNil)
	}
	buf, err := f.WriteToBuffer()
	So(err, ShouldBeNil)
	return buf
}

var header = []any{"Label", "Rider Weight", "bike_weight", "unit", "tire-width-mm", "rim_width_mm", "wheel", "casing", "surface", "mount", "hookless"}

func TestReadTireSetups(t *testing.T) {
	Convey("Given a workbook with a header and mixed rows", t, func() {
		buf := workbook(
			header,
			[]any{"road", 165, 19, "lb", 28, 21, "700c", "standard", "pavement", "tubeless", "no"},
			[]any{"gravel", 75, 9, "KG", 40, 25, "700C", "supple", "gravel", "tubeless", "yes"},
			[]any{},
			[]any{"broken", "heavy", 19, "lb", 28, 21},
			[]any{"no tire", 165, 19, "lb", 0, 21},
			[]any{"bad wheel", 165, 19, "lb", 28, 21, "27.5"},
		)

		Convey("When reading it", func() {
			sheet, err := importer.ReadTireSetups(buf)

			Convey("Then valid rows are parsed", func() {
				So(err, ShouldBeNil)
				So(sheet.Name, ShouldEqual, "Sheet1")
				So(sheet.Rows, ShouldHaveLength, 2)

				road := sheet.Rows[0]
				So(road.Line, ShouldEqual, 2)
				So(road.Label, ShouldEqual, "road")
				So(road.Input, ShouldResemble, tirepressure.Input{
					RiderWeight: 165,
					BikeWeight:  19,
					Unit:        types.Pounds,
					TireWidthMM: 28,
					RimWidthMM:  21,
					Wheel:       tirepressure.Wheel700c,
					Casing:      tirepressure.CasingStandard,
					Surface:     tirepressure.SurfacePavement,
					Mount:       tirepressure.MountTubeless,
				})

				gravel := sheet.Rows[1]
				So(gravel.Input.Unit, ShouldEqual, types.Kilograms)
				So(gravel.Input.Wheel, ShouldEqual, tirepressure.Wheel700c)
				So(gravel.Input.Hookless, ShouldBeTrue)
			})

			Convey("And bad rows are skipped with their line numbers", func() {
				So(sheet.Skipped, ShouldHaveLength, 3)
				So(sheet.Skipped[0].Line, ShouldEqual, 5)
				So(sheet.Skipped[0].Message, ShouldContainSubstring, "rider_weight")
				So(sheet.Skipped[1].Line, ShouldEqual, 6)
				So(sheet.Skipped[1].Message, ShouldContainSubstring, "tire width")
				So(sheet.Skipped[2].Message, ShouldContainSubstring, "27.5")
			})
		})

		Convey("When the row limit is lower than the data", func() {
			_, err := importer.ReadTireSetups(buf, importer.WithMaxRows(2))

			Convey("Then the import is refused", func() {
				So(errors.Is(err, importer.ErrTooManyRows), ShouldBeTrue)
			})
		})
	})

	Convey("Given a workbook with non-finite numbers", t, func() {
		buf := workbook(
			header,
			[]any{"nan", "NaN", 19, "lb", 28, 21},
			[]any{"inf", 165, 19, "lb", "Inf", 21},
			[]any{"road", 165, 19, "lb", 28, 21},
		)

		Convey("When reading it", func() {
			sheet, err := importer.ReadTireSetups(buf)

			Convey("Then those rows are skipped and the rest is kept", func() {
				So(err, ShouldBeNil)
				So(sheet.Rows, ShouldHaveLength, 1)
				So(sheet.Rows[0].Label, ShouldEqual, "road")
				So(sheet.Skipped, ShouldHaveLength, 2)
				So(sheet.Skipped[0].Line, ShouldEqual, 2)
				So(sheet.Skipped[0].Message, ShouldContainSubstring, "rider_weight")
				So(sheet.Skipped[1].Line, ShouldEqual, 3)
				So(sheet.Skipped[1].Message, ShouldContainSubstring, "tire_width_mm")
			})
		})
	})

	Convey("Given a workbook without a required column", t, func() {
		buf := workbook([]any{"rider_weight", "tire_width_mm"}, []any{165, 28})

		Convey("Then the missing column is named", func() {
			_, err := importer.ReadTireSetups(buf)
			So(errors.Is(err, importer.ErrMissingColumn), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "rim_width_mm")
		})
	})

	Convey("Given a workbook with only a header", t, func() {
		buf := workbook(header)

		Convey("Then it is reported as empty", func() {
			_, err := importer.ReadTireSetups(buf)
			So(errors.Is(err, importer.ErrEmptySheet), ShouldBeTrue)
		})
	})

	Convey("Given bytes that are not a workbook", t, func() {
		_, err := importer.ReadTireSetups(strings.NewReader("rider_weight,tire_width_mm\n165,28\n"))
		So(errors.Is(err, importer.ErrInvalidWorkbook), ShouldBeTrue)
	})

	Convey("Given a sheet name that does not exist", t, func() {
		buf := workbook(header, []any{"road", 165, 19, "lb", 28, 21})
		_, err := importer.ReadTireSetups(buf, importer.WithSheet("Bikes"))
		So(errors.Is(err, importer.ErrInvalidWorkbook), ShouldBeTrue)
	})
}

func TestWriteTireResults(t *testing.T) {
	Convey("Given parsed rows and their results", t, func() {
		rows := []importer.Row{{Line: 2, Label: "road"}}
		results := []tirepressure.Result{{
			FrontPSI: 47, RearPSI: 57, FrontBar: 3.24, RearBar: 3.93, EffectiveWidthMM: 28.8,
			Class: tirepressure.ClassRoad,
			Diagnostics: types.Diagnostics{
				Notes:    []string{"a", "b"},
				Warnings: []string{},
			},
		}}

		Convey("When writing the workbook", func() {
			var buf bytes.Buffer
			err := importer.WriteTireResults(&buf, rows, results)
			So(err, ShouldBeNil)

			Convey("Then it can be read back", func() {
				f, err := excelize.OpenReader(&buf)
				So(err, ShouldBeNil)
				defer func() { _ = f.Close() }()

				got, err := f.GetRows(importer.ResultSheet)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0][0], ShouldEqual, "line")
				So(got[1][1], ShouldEqual, "road")
				So(got[1][2], ShouldEqual, "road")
				So(got[1][3], ShouldEqual, "47")
				So(got[1][9], ShouldEqual, "a; b")
			})
		})

		Convey("When lengths differ", func() {
			err := importer.WriteTireResults(&bytes.Buffer{}, rows, nil)
			So(err, ShouldNotBeNil)
		})
	})
}
