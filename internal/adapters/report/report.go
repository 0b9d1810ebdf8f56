// Package report renders setup recommendations as a printable PDF sheet.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/okian/garage/internal/domain/compat"
	"github.com/okian/garage/internal/domain/gearing"
	"github.com/okian/garage/internal/domain/suspension"
	"github.com/okian/garage/internal/domain/tirepressure"
	"github.com/phpdave11/gofpdf"
)

// ErrEmptySheet is returned when a sheet has no sections to render.
var ErrEmptySheet = errors.New("setup sheet has nothing to render")

// SetupSheet collects the results printed on one sheet. Nil sections are
// left out.
type SetupSheet struct {
	Title      string                     `json:"title"`
	Rider      string                     `json:"rider"`
	Bike       string                     `json:"bike"`
	Date       time.Time                  `json:"date"`
	Tire       *tirepressure.Result       `json:"tire,omitempty"`
	Suspension *suspension.Recommendation `json:"suspension,omitempty"`
	Gears      []gearing.GearRatio        `json:"gears,omitempty"`
	Compat     *compat.Report             `json:"compat,omitempty"`
}

func (s SetupSheet) empty() bool {
	return s.Tire == nil && s.Suspension == nil && len(s.Gears) == 0 && s.Compat == nil
}

// Option configures rendering.
type Option func(*renderer)

// WithCompression toggles PDF stream compression. It is on by default.
func WithCompression(on bool) Option {
	return func(r *renderer) { r.compress = on }
}

type renderer struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	compress bool
}

// Render writes sheet as an A4 PDF to w.
func Render(w io.Writer, sheet SetupSheet, opts ...Option) error {
	if sheet.empty() {
		return ErrEmptySheet
	}
	r := &renderer{compress: true}
	for _, opt := range opts {
		opt(r)
	}

	r.pdf = gofpdf.New("P", "mm", "A4", "")
	r.pdf.SetCompression(r.compress)
	r.pdf.SetTitle(title(sheet), true)
	r.tr = r.pdf.UnicodeTranslatorFromDescriptor("")
	r.pdf.AddPage()

	r.header(sheet)
	if sheet.Tire != nil {
		r.tire(*sheet.Tire)
	}
	if sheet.Suspension != nil {
		r.suspension(*sheet.Suspension)
	}
	if len(sheet.Gears) > 0 {
		r.gears(sheet.Gears)
	}
	if sheet.Compat != nil {
		r.compat(*sheet.Compat)
	}

	if err := r.pdf.Error(); err != nil {
		return fmt.Errorf("render setup sheet: %w", err)
	}
	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("write setup sheet: %w", err)
	}
	return nil
}

func title(s SetupSheet) string {
	if s.Title != "" {
		return s.Title
	}
	return "Setup Sheet"
}

func (r *renderer) header(s SetupSheet) {
	r.pdf.SetFont("Helvetica", "B", 16)
	r.pdf.Cell(0, 10, r.tr(title(s)))
	r.pdf.Ln(12)
	r.pdf.SetFont("Helvetica", "", 11)
	if s.Rider != "" {
		r.line("Rider: " + s.Rider)
	}
	if s.Bike != "" {
		r.line("Bike: " + s.Bike)
	}
	date := s.Date
	if date.IsZero() {
		date = time.Now()
	}
	r.line("Date: " + date.Format("2006-01-02"))
	r.pdf.Ln(4)
}

func (r *renderer) section(name string) {
	r.pdf.SetFont("Helvetica", "B", 13)
	r.pdf.Cell(0, 8, r.tr(name))
	r.pdf.Ln(9)
	r.pdf.SetFont("Helvetica", "", 11)
}

func (r *renderer) line(text string) {
	r.pdf.Cell(0, 6, r.tr(text))
	r.pdf.Ln(6)
}

func (r *renderer) bullets(prefix string, items []string) {
	for _, it := range items {
		r.pdf.MultiCell(0, 5, r.tr(prefix+it), "", "L", false)
	}
}

func (r *renderer) tire(res tirepressure.Result) {
	r.section("Tire pressure")
	r.line(fmt.Sprintf("Front: %d PSI (%s bar)", res.FrontPSI, num(res.FrontBar)))
	r.line(fmt.Sprintf("Rear: %d PSI (%s bar)", res.RearPSI, num(res.RearBar)))
	r.line(fmt.Sprintf("Class: %s, effective width %smm", res.Class, num(res.EffectiveWidthMM)))
	r.bullets("! ", res.Warnings)
	r.bullets("- ", res.Notes)
	r.pdf.Ln(4)
}

func (r *renderer) suspension(rec suspension.Recommendation) {
	r.section("Suspension")
	if !rec.OK() {
		r.line("Not enough data: " + rec.Reason)
		r.bullets("- ", rec.Notes)
		r.pdf.Ln(4)
		return
	}
	for _, s := range []*suspension.Setup{rec.Fork, rec.Shock} {
		if s == nil {
			continue
		}
		r.line(s.String())
		r.bullets("- ", s.Notes)
	}
	r.line("Accuracy: " + string(rec.Accuracy))
	r.bullets("- ", rec.Notes)
	r.pdf.Ln(4)
}

var gearWidths = []float64{15, 25, 20, 20, 25, 25, 30}

func (r *renderer) gears(gears []gearing.GearRatio) {
	r.section("Gearing")
	r.pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Gear", "Ring", "Cog", "Ratio", "km/h", "mph", "Gear in."} {
		r.pdf.CellFormat(gearWidths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetFont("Helvetica", "", 10)
	for _, g := range gears {
		cells := []string{
			strconv.Itoa(g.Gear),
			strconv.Itoa(g.Chainring),
			strconv.Itoa(g.Cog),
			num(g.Ratio),
			num(g.SpeedKPH),
			num(g.SpeedMPH),
			num(g.GearInches),
		}
		for i, c := range cells {
			r.pdf.CellFormat(gearWidths[i], 6, c, "1", 0, "R", false, 0, "")
		}
		r.pdf.Ln(-1)
	}
	r.pdf.SetFont("Helvetica", "", 11)
	r.pdf.Ln(4)
}

func (r *renderer) compat(rep compat.Report) {
	r.section("Compatibility")
	if rep.Compatible {
		r.line("No compatibility issues found")
	}
	for _, is := range rep.Issues {
		r.pdf.MultiCell(0, 5, r.tr("! "+is.Message), "", "L", false)
	}
	r.bullets("- ", rep.Notes)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
