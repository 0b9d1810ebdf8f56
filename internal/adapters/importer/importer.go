// Package importer reads tire setups from spreadsheets and writes the
// calculated pressures back out.
package importer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/garage/internal/domain/tirepressure"
	"github.com/okian/garage/internal/domain/types"
	"github.com/xuri/excelize/v2"
)

// Column headers, matched case-insensitively. Spaces and dashes in a
// header are treated as underscores.
const (
	ColLabel       = "label"
	ColRiderWeight = "rider_weight"
	ColBikeWeight  = "bike_weight"
	ColUnit        = "unit"
	ColTireWidth   = "tire_width_mm"
	ColRimWidth    = "rim_width_mm"
	ColWheel       = "wheel"
	ColCasing      = "casing"
	ColSurface     = "surface"
	ColMount       = "mount"
	ColHookless    = "hookless"
)

var requiredColumns = []string{ColRiderWeight, ColTireWidth, ColRimWidth}

const defaultMaxRows = 500

// Row is one parsed spreadsheet row. Line is the 1-based sheet row number.
type Row struct {
	Line  int                `json:"line"`
	Label string             `json:"label,omitempty"`
	Input tirepressure.Input `json:"input"`
}

// RowError explains why a row was skipped.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Sheet is the outcome of reading a workbook.
type Sheet struct {
	Name    string     `json:"sheet"`
	Rows    []Row      `json:"rows"`
	Skipped []RowError `json:"skipped"`
}

// Option configures ReadTireSetups.
type Option func(*reader)

type reader struct {
	sheet   string
	maxRows int
}

// WithSheet reads the named sheet instead of the first one.
func WithSheet(name string) Option {
	return func(r *reader) { r.sheet = name }
}

// WithMaxRows caps the number of data rows.
func WithMaxRows(n int) Option {
	return func(r *reader) {
		if n > 0 {
			r.maxRows = n
		}
	}
}

// ReadTireSetups parses an .xlsx workbook whose first row is a header. Rows
// that fail to parse or validate are reported in Sheet.Skipped; blank rows
// are ignored.
func ReadTireSetups(src io.Reader, opts ...Option) (*Sheet, error) {
	cfg := reader{maxRows: defaultMaxRows}
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	name := cfg.sheet
	if name == "" {
		name = f.GetSheetName(0)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrInvalidWorkbook, name, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: sheet %q has no data rows", ErrEmptySheet, name)
	}

	cols := indexHeader(rows[0])
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	out := &Sheet{Name: name, Rows: []Row{}, Skipped: []RowError{}}
	var data int
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		data++
		if data > cfg.maxRows {
			return nil, fmt.Errorf("%w: more than %d rows", ErrTooManyRows, cfg.maxRows)
		}

		line := i + 1
		row, err := parseRow(rows[i], cols)
		if err == nil {
			err = row.Input.Validate()
		}
		if err != nil {
			out.Skipped = append(out.Skipped, RowError{Line: line, Message: err.Error()})
			continue
		}
		row.Line = line
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	replacer := strings.NewReplacer(" ", "_", "-", "_")
	for i, h := range header {
		key := replacer.Replace(strings.ToLower(strings.TrimSpace(h)))
		if key == "" {
			continue
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cell returns the trimmed value of column name, or "" when absent.
func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func number(row []string, cols map[string]int, name string) (float64, error) {
	s := cell(row, cols, name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidCell, name, s)
	}
	return v, nil
}

func parseRow(row []string, cols map[string]int) (Row, error) {
	var in tirepressure.Input
	var err error

	if in.RiderWeight, err = number(row, cols, ColRiderWeight); err != nil {
		return Row{}, err
	}
	if in.BikeWeight, err = number(row, cols, ColBikeWeight); err != nil {
		return Row{}, err
	}
	if in.TireWidthMM, err = number(row, cols, ColTireWidth); err != nil {
		return Row{}, err
	}
	if in.RimWidthMM, err = number(row, cols, ColRimWidth); err != nil {
		return Row{}, err
	}
	if in.Unit, err = types.ParseWeightUnit(cell(row, cols, ColUnit)); err != nil {
		return Row{}, fmt.Errorf("%w: %w", ErrInvalidCell, err)
	}
	if in.Hookless, err = parseBool(cell(row, cols, ColHookless)); err != nil {
		return Row{}, err
	}

	in.Wheel = tirepressure.Wheel(strings.ToLower(cell(row, cols, ColWheel)))
	in.Casing = tirepressure.Casing(strings.ToLower(cell(row, cols, ColCasing)))
	in.Surface = tirepressure.Surface(strings.ToLower(cell(row, cols, ColSurface)))
	in.Mount = tirepressure.Mount(strings.ToLower(cell(row, cols, ColMount)))

	return Row{Label: cell(row, cols, ColLabel), Input: in}, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "n", "no", "false":
		return false, nil
	case "1", "y", "yes", "true", "x":
		return true, nil
	}
	return false, fmt.Errorf("%w: hookless %q is not yes or no", ErrInvalidCell, s)
}
