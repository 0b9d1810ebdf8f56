package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/garage/internal/domain/tirepressure"
	"github.com/xuri/excelize/v2"
)

// ResultSheet is the name of the sheet written by WriteTireResults.
const ResultSheet = "Pressures"

var resultHeader = []any{
	"line", "label", "class", "front_psi", "rear_psi", "front_bar", "rear_bar",
	"effective_width_mm", "warnings", "notes",
}

// WriteTireResults writes one row per calculated setup to a new workbook.
// rows and results are matched by index.
func WriteTireResults(w io.Writer, rows []Row, results []tirepressure.Result) error {
	if len(rows) != len(results) {
		return fmt.Errorf("%d rows but %d results", len(rows), len(results))
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ResultSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(ResultSheet, "A1", &resultHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, res := range results {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			rows[i].Line,
			rows[i].Label,
			string(res.Class),
			res.FrontPSI,
			res.RearPSI,
			res.FrontBar,
			res.RearBar,
			res.EffectiveWidthMM,
			strings.Join(res.Warnings, "; "),
			strings.Join(res.Notes, "; "),
		}
		if err := f.SetSheetRow(ResultSheet, cellRef, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
