package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/garage/internal/app"
)

func newImportCommand(st *cliState) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Tire pressure for every row of a workbook",
		Long: `Reads tire setups from the first sheet of an .xlsx workbook. The first
row is a header; rider_weight, tire_width_mm and rim_width_mm are required
columns. Rows that fail to parse are reported and skipped.

With --out the results are also written to a new workbook.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = src.Close() }()

			res, err := st.svc.ImportTirePressures(cmd.Context(), src)
			if err != nil {
				return err
			}
			if out != "" {
				if err := writeFile(out, func(w io.Writer) error { return st.svc.WriteImport(w, res) }); err != nil {
					return err
				}
			}
			return st.emit(cmd, res, func(w io.Writer) { printImport(w, res) })
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write results to this .xlsx file")
	return cmd
}

func printImport(w io.Writer, res *service.ImportResult) {
	for i, row := range res.Sheet.Rows {
		r := res.Results[i]
		label := row.Label
		if label == "" {
			label = fmt.Sprintf("row %d", row.Line)
		}
		fmt.Fprintf(w, "%s: front %d PSI, rear %d PSI\n", label, r.FrontPSI, r.RearPSI)
		printLines(w, "  warning: ", r.Warnings)
	}
	for _, sk := range res.Sheet.Skipped {
		fmt.Fprintf(w, "skipped row %d: %s\n", sk.Line, sk.Message)
	}
}

// writeFile creates path and fills it with write, removing it on failure.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
