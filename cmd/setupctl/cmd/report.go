package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/garage/internal/app"
)

func newReportCommand(st *cliState) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report <sheet.json>",
		Short: "Render a printable setup sheet as PDF",
		Long: `Reads a setup sheet request, the same JSON body accepted by
POST /tools/report/pdf, and writes the rendered PDF. Use "-" to read the
request from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readSheetRequest(cmd, args[0])
			if err != nil {
				return err
			}
			sheet, err := st.svc.BuildSetupSheet(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := writeFile(out, func(w io.Writer) error { return st.svc.SetupSheet(cmd.Context(), sheet, w) }); err != nil {
				return err
			}
			return st.emit(cmd, sheet, func(w io.Writer) { fmt.Fprintf(w, "Wrote %s\n", out) })
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "setup-sheet.pdf", "PDF file to write")
	return cmd
}

func readSheetRequest(cmd *cobra.Command, path string) (service.SheetRequest, error) {
	var src io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return service.SheetRequest{}, err
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	var req service.SheetRequest
	dec := json.NewDecoder(src)
	if err := dec.Decode(&req); err != nil {
		return service.SheetRequest{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return req, nil
}
