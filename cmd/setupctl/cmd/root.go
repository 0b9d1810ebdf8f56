// Package cmd provides the setupctl commands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	service "github.com/okian/garage/internal/app"
	"github.com/okian/garage/internal/config"
	"github.com/okian/garage/pkg/logger"
)

// cliState is shared by every subcommand of one invocation.
type cliState struct {
	asJSON  bool
	verbose bool
	svc     *service.Service
}

// Execute runs the CLI against the process arguments.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Run executes one setupctl invocation. Results go to stdout, logs and
// errors to stderr.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	st := &cliState{}
	root := newRootCommand(st)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer st.stop()
	return root.ExecuteContext(ctx)
}

func newRootCommand(st *cliState) *cobra.Command {
	root := &cobra.Command{
		Use:   "setupctl",
		Short: "Baseline bike setup recommendations",
		Long: `setupctl computes starting-point setups for a bike: tire pressure,
fork and shock air pressure, gear ratios and drivetrain compatibility.

Configuration is read the same way as the server: defaults, then the YAML
file named by GARAGE_CONFIG, then GARAGE_* environment variables.

Examples:
  setupctl tire --rider 165 --bike 19 --tire 28 --rim 21 --mount tubeless
  setupctl suspension --rider 180 --fork-brand Fox --fork-model 34
  setupctl gears --chainrings 50,34 --cogs 11,13,15,17,19,21,24,28,34
  setupctl import setups.xlsx --out pressures.xlsx
  setupctl report sheet.json --out setup-sheet.pdf`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.start(cmd)
		},
	}

	root.PersistentFlags().BoolVar(&st.asJSON, "json", false, "print results as JSON")
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newTireCommand(st))
	root.AddCommand(newSuspensionCommand(st))
	root.AddCommand(newGearsCommand(st))
	root.AddCommand(newCompareCommand(st))
	root.AddCommand(newCompatCommand(st))
	root.AddCommand(newImportCommand(st))
	root.AddCommand(newReportCommand(st))
	return root
}

func (st *cliState) start(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	lvl := cfg.LogLevel
	if st.verbose {
		lvl = "debug"
	}
	if err := logger.SetLevelString(lvl); err != nil {
		_ = logger.SetLevelString("info")
	}

	st.svc = service.New(append(service.ConfigOptions(cfg), service.WithLogger(logger.Named("setupctl")))...)
	return st.svc.Start(ctx)
}

func (st *cliState) stop() {
	if st.svc != nil {
		st.svc.Stop()
	}
	_ = logger.Sync()
}

// emit prints v as indented JSON with --json, or through text otherwise.
func (st *cliState) emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if st.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(out)
	return nil
}

// num formats v to at most places decimals without trailing zeros.
func num(v float64, places int32) string {
	return decimal.NewFromFloat(v).Round(places).String()
}

func printLines(w io.Writer, prefix string, lines []string) {
	for _, l := range lines {
		fmt.Fprintf(w, "%s%s\n", prefix, l)
	}
}
