package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/garage/internal/domain/model"
	"github.com/okian/garage/internal/domain/suspension"
	"github.com/okian/garage/internal/domain/types"
)

// unitFlags describes one fork or shock on the command line.
type unitFlags struct {
	brand     string
	model     string
	travel    float64
	stanchion float64
	volume    float64
	maxPSI    float64
	sag       float64
	curve     string
	chart     bool
}

func (u *unitFlags) bind(cmd *cobra.Command, prefix, diameter string) {
	fs := cmd.Flags()
	fs.StringVar(&u.brand, prefix+"-brand", "", prefix+" brand, used for catalog lookup")
	fs.StringVar(&u.model, prefix+"-model", "", prefix+" model, used for catalog lookup")
	fs.Float64Var(&u.travel, prefix+"-travel", 0, prefix+" travel in mm")
	fs.Float64Var(&u.stanchion, prefix+"-diameter", 0, prefix+" "+diameter+" in mm")
	fs.Float64Var(&u.volume, prefix+"-volume", 0, prefix+" air volume in cc")
	fs.Float64Var(&u.maxPSI, prefix+"-max-psi", 0, prefix+" maximum pressure")
	fs.Float64Var(&u.sag, prefix+"-recommended-sag", 0, prefix+" manufacturer sag percent")
	fs.StringVar(&u.curve, prefix+"-curve", "", prefix+" spring curve (linear, progressive, digressive, coil)")
	fs.BoolVar(&u.chart, prefix+"-chart", false, prefix+" has a published pressure chart")
}

func (u *unitFlags) spec(kind model.SpecKind) *model.SuspensionSpec {
	if u.brand == "" && u.model == "" && u.travel == 0 && u.stanchion == 0 {
		return nil
	}
	return &model.SuspensionSpec{
		Brand:                 u.brand,
		Model:                 u.model,
		Kind:                  kind,
		TravelMM:              u.travel,
		StanchionMM:           u.stanchion,
		VolumeCC:              u.volume,
		MaxPressurePSI:        u.maxPSI,
		RecommendedSagPercent: u.sag,
		Curve:                 model.SpringCurve(u.curve),
		PressureChart:         u.chart,
	}
}

func newSuspensionCommand(st *cliState) *cobra.Command {
	var (
		rider, gear, sag float64
		unit, discipline string
		fork, shock      unitFlags
	)
	cmd := &cobra.Command{
		Use:   "suspension",
		Short: "Baseline fork and shock setup",
		Long: `Computes air pressure, sag, rebound and compression for a fork, a shock
or both. A unit given only by brand and model is looked up in the catalog;
run "setupctl suspension catalog" to list it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wu, err := types.ParseWeightUnit(unit)
			if err != nil {
				return err
			}
			in := suspension.Input{
				RiderWeight: rider,
				GearWeight:  gear,
				Unit:        wu,
				Fork:        fork.spec(model.KindFork),
				Shock:       shock.spec(model.KindShock),
				Discipline:  suspension.Discipline(discipline),
			}
			if cmd.Flags().Changed("sag") {
				in.TargetSagPercent = &sag
			}
			rec, err := st.svc.Suspension(cmd.Context(), in)
			if err != nil {
				return err
			}
			return st.emit(cmd, rec, func(w io.Writer) { printSuspension(w, rec) })
		},
	}

	fs := cmd.Flags()
	fs.Float64Var(&rider, "rider", 0, "rider weight")
	fs.Float64Var(&gear, "gear", 0, "riding gear weight")
	fs.StringVar(&unit, "unit", "lb", "weight unit (lb, kg)")
	fs.StringVar(&discipline, "discipline", string(suspension.DisciplineTrail), "discipline (xc, trail, enduro, dh, casual)")
	fs.Float64Var(&sag, "sag", 0, "target sag percent, overrides the discipline default")
	fork.bind(cmd, "fork", "stanchion diameter")
	shock.bind(cmd, "shock", "air can diameter")

	cmd.AddCommand(newCatalogCommand(st))
	return cmd
}

func newCatalogCommand(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List forks and shocks with published specs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			units := st.svc.Catalog()
			return st.emit(cmd, units, func(w io.Writer) {
				for _, u := range units {
					fmt.Fprintf(w, "%-6s %-28s %4s mm travel\n", u.Kind, u.Name(), num(u.TravelMM, 0))
				}
			})
		},
	}
}

func printSuspension(w io.Writer, rec suspension.Recommendation) {
	if !rec.OK() {
		fmt.Fprintf(w, "Not enough data: %s\n", rec.Reason)
		printLines(w, "note: ", rec.Notes)
		return
	}
	for _, s := range []*suspension.Setup{rec.Fork, rec.Shock} {
		if s != nil {
			printSetup(w, s)
		}
	}
	fmt.Fprintf(w, "Accuracy: %s\n", rec.Accuracy)
	printLines(w, "note: ", rec.Notes)
}

func printSetup(w io.Writer, s *suspension.Setup) {
	if s.AirPressurePSI > 0 {
		fmt.Fprintf(w, "%s: %d PSI\n", s.Unit, s.AirPressurePSI)
	} else {
		fmt.Fprintf(w, "%s: coil\n", s.Unit)
	}
	fmt.Fprintf(w, "  sag: %s%% (%s mm)\n", num(s.TargetSagPercent, 1), num(s.TargetSagMM, 1))
	fmt.Fprintf(w, "  rebound: %d clicks from closed\n", s.ReboundClicks)
	if s.CompressionClicks != nil {
		fmt.Fprintf(w, "  compression: %d clicks from open\n", *s.CompressionClicks)
	}
	if s.VolumeSpacers != nil {
		fmt.Fprintf(w, "  volume spacers: %d\n", *s.VolumeSpacers)
	}
	printLines(w, "  note: ", s.Notes)
}
