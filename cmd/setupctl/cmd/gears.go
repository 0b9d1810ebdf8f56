package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/garage/internal/domain/gearing"
	"github.com/okian/garage/internal/domain/model"
)

// gearFlags describes one drivetrain.
type gearFlags struct {
	chainrings    []int
	cogs          []int
	circumference float64
	wheel         string
	tireWidth     float64
}

// bind registers the flags; prefix is empty for gears and "current-" or
// "proposed-" for compare.
func (g *gearFlags) bind(cmd *cobra.Command, prefix string) {
	fs := cmd.Flags()
	fs.IntSliceVar(&g.chainrings, prefix+"chainrings", nil, "chainring tooth counts, e.g. 50,34")
	fs.IntSliceVar(&g.cogs, prefix+"cogs", nil, "cassette cog tooth counts, e.g. 11,13,15,17")
	fs.Float64Var(&g.circumference, prefix+"circumference", 0, "wheel circumference in mm")
	fs.StringVar(&g.wheel, prefix+"wheel", "", "wheel size, used with the tire width when no circumference is given")
	fs.Float64Var(&g.tireWidth, prefix+"tire", 0, "tire width in mm")
}

func (g *gearFlags) setup() gearing.Setup {
	s := gearing.Setup{
		Chainrings:           g.chainrings,
		Cogs:                 g.cogs,
		WheelCircumferenceMM: g.circumference,
	}
	if s.WheelCircumferenceMM <= 0 && g.wheel != "" {
		s.WheelCircumferenceMM = gearing.Circumference(g.wheel, g.tireWidth)
	}
	return s
}

func newGearsCommand(st *cliState) *cobra.Command {
	var (
		g       gearFlags
		cadence float64
	)
	cmd := &cobra.Command{
		Use:   "gears",
		Short: "Gear table for a drivetrain, easiest gear first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gears, err := st.svc.GearRatios(cmd.Context(), g.setup(), cadence)
			if err != nil {
				return err
			}
			return st.emit(cmd, gears, func(w io.Writer) { printGears(w, gears) })
		},
	}
	g.bind(cmd, "")
	cmd.Flags().Float64Var(&cadence, "cadence", 0, "cadence in rpm (default from configuration)")
	return cmd
}

func printGears(w io.Writer, gears []gearing.GearRatio) {
	fmt.Fprintf(w, "%4s %5s %4s %6s %7s %7s %8s\n", "gear", "ring", "cog", "ratio", "km/h", "mph", "gear-in")
	for _, g := range gears {
		fmt.Fprintf(w, "%4d %5d %4d %6s %7s %7s %8s\n",
			g.Gear, g.Chainring, g.Cog,
			num(g.Ratio, 2), num(g.SpeedKPH, 1), num(g.SpeedMPH, 1), num(g.GearInches, 1))
	}
}

func newCompareCommand(st *cliState) *cobra.Command {
	var current, proposed gearFlags
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the range of two drivetrains",
		Long: `Compares a proposed drivetrain with the current one. A positive easiest
gear change means easier climbing.

Example:
  setupctl compare --current-chainrings 50,34 --current-cogs 11,34 \
    --proposed-chainrings 50,34 --proposed-cogs 11,28`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmp, err := st.svc.CompareGearing(cmd.Context(), current.setup(), proposed.setup())
			if err != nil {
				return err
			}
			return st.emit(cmd, cmp, func(w io.Writer) {
				fmt.Fprintf(w, "Easiest gear: %s%%\n", num(cmp.EasiestGearImprovement, 1))
				fmt.Fprintf(w, "Top speed:    %s%%\n", num(cmp.TopSpeedChange, 1))
				fmt.Fprintf(w, "Range:        %s -> %s (%s%%)\n",
					num(cmp.CurrentRange, 2), num(cmp.ProposedRange, 2), num(cmp.RangeChange, 1))
			})
		},
	}
	current.bind(cmd, "current-")
	proposed.bind(cmd, "proposed-")
	return cmd
}

func newCompatCommand(st *cliState) *cobra.Command {
	var d model.Drivetrain
	cmd := &cobra.Command{
		Use:   "compat",
		Short: "Check that drivetrain parts work together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep := st.svc.Compatibility(cmd.Context(), d)
			return st.emit(cmd, rep, func(w io.Writer) {
				if rep.Compatible {
					fmt.Fprintln(w, "Compatible")
				}
				for _, is := range rep.Issues {
					fmt.Fprintf(w, "issue (%s): %s\n", is.Code, is.Message)
				}
				if rep.RequiredCapacity > 0 {
					fmt.Fprintf(w, "Required capacity: %dT\n", rep.RequiredCapacity)
				}
				printLines(w, "note: ", rep.Notes)
			})
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&d.ShifterSpeeds, "shifter-speeds", 0, "shifter speed count")
	fs.IntVar(&d.DerailleurSpeeds, "derailleur-speeds", 0, "rear derailleur speed count")
	fs.IntVar(&d.CassetteSpeeds, "cassette-speeds", 0, "cassette speed count")
	fs.IntVar(&d.ChainSpeeds, "chain-speeds", 0, "chain speed count")
	fs.IntVar(&d.CassetteSmallestCog, "smallest-cog", 0, "smallest cassette cog")
	fs.IntVar(&d.CassetteLargestCog, "largest-cog", 0, "largest cassette cog")
	fs.IntVar(&d.DerailleurMaxCog, "derailleur-max-cog", 0, "largest cog the derailleur supports")
	fs.IntVar(&d.DerailleurCapacity, "derailleur-capacity", 0, "derailleur total capacity in teeth")
	fs.IntVar(&d.ChainringLargest, "largest-chainring", 0, "largest chainring")
	fs.IntVar(&d.ChainringSmallest, "smallest-chainring", 0, "smallest chainring")
	return cmd
}
