package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/garage/internal/domain/tirepressure"
	"github.com/okian/garage/internal/domain/types"
)

type tireFlags struct {
	rider    float64
	bike     float64
	unit     string
	tire     float64
	rim      float64
	wheel    string
	casing   string
	surface  string
	mount    string
	hookless bool
}

func (f *tireFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.rider, "rider", 0, "rider weight")
	fs.Float64Var(&f.bike, "bike", 0, "bike weight")
	fs.StringVar(&f.unit, "unit", "lb", "weight unit (lb, kg)")
	fs.Float64Var(&f.tire, "tire", 0, "tire width in mm")
	fs.Float64Var(&f.rim, "rim", 0, "internal rim width in mm")
	fs.StringVar(&f.wheel, "wheel", string(tirepressure.Wheel700c), "wheel size (700c, 650b, 29er)")
	fs.StringVar(&f.casing, "casing", string(tirepressure.CasingStandard), "casing (standard, supple, ultra-supple)")
	fs.StringVar(&f.surface, "surface", string(tirepressure.SurfacePavement), "surface (pavement, rough-pavement, gravel, rough-gravel, singletrack)")
	fs.StringVar(&f.mount, "mount", string(tirepressure.MountTubeType), "mount (tubetype, tubeless)")
	fs.BoolVar(&f.hookless, "hookless", false, "hookless rim")
}

func (f *tireFlags) input() (tirepressure.Input, error) {
	unit, err := types.ParseWeightUnit(f.unit)
	if err != nil {
		return tirepressure.Input{}, err
	}
	return tirepressure.Input{
		RiderWeight: f.rider,
		BikeWeight:  f.bike,
		Unit:        unit,
		TireWidthMM: f.tire,
		RimWidthMM:  f.rim,
		Wheel:       tirepressure.Wheel(f.wheel),
		Casing:      tirepressure.Casing(f.casing),
		Surface:     tirepressure.Surface(f.surface),
		Mount:       tirepressure.Mount(f.mount),
		Hookless:    f.hookless,
	}, nil
}

func newTireCommand(st *cliState) *cobra.Command {
	var f tireFlags
	cmd := &cobra.Command{
		Use:   "tire",
		Short: "Front and rear tire pressure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			res, err := st.svc.TirePressure(cmd.Context(), in)
			if err != nil {
				return err
			}
			return st.emit(cmd, res, func(w io.Writer) { printTire(w, res) })
		},
	}
	f.bind(cmd)
	return cmd
}

func printTire(w io.Writer, res tirepressure.Result) {
	fmt.Fprintf(w, "Front: %d PSI (%s bar)\n", res.FrontPSI, num(res.FrontBar, 2))
	fmt.Fprintf(w, "Rear:  %d PSI (%s bar)\n", res.RearPSI, num(res.RearBar, 2))
	fmt.Fprintf(w, "Effective width: %s mm (%s)\n", num(res.EffectiveWidthMM, 1), res.Class)
	printLines(w, "note: ", res.Notes)
	printLines(w, "warning: ", res.Warnings)
}
