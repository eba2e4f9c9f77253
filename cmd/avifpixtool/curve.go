package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vearutop/avifpix"
)

var curveFlags struct {
	transfer    string
	primaries   string
	targetNits  float64
	contentNits float64
	steps       int
}

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the tone curve applied to neutral code values",
	RunE: func(*cobra.Command, []string) error {
		tc, err := lookup("transfer", transferNames, curveFlags.transfer)
		if err != nil {
			return err
		}
		primaries, err := lookup("primaries", primariesNames, curveFlags.primaries)
		if err != nil {
			return err
		}

		return printCurve(os.Stdout, tc, primaries, float32(curveFlags.targetNits), float32(curveFlags.contentNits), curveFlags.steps)
	},
}

func init() {
	f := curveCmd.Flags()

	f.StringVar(&curveFlags.transfer, "transfer", "pq", "transfer characteristics")
	f.StringVar(&curveFlags.primaries, "primaries", "bt2020", "color primaries")
	f.Float64Var(&curveFlags.targetNits, "target-nits", 0, "display white luminance, 203 if not set")
	f.Float64Var(&curveFlags.contentNits, "content-nits", 0, "content peak luminance, 1000 if not set")
	f.IntVar(&curveFlags.steps, "steps", 17, "number of code values sampled in [0, 1]")

	rootCmd.AddCommand(curveCmd)
}

func printCurve(w io.Writer, tc avifpix.TransferCharacteristics, primaries avifpix.ColorPrimaries, targetNits, contentNits float32, steps int) error {
	if steps < 2 {
		return fmt.Errorf("at least 2 steps required, %d given", steps)
	}

	img := &avifpix.DecodedImage{Transfer: tc, Primaries: primaries}
	ctx, err := avifpix.NewToneMapContext(img, avifpix.ConvertOptions{
		TargetPeakNits:  targetNits,
		ContentPeakNits: contentNits,
	})
	if err != nil {
		return err
	}

	m := avifpix.NewToneMapper(ctx)

	if _, err := fmt.Fprintf(w, "# %s, target %.0f nits, content %.0f nits, hlg gamma %.3f\n",
		m.Kind(), ctx.TargetPeakNits, ctx.ContentPeakNits, ctx.HLGGamma); err != nil {
		return err
	}

	for i := 0; i < steps; i++ {
		v := float32(i) / float32(steps-1)
		c := m.Map(avifpix.RGB{R: v, G: v, B: v})

		if _, err := fmt.Fprintf(w, "%.4f\t%.4f\t%3d\n", v, c.G, int(c.G*255+0.5)); err != nil {
			return err
		}
	}

	return nil
}
