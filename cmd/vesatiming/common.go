package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/cvt"
	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/preset"
)

// getOutputDir returns the directory RTL artifacts are written to
func getOutputDir() string {
	// Check environment variable first
	if dir := os.Getenv("VESA_TIMING_OUTPUT"); dir != "" {
		return dir
	}

	// Fallback to a local output directory
	return "output"
}

// timingFlags is the shared input flag set for calc and generate
type timingFlags struct {
	width      int
	height     int
	rate       float64
	clock      float64
	reduced    bool
	presetName string
}

// register adds the shared input flags to a command
func (f *timingFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.width, "width", "W", 0, "Horizontal active pixels")
	cmd.Flags().IntVarP(&f.height, "height", "H", 0, "Vertical active lines")
	cmd.Flags().Float64VarP(&f.rate, "rate", "r", 0, "Target refresh rate in Hz")
	cmd.Flags().Float64VarP(&f.clock, "clock", "c", 0, "Pixel clock in MHz")
	cmd.Flags().BoolVar(&f.reduced, "rb", false, "Use reduced blanking (CVT-RB)")
	cmd.Flags().StringVarP(&f.presetName, "preset", "p", "", "Start from a named preset (see 'vesatiming preset list')")
}

// parameters resolves the flag set into calculator input. The mode follows
// from which driving quantities were supplied: a rate, a clock, or both.
func (f *timingFlags) parameters(cmd *cobra.Command) (cvt.TimingParameters, error) {
	rateSet := cmd.Flags().Changed("rate")
	clockSet := cmd.Flags().Changed("clock")

	if f.presetName != "" {
		pre, err := preset.Get(f.presetName)
		if err != nil {
			return cvt.TimingParameters{}, err
		}
		p := pre.Parameters()

		// Explicit flags override the preset
		if cmd.Flags().Changed("width") {
			p.HActive = f.width
		}
		if cmd.Flags().Changed("height") {
			p.VActive = f.height
		}
		if cmd.Flags().Changed("rb") {
			p.ReducedBlanking = f.reduced
		}
		if rateSet {
			p.RefreshRate = f.rate
		}
		if clockSet {
			p.PixelClock = f.clock
			p.Mode = cvt.ModeByBoth
		}
		return p, nil
	}

	if f.width == 0 || f.height == 0 {
		return cvt.TimingParameters{}, fmt.Errorf("--width and --height are required unless --preset is given")
	}

	p := cvt.TimingParameters{
		HActive:         f.width,
		VActive:         f.height,
		ReducedBlanking: f.reduced,
	}
	switch {
	case rateSet && clockSet:
		p.Mode = cvt.ModeByBoth
		p.RefreshRate = f.rate
		p.PixelClock = f.clock
	case clockSet:
		p.Mode = cvt.ModeByPixelClock
		p.PixelClock = f.clock
	case rateSet:
		p.Mode = cvt.ModeByRefreshRate
		p.RefreshRate = f.rate
	default:
		return cvt.TimingParameters{}, fmt.Errorf("either --rate or --clock must be specified")
	}
	return p, nil
}

// printResultTable displays a computed timing as an aligned table
func printResultTable(p *cvt.TimingParameters) {
	blanking := "standard blanking"
	if p.ReducedBlanking {
		blanking = "reduced blanking"
	}
	fmt.Printf("CVT timing for %dx%d (%s)\n\n", p.HActive, p.VActive, blanking)

	fmt.Printf("%-24s %12s %-7s\n", "Parameter", "Value", "Unit")
	fmt.Println(strings.Repeat("-", 45))
	for _, field := range p.OrderedFields() {
		fmt.Printf("%-24s %12s %-7s\n", field.Label, field.Value, field.Unit)
	}
}
