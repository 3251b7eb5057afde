package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/cvt"
	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/rtl"
)

func generateCmd() *cobra.Command {
	var (
		flags      timingFlags
		outputDir  string
		moduleOnly bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Verilog RTL for a timing",
		Long: `Compute a CVT timing and generate a synthesizable Verilog timing
generator module together with a simulation testbench.

Examples:
  # Full HD at 60 Hz into the default output directory
  vesatiming generate --width 1920 --height 1080 --rate 60

  # 4K reduced blanking from a preset, module only
  vesatiming generate --preset 2160p60rb --module-only

  # Custom output directory
  vesatiming generate --preset 1080p60 --output rtl/`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := flags.parameters(cmd)
			if err != nil {
				return err
			}

			calc := cvt.NewCalculator()
			result, err := calc.Calculate(params)
			if err != nil {
				return fmt.Errorf("failed to calculate timing: %w", err)
			}

			gen := rtl.NewGenerator()
			moduleName := rtl.ModuleName(result)

			moduleCode, err := gen.GenerateModule(result)
			if err != nil {
				return fmt.Errorf("failed to generate module: %w", err)
			}

			if outputDir == "" {
				outputDir = getOutputDir()
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			modulePath := filepath.Join(outputDir, rtl.ModuleFileName(moduleName))
			if err := os.WriteFile(modulePath, []byte(moduleCode), 0600); err != nil {
				return fmt.Errorf("failed to write module: %w", err)
			}

			var tbPath string
			if !moduleOnly {
				tbCode, err := gen.GenerateTestbench(result)
				if err != nil {
					return fmt.Errorf("failed to generate testbench: %w", err)
				}
				tbPath = filepath.Join(outputDir, rtl.TestbenchFileName(moduleName))
				if err := os.WriteFile(tbPath, []byte(tbCode), 0600); err != nil {
					return fmt.Errorf("failed to write testbench: %w", err)
				}
			}

			printResultTable(result)

			// Get absolute paths for display
			absModule, _ := filepath.Abs(modulePath)

			fmt.Printf("\nGenerated RTL for %dx%d @ %.2f Hz\n", result.HActive, result.VActive, result.RefreshRate)
			fmt.Printf("Pixel clock: %.2f MHz\n", result.PixelClock)
			fmt.Printf("Module:      %s\n", absModule)
			if tbPath != "" {
				absTB, _ := filepath.Abs(tbPath)
				fmt.Printf("Testbench:   %s\n", absTB)
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default $VESA_TIMING_OUTPUT or ./output)")
	cmd.Flags().BoolVar(&moduleOnly, "module-only", false, "Generate the module without a testbench")

	return cmd
}
