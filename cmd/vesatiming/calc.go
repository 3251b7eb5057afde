package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/cvt"
	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/export"
)

func calcCmd() *cobra.Command {
	var (
		flags      timingFlags
		text       bool
		exportPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate CVT timing parameters",
		Long: `Calculate VESA CVT 1.2 timing parameters for a resolution.

The driving quantity selects the computation mode: give --rate to derive
the pixel clock, --clock to derive the refresh rate, or both to reconcile
a known pair.

Examples:
  # Full HD at 60 Hz, standard blanking
  vesatiming calc --width 1920 --height 1080 --rate 60

  # 4K reduced blanking from a preset
  vesatiming calc --preset 2160p60rb

  # Infer the refresh rate from a pixel clock
  vesatiming calc --width 1920 --height 1080 --clock 138.5 --rb

  # Export the result as JSON
  vesatiming calc --preset 1080p60 --export timing.json --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Validate inputs
			if exportPath == "" && cmd.Flags().Changed("format") {
				return fmt.Errorf("--format requires --export")
			}
			var exportFormat export.Format
			if exportPath != "" {
				var err error
				exportFormat, err = export.ParseFormat(format)
				if err != nil {
					return err
				}
			}

			params, err := flags.parameters(cmd)
			if err != nil {
				return err
			}

			calc := cvt.NewCalculator()
			result, err := calc.Calculate(params)
			if err != nil {
				return fmt.Errorf("failed to calculate timing: %w", err)
			}

			if text {
				fmt.Print(result.FormatText())
			} else {
				printResultTable(result)
			}

			if exportPath != "" {
				f, err := os.OpenFile(exportPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				defer func() { _ = f.Close() }()

				if err := export.Write(f, exportFormat, result); err != nil {
					return fmt.Errorf("failed to export: %w", err)
				}

				absPath, _ := filepath.Abs(exportPath)
				fmt.Printf("\nExported %s to %s\n", format, absPath)
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&text, "text", false, "Plain 'Label: Value Unit' output instead of a table")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write the result to a file")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format (csv or json)")

	return cmd
}
