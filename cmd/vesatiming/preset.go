package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/cvt"
	"github.com/zhangjialiang-tt/vesa-timing-gen/pkg/preset"
)

func presetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Work with display mode presets",
	}

	cmd.AddCommand(presetListCmd())
	cmd.AddCommand(presetShowCmd())

	return cmd
}

func presetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available presets",
		RunE: func(_ *cobra.Command, _ []string) error {
			presets := preset.GetAll()
			if len(presets) == 0 {
				fmt.Println("No presets available")
				return nil
			}

			fmt.Printf("%-12s %-12s %-8s %-4s %s\n", "Name", "Resolution", "Rate", "RB", "Description")
			fmt.Println(strings.Repeat("-", 72))
			for _, p := range presets {
				rb := ""
				if p.ReducedBlanking {
					rb = "yes"
				}
				fmt.Printf("%-12s %-12s %-8s %-4s %s\n",
					p.Name,
					fmt.Sprintf("%dx%d", p.HActive, p.VActive),
					fmt.Sprintf("%.0f Hz", p.RefreshRate),
					rb,
					p.Description,
				)
			}

			fmt.Printf("\nTotal: %d presets\n", len(presets))
			return nil
		},
	}
}

func presetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the computed timing for a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := preset.Get(args[0])
			if err != nil {
				return err
			}

			calc := cvt.NewCalculator()
			result, err := calc.Calculate(p.Parameters())
			if err != nil {
				return fmt.Errorf("failed to calculate timing: %w", err)
			}

			printResultTable(result)
			return nil
		},
	}
}
