package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhangjialiang-tt/vesa-timing-gen/internal/version"
)

var (
	// Build variables set by ldflags
	buildVersion string
	buildCommit  string
	buildTime    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vesatiming",
		Short: "VESA CVT video timing calculator and RTL generator",
		Long: `vesatiming computes VESA CVT 1.2 video timings for arbitrary
resolutions, in standard and reduced blanking variants, and generates
synthesizable Verilog timing generator modules with testbenches.`,
		Version: version.GetVersion(buildVersion, buildCommit, buildTime),
	}

	// Add commands
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(presetCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version.GetDetailedVersion(buildVersion, buildCommit, buildTime))
		},
	}
}
