package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/crabscore/internal/version"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crabscore",
		Short: "crabscore - efficiency score for Rust projects",
		Long: `crabscore rates a Rust project on performance, energy and cost.

It benchmarks the project's binary when one can be found or built, falls back
to estimates from static analysis otherwise, and combines the results with
safety and complexity bonuses into a 0-100 score and certification tier.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountP("verbose", "v",
		"Increase log verbosity (-v info, -vv debug)")

	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetCount("verbose")
			if verbose > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "crabscore version %s\n", version.GetVersion())
			}
		},
	}
}
