package main

import (
	"github.com/ludo-technologies/crabscore/service"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var standard string
	var configPath string

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Print a compliance export of the score",
		Long: `Score a project and print a compliance export as JSON.

Standards:
  csrd  Corporate Sustainability Reporting Directive fragment
  sbom  SPDX summary fragment
  cra   EU Cyber Resilience Act stub (PASS at an overall score of 70 or more)

Examples:
  crabscore export --standard csrd
  crabscore export ./my-service --standard cra`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}

			std, err := service.ParseExportStandard(standard)
			if err != nil {
				return err
			}

			env, err := loadEnvironment(cmd, configPath, target)
			if err != nil {
				return err
			}

			result, err := env.scoreOnce(cmd, target)
			if err != nil {
				return err
			}

			return service.WriteExport(cmd.OutOrStdout(), result.Score, std)
		},
	}

	cmd.Flags().StringVarP(&standard, "standard", "s", string(service.ExportCSRD),
		"Export standard: csrd, sbom, cra")
	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to config file")

	return cmd
}
