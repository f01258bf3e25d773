package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/service"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int
	var format string
	var configPath string

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "List stored scores for a project",
		Long: `List scores saved with 'crabscore score --save-history', newest first.

Examples:
  crabscore history
  crabscore history ./my-service --limit 5 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}
			if limit < 0 {
				return domain.NewValidationError(fmt.Sprintf("limit cannot be negative, got %d", limit))
			}

			env, err := loadEnvironment(cmd, configPath, target)
			if err != nil {
				return err
			}

			store, err := env.openHistory(target)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), env.fileHelper.ProjectKey(target), limit)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return service.WriteJSON(cmd.OutOrStdout(), entries)
			case "yaml":
				return service.WriteYAML(cmd.OutOrStdout(), entries)
			case "text", "":
				return writeHistoryTable(cmd, entries)
			default:
				return domain.NewUnsupportedFormatError(format)
			}
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", service.DefaultHistoryLimit,
		"Maximum number of entries (0 = all)")
	cmd.Flags().StringVarP(&format, "format", "f", "text",
		"Output format: text, json, yaml")
	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func writeHistoryTable(cmd *cobra.Command, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored scores. Run 'crabscore score --save-history' first.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tOVERALL\tPERF\tENERGY\tCOST\tBONUS\tCERT\tPROFILE\tMODE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Overall, e.Performance, e.Energy, e.Cost, e.Bonuses,
			e.Certification, e.Profile, e.Mode)
	}
	return tw.Flush()
}
