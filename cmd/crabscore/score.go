package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ludo-technologies/crabscore/app"
	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/service"
	"github.com/spf13/cobra"
)

type scoreOptions struct {
	binary      string
	profile     string
	format      string
	outputPath  string
	configPath  string
	costFile    string
	iterations  int
	warmup      int
	exclude     []string
	saveHistory bool
}

func scoreCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score [path...]",
		Short: "Score Rust projects",
		Long: `Score one or more Rust projects or single source files.

The binary is benchmarked when it can be found or built with cargo; otherwise
performance, energy and cost are estimated from the code's size.

Examples:
  crabscore score
  crabscore score ./my-service --bin server --profile financial
  crabscore score --format json --output score.json
  crabscore score crates/api crates/worker`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.binary, "bin", "",
		"Binary name or path to benchmark")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "",
		"Industry profile: web_services, iot_embedded, financial, gaming, enterprise")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		"Output format: text, json, yaml, html")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&opts.costFile, "cost-file", "",
		"Cost data JSON file (default cost.json in the project root)")
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "n", 0,
		"Number of measured benchmark runs")
	cmd.Flags().IntVar(&opts.warmup, "warmup", 0,
		"Number of discarded warmup runs")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil,
		"Additional directory or file patterns to skip")
	cmd.Flags().BoolVar(&opts.saveHistory, "save-history", false,
		"Store the score in the project's history database")

	return cmd
}

func runScore(cmd *cobra.Command, args []string, opts *scoreOptions) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	env, err := loadEnvironment(cmd, opts.configPath, paths[0])
	if err != nil {
		return err
	}

	override, err := opts.request(cmd, paths[0])
	if err != nil {
		return err
	}

	loader := service.NewConfigurationLoader()
	req := loader.MergeConfig(env.request, override)
	if err := loader.ValidateConfig(req); err != nil {
		return err
	}

	pm := service.NewProgressManager(req.OutputPath != "" || req.OutputFormat == domain.OutputFormatText)
	defer pm.Close()

	var store domain.HistoryStore
	if req.SaveHistory {
		historyRoot := paths[0]
		if len(paths) > 1 {
			historyRoot = "."
		}
		s, err := env.openHistory(historyRoot)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	uc, err := env.newScoreUseCase(req, pm, store)
	if err != nil {
		return err
	}

	if len(paths) == 1 {
		_, err := uc.Execute(cmd.Context(), *req)
		return err
	}

	executor := service.NewParallelExecutorWithProgress(&env.cfg.Performance, pm)
	batch := app.NewBatchScoreUseCase(uc, executor)

	items, batchErr := batch.Execute(cmd.Context(), *req, paths)

	w, closeOutput, err := outputWriter(cmd, req.OutputPath)
	if err != nil {
		return err
	}
	defer closeOutput()

	if err := batch.WriteReports(items, req.OutputFormat, w); err != nil {
		return err
	}
	return batchErr
}

// request converts flags into an override request. Unchanged flags stay unset.
func (o *scoreOptions) request(cmd *cobra.Command, path string) (*domain.ScoreRequest, error) {
	req := &domain.ScoreRequest{
		Path:            path,
		Binary:          o.binary,
		CostFile:        o.costFile,
		OutputFormat:    domain.OutputFormat(o.format),
		OutputWriter:    cmd.OutOrStdout(),
		OutputPath:      o.outputPath,
		ExcludePatterns: o.exclude,
		SaveHistory:     o.saveHistory,
		Benchmark: domain.BenchmarkOptions{
			Warmup:     -1,
			Iterations: o.iterations,
		},
	}

	if cmd.Flags().Changed("warmup") {
		if o.warmup < 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("warmup cannot be negative, got %d", o.warmup))
		}
		req.Benchmark.Warmup = o.warmup
	}

	if cmd.Flags().Changed("iterations") && o.iterations < 1 {
		return nil, domain.NewValidationError(fmt.Sprintf("iterations must be at least 1, got %d", o.iterations))
	}

	if o.profile != "" {
		profile, err := domain.ParseIndustryProfile(o.profile)
		if err != nil {
			return nil, err
		}
		req.Profile = profile
	}

	return req, nil
}

// outputWriter opens path for writing, or returns stdout when path is empty
func outputWriter(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, domain.NewOutputError(fmt.Sprintf("failed to create output file %s", path), err)
	}
	return f, func() { _ = f.Close() }, nil
}
