package main

import (
	"log/slog"
	"path/filepath"

	"github.com/ludo-technologies/crabscore/app"
	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/config"
	"github.com/ludo-technologies/crabscore/internal/history"
	"github.com/ludo-technologies/crabscore/internal/logging"
	"github.com/ludo-technologies/crabscore/service"
	"github.com/spf13/cobra"
)

// commandEnv is the configuration and shared collaborators of one command run
type commandEnv struct {
	cfg        *config.Config
	request    *domain.ScoreRequest
	logger     *slog.Logger
	fileHelper *app.FileHelper
}

// loadEnvironment loads configuration for target, explicitly from configPath
// when set, and builds the logger from the config and the -v count
func loadEnvironment(cmd *cobra.Command, configPath, target string) (*commandEnv, error) {
	cfg, err := config.LoadConfigWithTarget(configPath, target)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	logger := logging.New(cmd.ErrOrStderr(), logging.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Verbosity: verbosity,
	})

	req, err := service.NewConfigurationLoader().ToScoreRequest(cfg)
	if err != nil {
		return nil, err
	}

	if path := config.FindConfigFile(configPath, target); path != "" {
		logger.Debug("using configuration", "path", path)
	}

	return &commandEnv{
		cfg:        cfg,
		request:    req,
		logger:     logger,
		fileHelper: app.NewFileHelper().WithGitignore(cfg.Analysis.RespectGitignore),
	}, nil
}

// historyPath resolves the history database for the project at target
func (e *commandEnv) historyPath(target string) string {
	if filepath.IsAbs(e.cfg.History.Path) {
		return e.cfg.History.Path
	}
	return filepath.Join(e.fileHelper.ProjectKey(target), e.cfg.History.Path)
}

// openHistory opens the history store for the project at target
func (e *commandEnv) openHistory(target string) (*history.Store, error) {
	return history.OpenStore(e.historyPath(target), e.logger)
}

// newScoreUseCase wires the scoring pipeline for req
func (e *commandEnv) newScoreUseCase(req *domain.ScoreRequest, pm domain.ProgressManager, store domain.HistoryStore) (*app.ScoreUseCase, error) {
	runner := service.NewExecCommandRunner()

	builder := app.NewScoreUseCaseBuilder().
		WithComplexityAnalyzer(service.NewComplexityAnalyzer(e.fileHelper, req.ExcludePatterns, e.logger)).
		WithSafetyAnalyzer(service.NewSafetyAnalyzer(e.fileHelper, req.ExcludePatterns, e.logger)).
		WithBinaryResolver(service.NewBinaryResolver(runner, e.cfg.Timeouts.BuildTimeout(), e.logger)).
		WithBenchmarkRunner(service.NewBenchmarkRunner(runner, pm, e.logger)).
		WithEstimator(service.NewEstimator()).
		WithScoringEngine(service.NewScoringEngine()).
		WithCostProvider(service.NewStaticCostProvider(req.CostFile, e.logger)).
		WithEnergyMonitor(service.NewNullMonitor()).
		WithFormatter(service.NewOutputFormatter()).
		WithToolchainProbe(service.NewRustToolchain(runner)).
		WithFileHelper(e.fileHelper).
		WithLogger(e.logger)

	if store != nil {
		builder = builder.WithHistoryStore(store)
	}

	return builder.Build()
}

// scoreOnce runs the pipeline for target with the configured settings and no output
func (e *commandEnv) scoreOnce(cmd *cobra.Command, target string) (*domain.ScoreResult, error) {
	req := *e.request
	req.Path = target
	req.OutputWriter = nil
	req.OutputPath = ""
	req.SaveHistory = false

	pm := service.NewProgressManager(true)
	defer pm.Close()

	uc, err := e.newScoreUseCase(&req, pm, nil)
	if err != nil {
		return nil, err
	}
	return uc.Execute(cmd.Context(), req)
}
