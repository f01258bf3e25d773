package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/logging"
	"github.com/ludo-technologies/crabscore/internal/version"
	"github.com/ludo-technologies/crabscore/service"
)

// ScoreUseCase runs the scoring pipeline for one project:
// complexity, binary resolution, measurement or estimation, safety, scoring.
type ScoreUseCase struct {
	complexity domain.ComplexityAnalyzer
	safety     domain.SafetyAnalyzer
	resolver   domain.BinaryResolver
	benchmark  domain.BenchmarkRunner
	estimator  domain.Estimator
	engine     domain.ScoringEngine
	cost       domain.CostProvider
	energy     domain.EnergyMonitor
	formatter  domain.ReportFormatter
	history    domain.HistoryStore
	toolchain  domain.ToolchainProbe
	fileHelper *FileHelper
	logger     *slog.Logger

	now      func() time.Time
	newRunID func() string
}

// Execute scores the project at req.Path and writes the report when an
// output path or writer is set
func (uc *ScoreUseCase) Execute(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	result, err := uc.Score(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := uc.writeOutput(result, req); err != nil {
		return nil, err
	}

	return result, nil
}

// Score runs the pipeline without rendering a report
func (uc *ScoreUseCase) Score(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	start := uc.now()
	path := filepath.Clean(req.Path)

	if _, err := os.Stat(path); err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}

	complexity, err := uc.complexity.Analyze(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("complexity analysis failed: %w", err)
	}
	uc.logger.Info("analyzed project",
		"path", path,
		"files", complexity.FileCount,
		"lines", complexity.TotalLines,
		"functions", complexity.FunctionCount,
	)

	isCargo := uc.fileHelper.IsCargoProject(path)
	analysisRoot := path
	if isCargo {
		analysisRoot = uc.fileHelper.ProjectRoot(path)
	}

	artifact, found := uc.resolver.Resolve(ctx, domain.ResolveRequest{
		InputPath:      path,
		Binary:         req.Binary,
		IsCargoProject: isCargo,
	})
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", err)
	}

	result := &domain.ScoreResult{
		Complexity: complexity,
		Path:       path,
	}

	mode := domain.MeasurementEstimated
	iterations := 0

	if found {
		uc.logger.Info("found executable for benchmarking", "artifact", artifact)
		result.ArtifactPath = artifact
		mode = domain.MeasurementBenchmark
		iterations = req.Benchmark.Iterations
		if err := uc.measure(ctx, result, artifact, analysisRoot, req.Benchmark); err != nil {
			return nil, err
		}
	} else {
		uc.logger.Info("no executable found, estimating from static analysis", "path", path)
		if err := uc.estimate(ctx, result, analysisRoot); err != nil {
			return nil, err
		}
	}

	profile := req.Profile
	if profile.Kind == "" {
		profile = domain.DefaultIndustryProfile()
	}

	score, awards := uc.engine.Score(domain.ScoreInput{
		Profile:     profile,
		Performance: result.Performance,
		Energy:      result.Energy,
		Cost:        result.Cost,
		Safety:      result.Safety,
		Complexity:  result.Complexity,
	})

	score.Metadata.RunID = uc.newRunID()
	score.Metadata.ProjectName = projectName(analysisRoot)
	score.Metadata.Version = version.GetVersion()
	score.Metadata.Measurements.Mode = mode
	score.Metadata.Measurements.Iterations = iterations
	score.Metadata.Measurements.Environment.RustVersion = uc.rustVersion(ctx)
	score.Metadata.Measurements.DurationMs = uc.now().Sub(start).Milliseconds()

	result.Score = score
	result.Breakdown = awards

	if req.SaveHistory && uc.history != nil {
		key := uc.fileHelper.ProjectKey(path)
		if err := uc.history.Save(ctx, key, score); err != nil {
			uc.logger.Warn("failed to save score history", "project", key, "error", err)
		}
	}

	uc.logger.Info("scored project",
		"project", score.Metadata.ProjectName,
		"overall", score.Overall,
		"certification", score.Certification.String(),
		"mode", string(mode),
	)

	return result, nil
}

// measure collects benchmark, energy, safety and cost data for a resolved artifact
func (uc *ScoreUseCase) measure(ctx context.Context, result *domain.ScoreResult, artifact, root string, opts domain.BenchmarkOptions) error {
	perf, err := uc.benchmark.Run(ctx, artifact, opts)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("benchmark cancelled: %w", ctx.Err())
		}
		uc.logger.Warn("performance benchmark failed, using defaults", "artifact", artifact, "error", err)
		perf = domain.DefaultPerformanceMetrics()
	}
	result.Performance = perf

	energy, err := uc.energy.Collect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("energy collection cancelled: %w", ctx.Err())
		}
		uc.logger.Warn("energy monitor failed, using zero metrics", "error", err)
		energy = domain.EnergyMetrics{}
	}
	result.Energy = energy

	if result.Safety, err = uc.analyzeSafety(ctx, root); err != nil {
		return err
	}

	cost, err := uc.cost.Collect(ctx, root)
	if err != nil {
		if !isFileNotFound(err) {
			return fmt.Errorf("cost collection failed: %w", err)
		}
		uc.logger.Warn("cost provider returned no data, using defaults", "root", root, "error", err)
		cost = domain.CostMetrics{}
	}
	result.Cost = cost

	return nil
}

// estimate synthesizes performance, energy and cost from complexity
func (uc *ScoreUseCase) estimate(ctx context.Context, result *domain.ScoreResult, root string) error {
	result.Performance = uc.estimator.EstimatePerformance(result.Complexity)
	result.Energy = uc.estimator.EstimateEnergy(result.Complexity)

	safety, err := uc.analyzeSafety(ctx, root)
	if err != nil {
		return err
	}
	result.Safety = safety

	result.Cost = uc.estimator.EstimateCost(result.Complexity)
	return nil
}

func (uc *ScoreUseCase) analyzeSafety(ctx context.Context, root string) (domain.SafetyMetrics, error) {
	safety, err := uc.safety.Analyze(ctx, root)
	if err != nil {
		return safety, fmt.Errorf("safety analysis failed: %w", err)
	}
	return safety, nil
}

func (uc *ScoreUseCase) rustVersion(ctx context.Context) string {
	if uc.toolchain == nil {
		return service.UnknownRustVersion
	}
	return uc.toolchain.RustVersion(ctx)
}

// writeOutput renders the report to the output file, or to the writer
func (uc *ScoreUseCase) writeOutput(result *domain.ScoreResult, req domain.ScoreRequest) error {
	format := req.OutputFormat
	if format == "" {
		format = domain.OutputFormatText
	}

	if req.OutputPath != "" {
		f, err := os.Create(req.OutputPath)
		if err != nil {
			return domain.NewOutputError(fmt.Sprintf("failed to create output file %s", req.OutputPath), err)
		}
		defer f.Close()

		if err := uc.formatter.Write(result, format, f); err != nil {
			return err
		}
		uc.logger.Info("report written", "path", req.OutputPath, "format", string(format))
		return nil
	}

	if req.OutputWriter != nil {
		return uc.formatter.Write(result, format, req.OutputWriter)
	}

	return nil
}

// validateRequest validates the score request
func (uc *ScoreUseCase) validateRequest(req domain.ScoreRequest) error {
	if req.Path == "" {
		return fmt.Errorf("no input path specified")
	}

	if req.Benchmark.Warmup < 0 {
		return fmt.Errorf("warmup cannot be negative")
	}

	if req.Benchmark.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1")
	}

	if req.Benchmark.RunTimeout < 0 {
		return fmt.Errorf("run timeout cannot be negative")
	}

	return nil
}

func isFileNotFound(err error) bool {
	var domainErr domain.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == domain.ErrCodeFileNotFound
}

func projectName(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Base(root)
}

// ScoreUseCaseBuilder provides a builder pattern for creating ScoreUseCase
type ScoreUseCaseBuilder struct {
	complexity domain.ComplexityAnalyzer
	safety     domain.SafetyAnalyzer
	resolver   domain.BinaryResolver
	benchmark  domain.BenchmarkRunner
	estimator  domain.Estimator
	engine     domain.ScoringEngine
	cost       domain.CostProvider
	energy     domain.EnergyMonitor
	formatter  domain.ReportFormatter
	history    domain.HistoryStore
	toolchain  domain.ToolchainProbe
	fileHelper *FileHelper
	logger     *slog.Logger
	now        func() time.Time
	newRunID   func() string
}

// NewScoreUseCaseBuilder creates a new builder
func NewScoreUseCaseBuilder() *ScoreUseCaseBuilder {
	return &ScoreUseCaseBuilder{}
}

// WithComplexityAnalyzer sets the complexity analyzer
func (b *ScoreUseCaseBuilder) WithComplexityAnalyzer(a domain.ComplexityAnalyzer) *ScoreUseCaseBuilder {
	b.complexity = a
	return b
}

// WithSafetyAnalyzer sets the safety analyzer
func (b *ScoreUseCaseBuilder) WithSafetyAnalyzer(a domain.SafetyAnalyzer) *ScoreUseCaseBuilder {
	b.safety = a
	return b
}

// WithBinaryResolver sets the binary resolver
func (b *ScoreUseCaseBuilder) WithBinaryResolver(r domain.BinaryResolver) *ScoreUseCaseBuilder {
	b.resolver = r
	return b
}

// WithBenchmarkRunner sets the benchmark runner
func (b *ScoreUseCaseBuilder) WithBenchmarkRunner(r domain.BenchmarkRunner) *ScoreUseCaseBuilder {
	b.benchmark = r
	return b
}

// WithEstimator sets the estimation fallback
func (b *ScoreUseCaseBuilder) WithEstimator(e domain.Estimator) *ScoreUseCaseBuilder {
	b.estimator = e
	return b
}

// WithScoringEngine sets the scoring engine
func (b *ScoreUseCaseBuilder) WithScoringEngine(e domain.ScoringEngine) *ScoreUseCaseBuilder {
	b.engine = e
	return b
}

// WithCostProvider sets the cost provider
func (b *ScoreUseCaseBuilder) WithCostProvider(p domain.CostProvider) *ScoreUseCaseBuilder {
	b.cost = p
	return b
}

// WithEnergyMonitor sets the energy monitor
func (b *ScoreUseCaseBuilder) WithEnergyMonitor(m domain.EnergyMonitor) *ScoreUseCaseBuilder {
	b.energy = m
	return b
}

// WithFormatter sets the report formatter
func (b *ScoreUseCaseBuilder) WithFormatter(f domain.ReportFormatter) *ScoreUseCaseBuilder {
	b.formatter = f
	return b
}

// WithHistoryStore sets the optional history store
func (b *ScoreUseCaseBuilder) WithHistoryStore(s domain.HistoryStore) *ScoreUseCaseBuilder {
	b.history = s
	return b
}

// WithToolchainProbe sets the Rust toolchain probe
func (b *ScoreUseCaseBuilder) WithToolchainProbe(p domain.ToolchainProbe) *ScoreUseCaseBuilder {
	b.toolchain = p
	return b
}

// WithFileHelper sets the file helper
func (b *ScoreUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ScoreUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// WithLogger sets the logger
func (b *ScoreUseCaseBuilder) WithLogger(logger *slog.Logger) *ScoreUseCaseBuilder {
	b.logger = logger
	return b
}

// WithClock sets the time source used for run duration
func (b *ScoreUseCaseBuilder) WithClock(now func() time.Time) *ScoreUseCaseBuilder {
	b.now = now
	return b
}

// WithRunIDGenerator sets the run id source
func (b *ScoreUseCaseBuilder) WithRunIDGenerator(gen func() string) *ScoreUseCaseBuilder {
	b.newRunID = gen
	return b
}

// Build creates the ScoreUseCase with the configured dependencies
func (b *ScoreUseCaseBuilder) Build() (*ScoreUseCase, error) {
	if b.complexity == nil {
		return nil, fmt.Errorf("complexity analyzer is required")
	}
	if b.safety == nil {
		return nil, fmt.Errorf("safety analyzer is required")
	}
	if b.resolver == nil {
		return nil, fmt.Errorf("binary resolver is required")
	}
	if b.benchmark == nil {
		return nil, fmt.Errorf("benchmark runner is required")
	}

	logger := logging.OrDiscard(b.logger)

	uc := &ScoreUseCase{
		complexity: b.complexity,
		safety:     b.safety,
		resolver:   b.resolver,
		benchmark:  b.benchmark,
		estimator:  b.estimator,
		engine:     b.engine,
		cost:       b.cost,
		energy:     b.energy,
		formatter:  b.formatter,
		history:    b.history,
		toolchain:  b.toolchain,
		fileHelper: b.fileHelper,
		logger:     logger,
		now:        b.now,
		newRunID:   b.newRunID,
	}

	if uc.estimator == nil {
		uc.estimator = service.NewEstimator()
	}
	if uc.engine == nil {
		uc.engine = service.NewScoringEngine()
	}
	if uc.cost == nil {
		uc.cost = service.NewStaticCostProvider("", logger)
	}
	if uc.energy == nil {
		uc.energy = service.NewNullMonitor()
	}
	if uc.formatter == nil {
		uc.formatter = service.NewOutputFormatter()
	}
	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.newRunID == nil {
		uc.newRunID = uuid.NewString
	}

	return uc, nil
}
