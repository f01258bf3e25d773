package domain

import (
	"context"
	"io"
	"time"
)

// BenchmarkOptions controls how an artifact is benchmarked
type BenchmarkOptions struct {
	// Warmup runs are executed and discarded
	Warmup int
	// Iterations is the number of measured runs
	Iterations int
	// Args are passed to every run
	Args []string
	// RunTimeout bounds a single run. Zero means no limit.
	RunTimeout time.Duration
}

// DefaultBenchmarkOptions returns one warmup and five measured runs without arguments
func DefaultBenchmarkOptions() BenchmarkOptions {
	return BenchmarkOptions{
		Warmup:     1,
		Iterations: 5,
	}
}

// ScoreRequest represents a request to score one project
type ScoreRequest struct {
	// Path is a project directory or a single source file
	Path string

	// Binary is an optional binary name or path
	Binary string

	Profile   IndustryProfile
	Benchmark BenchmarkOptions

	// CostFile is resolved against the analysis root when relative
	CostFile string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string

	// ExcludePatterns are directory or file patterns skipped by the analyzers
	ExcludePatterns []string

	SaveHistory bool
}

// ResolveRequest describes what the binary resolver may look at
type ResolveRequest struct {
	InputPath      string
	Binary         string
	IsCargoProject bool
}

// ScoreInput bundles every measurement fed into the scoring engine
type ScoreInput struct {
	Profile     IndustryProfile
	Performance PerformanceMetrics
	Energy      EnergyMetrics
	Cost        CostMetrics
	Safety      SafetyMetrics
	Complexity  ProjectComplexity
}

// ScoreResult is a CrabScore plus the measurements that produced it
type ScoreResult struct {
	Score        CrabScore          `json:"score" yaml:"score"`
	Complexity   ProjectComplexity  `json:"complexity" yaml:"complexity"`
	Safety       SafetyMetrics      `json:"safety" yaml:"safety"`
	Performance  PerformanceMetrics `json:"performance" yaml:"performance"`
	Energy       EnergyMetrics      `json:"energy" yaml:"energy"`
	Cost         CostMetrics        `json:"cost" yaml:"cost"`
	Breakdown    []BonusAward       `json:"breakdown" yaml:"breakdown"`
	ArtifactPath string             `json:"artifact_path,omitempty" yaml:"artifact_path,omitempty"`
	Path         string             `json:"path" yaml:"path"`
}

// Estimated reports whether performance data was synthesized
func (r *ScoreResult) Estimated() bool {
	return r.Score.Metadata.Measurements.Mode == MeasurementEstimated
}

// BinaryResolver finds or builds a runnable artifact
type BinaryResolver interface {
	// Resolve returns the artifact path, or false when none is available
	Resolve(ctx context.Context, req ResolveRequest) (string, bool)
}

// BenchmarkRunner executes an artifact repeatedly and aggregates latency
type BenchmarkRunner interface {
	Run(ctx context.Context, executable string, opts BenchmarkOptions) (PerformanceMetrics, error)
}

// Estimator synthesizes metrics from project complexity
type Estimator interface {
	EstimatePerformance(c ProjectComplexity) PerformanceMetrics
	EstimateEnergy(c ProjectComplexity) EnergyMetrics
	EstimateCost(c ProjectComplexity) CostMetrics
}

// ScoringEngine combines measurements into a CrabScore
type ScoringEngine interface {
	// Score returns the score and the earned bonus awards
	Score(in ScoreInput) (CrabScore, []BonusAward)
}

// CostProvider supplies cost metrics for a project
type CostProvider interface {
	Collect(ctx context.Context, projectRoot string) (CostMetrics, error)
}

// EnergyMonitor supplies energy metrics
type EnergyMonitor interface {
	Collect(ctx context.Context) (EnergyMetrics, error)
}

// ReportFormatter renders a score result
type ReportFormatter interface {
	Write(result *ScoreResult, format OutputFormat, writer io.Writer) error
}

// HistoryEntry is one stored score
type HistoryEntry struct {
	RunID         string        `json:"run_id" yaml:"run_id"`
	Project       string        `json:"project" yaml:"project"`
	Overall       float64       `json:"overall" yaml:"overall"`
	Performance   float64       `json:"performance" yaml:"performance"`
	Energy        float64       `json:"energy" yaml:"energy"`
	Cost          float64       `json:"cost" yaml:"cost"`
	Bonuses       float64       `json:"bonuses" yaml:"bonuses"`
	Certification Certification `json:"certification" yaml:"certification"`
	Profile       string        `json:"profile" yaml:"profile"`
	Mode          string        `json:"mode" yaml:"mode"`
	CreatedAt     time.Time     `json:"created_at" yaml:"created_at"`
}

// HistoryStore persists scores across runs
type HistoryStore interface {
	Save(ctx context.Context, project string, score CrabScore) error
	List(ctx context.Context, project string, limit int) ([]HistoryEntry, error)
}

// ToolchainProbe reports the installed Rust toolchain
type ToolchainProbe interface {
	RustVersion(ctx context.Context) string
}
