package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/logging"
)

// BenchmarkRunnerImpl runs an artifact repeatedly and derives latency percentiles
type BenchmarkRunnerImpl struct {
	runner   CommandRunner
	progress domain.ProgressManager
	logger   *slog.Logger
}

// NewBenchmarkRunner creates a benchmark runner
func NewBenchmarkRunner(runner CommandRunner, pm domain.ProgressManager, logger *slog.Logger) *BenchmarkRunnerImpl {
	return &BenchmarkRunnerImpl{
		runner:   runner,
		progress: progressOrNoOp(pm),
		logger:   logging.OrDiscard(logger),
	}
}

// Run executes warmup runs, then measured runs, and aggregates the successful ones.
// A warmup that cannot start or times out aborts the benchmark; a non-zero
// warmup exit is ignored. Failed measured runs are left out of the samples.
func (b *BenchmarkRunnerImpl) Run(ctx context.Context, executable string, opts domain.BenchmarkOptions) (domain.PerformanceMetrics, error) {
	spec := CommandSpec{
		Name:    executable,
		Args:    opts.Args,
		Timeout: opts.RunTimeout,
	}

	for i := 0; i < opts.Warmup; i++ {
		if _, err := b.runner.Run(ctx, spec); err != nil {
			return domain.ZeroPerformanceMetrics(), fmt.Errorf("warmup run %d failed: %w", i+1, err)
		}
	}

	task := b.progress.StartTask("Benchmarking", opts.Iterations)
	defer task.Complete()

	samples := make([]float64, 0, opts.Iterations)
	for i := 0; i < opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return domain.ZeroPerformanceMetrics(), fmt.Errorf("benchmark cancelled: %w", err)
		}

		result, err := b.runner.Run(ctx, spec)
		task.Increment(1)

		switch {
		case err != nil:
			b.logger.Debug("measured run excluded", "iteration", i+1, "error", err)
		case !result.Success():
			b.logger.Debug("measured run excluded", "iteration", i+1, "exit_code", result.ExitCode)
		default:
			samples = append(samples, float64(result.Duration.Nanoseconds())/1e6)
		}
	}

	b.logger.Info("benchmark finished",
		"executable", executable,
		"iterations", opts.Iterations,
		"samples", len(samples),
	)

	return PerformanceFromSamples(samples), nil
}

// PerformanceFromSamples builds metrics from wall-clock samples in milliseconds.
// No samples yields fully zeroed metrics.
func PerformanceFromSamples(samples []float64) domain.PerformanceMetrics {
	if len(samples) == 0 {
		return domain.ZeroPerformanceMetrics()
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	n := len(sorted)

	metrics := domain.DefaultPerformanceMetrics()
	metrics.Latency.P50Ms = sorted[PercentileIndex(0.50, n)]
	metrics.Latency.P95Ms = sorted[PercentileIndex(0.95, n)]
	metrics.Latency.P99Ms = sorted[PercentileIndex(0.99, n)]
	metrics.Latency.ColdStartMs = sorted[0]
	metrics.Latency.TTFBMs = 0

	if metrics.Latency.P50Ms > 0 {
		metrics.Throughput.RequestsPerSecond = 1000.0 / metrics.Latency.P50Ms
	}

	return metrics
}

// PercentileIndex returns clamp(round(p*(n-1)), 0, n-1)
func PercentileIndex(p float64, n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(math.Round(p * float64(n-1)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}
