package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/crabscore/domain"
)

// BatchItem is the outcome of scoring one project in a batch
type BatchItem struct {
	Path   string
	Result *domain.ScoreResult
	Err    error
}

// BatchScoreUseCase scores several projects concurrently. Each project runs
// its own sequential pipeline; one failure does not stop the others.
type BatchScoreUseCase struct {
	score     *ScoreUseCase
	executor  domain.ParallelExecutor
	formatter domain.ReportFormatter
}

// NewBatchScoreUseCase creates a batch use case over a single-project pipeline
func NewBatchScoreUseCase(score *ScoreUseCase, executor domain.ParallelExecutor) *BatchScoreUseCase {
	return &BatchScoreUseCase{
		score:     score,
		executor:  executor,
		formatter: score.formatter,
	}
}

// Execute scores every path with the settings of base. Items are returned in
// path order; the error aggregates per-project failures.
func (uc *BatchScoreUseCase) Execute(ctx context.Context, base domain.ScoreRequest, paths []string) ([]BatchItem, error) {
	if len(paths) == 0 {
		return nil, domain.NewInvalidInputError("no input paths specified", nil)
	}

	items := make([]BatchItem, len(paths))
	tasks := make([]domain.ExecutableTask, len(paths))
	for i, path := range paths {
		req := base
		req.Path = path
		req.OutputPath = ""
		req.OutputWriter = nil

		items[i].Path = path
		tasks[i] = &scoreTask{usecase: uc.score, req: req, item: &items[i]}
	}

	err := uc.executor.Execute(ctx, tasks)
	return items, err
}

// WriteReports renders every successful item to w in path order
func (uc *BatchScoreUseCase) WriteReports(items []BatchItem, format domain.OutputFormat, w io.Writer) error {
	if format == "" {
		format = domain.OutputFormatText
	}
	for _, item := range items {
		if item.Result == nil {
			continue
		}
		if err := uc.formatter.Write(item.Result, format, w); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", item.Path, err)
		}
	}
	return nil
}

// scoreTask adapts one project pipeline to the parallel executor
type scoreTask struct {
	usecase *ScoreUseCase
	req     domain.ScoreRequest
	item    *BatchItem
}

func (t *scoreTask) Name() string {
	return t.req.Path
}

func (t *scoreTask) IsEnabled() bool {
	return true
}

func (t *scoreTask) Execute(ctx context.Context) (interface{}, error) {
	if err := t.usecase.validateRequest(t.req); err != nil {
		t.item.Err = domain.NewInvalidInputError("invalid request", err)
		return nil, t.item.Err
	}

	result, err := t.usecase.Score(ctx, t.req)
	t.item.Result = result
	t.item.Err = err
	return result, err
}
