package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/analyzer"
	"github.com/ludo-technologies/crabscore/internal/logging"
	"github.com/ludo-technologies/crabscore/internal/parser"
)

// SafetyAnalyzerImpl parses every Rust file under a root and folds the trees
// into unsafe-region and cyclomatic complexity counts
type SafetyAnalyzerImpl struct {
	reader          domain.RustFileReader
	excludePatterns []string
	logger          *slog.Logger
}

// NewSafetyAnalyzer creates a safety analyzer reading files through reader
func NewSafetyAnalyzer(reader domain.RustFileReader, excludePatterns []string, logger *slog.Logger) *SafetyAnalyzerImpl {
	return &SafetyAnalyzerImpl{
		reader:          reader,
		excludePatterns: excludePatterns,
		logger:          logging.OrDiscard(logger),
	}
}

// Analyze parses every source file under root, a directory or a single file.
// An unreadable or syntactically invalid file fails the whole analysis.
func (s *SafetyAnalyzerImpl) Analyze(ctx context.Context, root string) (domain.SafetyMetrics, error) {
	metrics := domain.DefaultSafetyMetrics()

	if _, err := os.Stat(root); err != nil {
		return metrics, domain.NewFileNotFoundError(root, err)
	}

	files, err := s.reader.CollectRustFiles([]string{root}, true, s.excludePatterns)
	if err != nil {
		return metrics, domain.NewAnalysisError("failed to collect source files", err)
	}

	p := parser.NewParser()
	defer p.Close()

	var functions []*analyzer.ComplexityResult

	for _, file := range files {
		select {
		case <-ctx.Done():
			return metrics, fmt.Errorf("safety analysis cancelled: %w", ctx.Err())
		default:
		}

		content, err := s.reader.ReadFile(file)
		if err != nil {
			return metrics, domain.NewFileNotFoundError(file, err)
		}

		ast, err := p.ParseFile(ctx, file, content)
		if err != nil {
			return metrics, domain.NewParseError(file, err)
		}

		unsafeRegions := analyzer.CountUnsafeRegions(ast)
		fileFunctions := analyzer.FunctionComplexities(ast)

		metrics.UnsafeBlocks += unsafeRegions
		functions = append(functions, fileFunctions...)

		s.logger.Debug("analyzed source file",
			"file", file,
			"unsafe_blocks", unsafeRegions,
			"functions", len(fileFunctions),
		)
	}

	metrics.AvgCyclomatic = analyzer.AverageComplexity(functions)

	s.logger.Info("safety analysis complete",
		"root", root,
		"files", len(files),
		"unsafe_blocks", metrics.UnsafeBlocks,
		"avg_cyclomatic", metrics.AvgCyclomatic,
	)

	return metrics, nil
}
