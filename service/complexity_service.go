package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/constants"
	"github.com/ludo-technologies/crabscore/internal/logging"
)

// ComplexityAnalyzerImpl derives line-level project counters from Rust sources
type ComplexityAnalyzerImpl struct {
	reader          domain.RustFileReader
	excludePatterns []string
	logger          *slog.Logger
}

// NewComplexityAnalyzer creates a complexity analyzer reading files through reader
func NewComplexityAnalyzer(reader domain.RustFileReader, excludePatterns []string, logger *slog.Logger) *ComplexityAnalyzerImpl {
	return &ComplexityAnalyzerImpl{
		reader:          reader,
		excludePatterns: excludePatterns,
		logger:          logging.OrDiscard(logger),
	}
}

// Analyze counts lines, functions, modules, tests and doc comments under path.
// Unreadable files are skipped without affecting any counter.
func (s *ComplexityAnalyzerImpl) Analyze(ctx context.Context, path string) (domain.ProjectComplexity, error) {
	var complexity domain.ProjectComplexity

	complexity.DependencyCount = countCargoDependencies(filepath.Join(path, constants.ManifestFileName), s.logger)

	info, err := os.Stat(path)
	if err != nil {
		return complexity, domain.NewFileNotFoundError(path, err)
	}

	var files []string
	if info.IsDir() {
		files, err = s.reader.CollectRustFiles([]string{path}, true, s.excludePatterns)
		if err != nil {
			return complexity, domain.NewAnalysisError("failed to collect source files", err)
		}
	}

	for _, file := range files {
		select {
		case <-ctx.Done():
			return complexity, fmt.Errorf("complexity analysis cancelled: %w", ctx.Err())
		default:
		}

		content, err := s.reader.ReadFile(file)
		if err != nil {
			s.logger.Debug("skipping unreadable file", "file", file, "error", err)
			continue
		}

		complexity.FileCount++
		lines := splitLines(string(content))
		complexity.TotalLines += len(lines)

		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if isDocLine(trimmed) {
				complexity.DocLines++
			}
			if isFunctionLine(trimmed) {
				complexity.FunctionCount++
			}
			if strings.HasPrefix(trimmed, "mod ") {
				complexity.ModuleCount++
			}
			if strings.Contains(trimmed, "#[test]") || strings.Contains(trimmed, "#[cfg(test)]") {
				complexity.TestCount++
			}
		}
	}

	// A single source file only gets doc and function counts
	if complexity.FileCount == 0 && !info.IsDir() && s.reader.IsValidRustFile(path) {
		complexity.FileCount = 1
		if content, err := s.reader.ReadFile(path); err == nil {
			lines := splitLines(string(content))
			complexity.TotalLines = len(lines)
			for _, line := range lines {
				trimmed := strings.TrimSpace(line)
				if isFunctionLine(trimmed) {
					complexity.FunctionCount++
				}
				if isDocLine(trimmed) {
					complexity.DocLines++
				}
			}
		}
	}

	s.logger.Info("project complexity analyzed",
		"path", path,
		"files", complexity.FileCount,
		"lines", complexity.TotalLines,
		"functions", complexity.FunctionCount,
		"dependencies", complexity.DependencyCount,
	)

	return complexity, nil
}

func isDocLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "///") || strings.HasPrefix(trimmed, "//!")
}

func isFunctionLine(trimmed string) bool {
	return strings.Contains(trimmed, "fn ")
}

// splitLines splits on '\n', drops one trailing empty line and strips '\r'
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// countCargoDependencies returns the size of the [dependencies] table.
// A missing or malformed manifest counts as zero.
func countCargoDependencies(manifestPath string, logger *slog.Logger) int {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return 0
	}

	var manifest map[string]interface{}
	if _, err := toml.Decode(string(data), &manifest); err != nil {
		logger.Warn("ignoring unparsable manifest", "path", manifestPath, "error", err)
		return 0
	}

	deps, ok := manifest["dependencies"].(map[string]interface{})
	if !ok {
		logger.Debug("manifest has no dependencies table", "path", manifestPath)
		return 0
	}
	return len(deps)
}
