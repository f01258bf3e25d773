package domain

import (
	"context"
	"math"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatHTML OutputFormat = "html"
)

// MaxComplexityFactor bounds the complexity factor
const MaxComplexityFactor = 10.0

// ProjectComplexity holds line-level counters for a project.
// Values are produced once per run and never modified afterwards.
type ProjectComplexity struct {
	FileCount       int `json:"file_count" yaml:"file_count"`
	TotalLines      int `json:"total_lines" yaml:"total_lines"`
	FunctionCount   int `json:"function_count" yaml:"function_count"`
	ModuleCount     int `json:"module_count" yaml:"module_count"`
	TestCount       int `json:"test_count" yaml:"test_count"`
	DocLines        int `json:"doc_lines" yaml:"doc_lines"`
	DependencyCount int `json:"dependency_count" yaml:"dependency_count"`
}

// DocCoverage returns doc_lines/total_lines, or 0 for an empty project
func (c ProjectComplexity) DocCoverage() float64 {
	if c.TotalLines == 0 {
		return 0
	}
	return float64(c.DocLines) / float64(c.TotalLines)
}

// TestCoverage returns test_count/function_count, or 0 without functions
func (c ProjectComplexity) TestCoverage() float64 {
	if c.FunctionCount == 0 {
		return 0
	}
	return float64(c.TestCount) / float64(c.FunctionCount)
}

// ComplexityFactor returns min(total_lines/1000, 10)
func (c ProjectComplexity) ComplexityFactor() float64 {
	return math.Min(float64(c.TotalLines)/1000.0, MaxComplexityFactor)
}

// ComplexityAnalyzer derives line-level counters for a project
type ComplexityAnalyzer interface {
	// Analyze walks the given path, a directory or a single source file
	Analyze(ctx context.Context, path string) (ProjectComplexity, error)
}

// SafetyAnalyzer derives safety metrics from parsed source files
type SafetyAnalyzer interface {
	// Analyze parses every source file under root. Any parse failure is fatal.
	Analyze(ctx context.Context, root string) (SafetyMetrics, error)
}

// RustFileReader defines the source-file operations used by the analyzers
type RustFileReader interface {
	// CollectRustFiles finds every .rs file under the given paths
	CollectRustFiles(paths []string, recursive bool, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsValidRustFile reports whether path has the Rust source extension
	IsValidRustFile(path string) bool
}
