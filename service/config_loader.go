package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/config"
)

// ConfigurationLoaderImpl turns configuration files into score requests
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.ScoreRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return c.ToScoreRequest(cfg)
}

// LoadDefaultConfig loads the configuration discovered near target, falling
// back to built-in defaults when none is found or it cannot be read
func (c *ConfigurationLoaderImpl) LoadDefaultConfig(target string) *domain.ScoreRequest {
	if cfg, err := config.LoadConfigWithTarget("", target); err == nil {
		if req, err := c.ToScoreRequest(cfg); err == nil {
			return req
		}
	}

	req, _ := c.ToScoreRequest(config.DefaultConfig())
	return req
}

// FindDefaultConfigFile searches start and its parents for a configuration file
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile(start string) string {
	dir := start
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = wd
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		for _, name := range config.ConfigCandidates() {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ToScoreRequest converts a Config to a ScoreRequest. Paths are set by the caller.
func (c *ConfigurationLoaderImpl) ToScoreRequest(cfg *config.Config) (*domain.ScoreRequest, error) {
	profile, err := cfg.Profile.IndustryProfile()
	if err != nil {
		return nil, domain.NewConfigError("invalid profile", err)
	}

	return &domain.ScoreRequest{
		Profile:         profile,
		Benchmark:       cfg.BenchmarkOptions(),
		CostFile:        cfg.Cost.File,
		OutputFormat:    domain.OutputFormat(cfg.Output.Format),
		ExcludePatterns: append([]string(nil), cfg.Analysis.ExcludePatterns...),
		SaveHistory:     cfg.History.Enabled,
	}, nil
}

// MergeConfig overlays command-line values on a configuration-derived request.
// Zero values in override leave base untouched; a negative warmup means unset.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.ScoreRequest, override *domain.ScoreRequest) *domain.ScoreRequest {
	merged := *base
	merged.Benchmark.Args = append([]string(nil), base.Benchmark.Args...)
	merged.ExcludePatterns = append([]string(nil), base.ExcludePatterns...)

	if override.Path != "" {
		merged.Path = override.Path
	}
	if override.Binary != "" {
		merged.Binary = override.Binary
	}
	if override.Profile.Kind != "" {
		merged.Profile = override.Profile
	}

	if override.Benchmark.Warmup >= 0 {
		merged.Benchmark.Warmup = override.Benchmark.Warmup
	}
	if override.Benchmark.Iterations > 0 {
		merged.Benchmark.Iterations = override.Benchmark.Iterations
	}
	if len(override.Benchmark.Args) > 0 {
		merged.Benchmark.Args = append([]string(nil), override.Benchmark.Args...)
	}
	if override.Benchmark.RunTimeout > 0 {
		merged.Benchmark.RunTimeout = override.Benchmark.RunTimeout
	}

	if override.CostFile != "" {
		merged.CostFile = override.CostFile
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = append(merged.ExcludePatterns, override.ExcludePatterns...)
	}
	if override.SaveHistory {
		merged.SaveHistory = true
	}

	return &merged
}

// ValidateConfig validates a merged request
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.ScoreRequest) error {
	if req.Path == "" {
		return domain.NewInvalidInputError("no path specified", nil)
	}

	if req.Benchmark.Warmup < 0 {
		return domain.NewValidationError(fmt.Sprintf("warmup cannot be negative, got %d", req.Benchmark.Warmup))
	}

	if req.Benchmark.Iterations < 1 || req.Benchmark.Iterations > config.MaxIterations {
		return domain.NewValidationError(fmt.Sprintf("iterations must be between 1 and %d, got %d",
			config.MaxIterations, req.Benchmark.Iterations))
	}

	if _, err := ParseOutputFormat(string(req.OutputFormat)); err != nil {
		return domain.NewValidationError(fmt.Sprintf("invalid output format: %s (must be one of: text, json, yaml, html)",
			req.OutputFormat))
	}

	return nil
}
