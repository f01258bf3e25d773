package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/constants"
	"github.com/spf13/viper"
)

// Default benchmark settings
const (
	// DefaultWarmupRuns is the number of discarded runs before measuring
	DefaultWarmupRuns = 1

	// DefaultIterations is the number of measured runs
	DefaultIterations = 5

	// MaxIterations bounds measured runs per project
	MaxIterations = 10000
)

// Default subprocess timeouts
const (
	// DefaultBuildTimeoutSeconds bounds a single cargo build
	DefaultBuildTimeoutSeconds = 600

	// DefaultRunTimeoutSeconds bounds a single benchmark run
	DefaultRunTimeoutSeconds = 60
)

// Config represents the main configuration structure
type Config struct {
	// Profile selects the industry weighting
	Profile ProfileConfig `json:"profile" mapstructure:"profile" yaml:"profile"`

	// Benchmark holds measured-run settings
	Benchmark BenchmarkConfig `json:"benchmark" mapstructure:"benchmark" yaml:"benchmark"`

	// Timeouts holds subprocess time limits
	Timeouts TimeoutsConfig `json:"timeouts" mapstructure:"timeouts" yaml:"timeouts"`

	// Cost holds the cost data source
	Cost CostConfig `json:"cost" mapstructure:"cost" yaml:"cost"`

	// Analysis holds source collection settings
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Logging holds log level and format
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`

	// History holds the score history store settings
	History HistoryConfig `json:"history" mapstructure:"history" yaml:"history"`

	// Dashboard holds the report server settings
	Dashboard DashboardConfig `json:"dashboard" mapstructure:"dashboard" yaml:"dashboard"`

	// Performance holds batch execution settings
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`
}

// ProfileConfig selects a preset profile or custom weights
type ProfileConfig struct {
	// Name is a preset name or "custom"
	Name string `json:"name" mapstructure:"name" yaml:"name"`

	// Custom weights, used only when Name is "custom"
	Performance float64 `json:"performance" mapstructure:"performance" yaml:"performance"`
	Energy      float64 `json:"energy" mapstructure:"energy" yaml:"energy"`
	Cost        float64 `json:"cost" mapstructure:"cost" yaml:"cost"`
}

// BenchmarkConfig holds measured-run settings
type BenchmarkConfig struct {
	Warmup     int      `json:"warmup" mapstructure:"warmup" yaml:"warmup"`
	Iterations int      `json:"iterations" mapstructure:"iterations" yaml:"iterations"`
	Args       []string `json:"args" mapstructure:"args" yaml:"args"`
}

// TimeoutsConfig holds subprocess time limits in seconds
type TimeoutsConfig struct {
	BuildSeconds int `json:"build_seconds" mapstructure:"build_seconds" yaml:"build_seconds"`
	RunSeconds   int `json:"run_seconds" mapstructure:"run_seconds" yaml:"run_seconds"`
}

// CostConfig holds the cost data source
type CostConfig struct {
	// File is resolved against the analysis root when relative
	File string `json:"file" mapstructure:"file" yaml:"file"`
}

// AnalysisConfig holds general analysis configuration
type AnalysisConfig struct {
	// ExcludePatterns specifies directory and file patterns to skip
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// RespectGitignore honors .gitignore at the project root
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, html
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Directory specifies where report files are written (empty = current directory)
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig holds log level and format
type LoggingConfig struct {
	// Level is debug, info, warn or error. Empty defers to -v flags.
	Level string `json:"level" mapstructure:"level" yaml:"level"`

	// Format is text or json
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// HistoryConfig holds the score history store settings
type HistoryConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// Path is the sqlite database file, relative to the project root when not absolute
	Path string `json:"path" mapstructure:"path" yaml:"path"`
}

// DashboardConfig holds the report server settings
type DashboardConfig struct {
	Port int `json:"port" mapstructure:"port" yaml:"port"`
}

// PerformanceConfig holds batch execution settings
type PerformanceConfig struct {
	// MaxGoroutines bounds concurrent project pipelines (0 = number of CPUs)
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds a whole batch (0 = no limit)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Profile: ProfileConfig{
			Name: string(domain.ProfileWebServices),
		},
		Benchmark: BenchmarkConfig{
			Warmup:     DefaultWarmupRuns,
			Iterations: DefaultIterations,
			Args:       []string{},
		},
		Timeouts: TimeoutsConfig{
			BuildSeconds: DefaultBuildTimeoutSeconds,
			RunSeconds:   DefaultRunTimeoutSeconds,
		},
		Cost: CostConfig{
			File: constants.DefaultCostFile,
		},
		Analysis: AnalysisConfig{
			ExcludePatterns:  append([]string(nil), constants.DefaultExcludePatterns...),
			RespectGitignore: true,
		},
		Output: OutputConfig{
			Format: string(domain.OutputFormatText),
		},
		Logging: LoggingConfig{
			Format: "text",
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    constants.DefaultHistoryFile,
		},
		Dashboard: DashboardConfig{
			Port: constants.DefaultDashboardPort,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  0,
			TimeoutSeconds: 0,
		},
	}
}

// IndustryProfile converts the profile section to a domain profile
func (p ProfileConfig) IndustryProfile() (domain.IndustryProfile, error) {
	if strings.EqualFold(strings.TrimSpace(p.Name), string(domain.ProfileCustom)) {
		return domain.CustomProfile(p.Performance, p.Energy, p.Cost)
	}
	return domain.ParseIndustryProfile(p.Name)
}

// BuildTimeout returns the cargo build limit
func (t TimeoutsConfig) BuildTimeout() time.Duration {
	return time.Duration(t.BuildSeconds) * time.Second
}

// RunTimeout returns the per-run benchmark limit
func (t TimeoutsConfig) RunTimeout() time.Duration {
	return time.Duration(t.RunSeconds) * time.Second
}

// BenchmarkOptions converts the benchmark and timeout sections to runner options
func (c *Config) BenchmarkOptions() domain.BenchmarkOptions {
	return domain.BenchmarkOptions{
		Warmup:     c.Benchmark.Warmup,
		Iterations: c.Benchmark.Iterations,
		Args:       append([]string(nil), c.Benchmark.Args...),
		RunTimeout: c.Timeouts.RunTimeout(),
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration, discovering a file near targetPath
// when configPath is empty
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// FindConfigFile returns configPath when set, otherwise the file that
// LoadConfigWithTarget would discover for targetPath ("" when none)
func FindConfigFile(configPath string, targetPath string) string {
	if configPath != "" {
		return configPath
	}
	return findDefaultConfig(targetPath)
}

// ConfigCandidates lists the file names searched in each directory, in order
func ConfigCandidates() []string {
	return []string{
		"crabscore.yaml",
		"crabscore.yml",
		".crabscore.yaml",
		"crabscore.toml",
		"crabscore.json",
	}
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for configuration files from targetPath upward,
// then in the current, XDG and home directories, then CRABSCORE_CONFIG
func findDefaultConfig(targetPath string) string {
	candidates := ConfigCandidates()

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}
		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if _, err := c.Profile.IndustryProfile(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	if c.Benchmark.Warmup < 0 {
		return fmt.Errorf("benchmark.warmup must be >= 0, got %d", c.Benchmark.Warmup)
	}

	if c.Benchmark.Iterations < 1 {
		return fmt.Errorf("benchmark.iterations must be >= 1, got %d", c.Benchmark.Iterations)
	}

	if c.Benchmark.Iterations > MaxIterations {
		return fmt.Errorf("benchmark.iterations cannot exceed %d, got %d", MaxIterations, c.Benchmark.Iterations)
	}

	if c.Timeouts.BuildSeconds < 1 {
		return fmt.Errorf("timeouts.build_seconds must be >= 1, got %d", c.Timeouts.BuildSeconds)
	}

	if c.Timeouts.RunSeconds < 1 {
		return fmt.Errorf("timeouts.run_seconds must be >= 1, got %d", c.Timeouts.RunSeconds)
	}

	validFormats := map[string]bool{
		string(domain.OutputFormatText): true,
		string(domain.OutputFormatJSON): true,
		string(domain.OutputFormatYAML): true,
		string(domain.OutputFormatHTML): true,
	}

	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, html", c.Output.Format)
	}

	validLogFormats := map[string]bool{
		"":     true,
		"text": true,
		"json": true,
	}

	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging.format '%s', must be one of: text, json", c.Logging.Format)
	}

	validLevels := map[string]bool{
		"":      true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid logging.level '%s', must be one of: debug, info, warn, error, off", c.Logging.Level)
	}

	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path cannot be empty when history is enabled")
	}

	if c.Dashboard.Port < 1 || c.Dashboard.Port > 65535 {
		return fmt.Errorf("dashboard.port must be between 1 and 65535, got %d", c.Dashboard.Port)
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}

	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	return nil
}
