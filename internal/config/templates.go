package config

import (
	"strconv"
	"strings"

	"github.com/ludo-technologies/crabscore/domain"
)

// BenchmarkDepth represents how much measurement effort a project gets
type BenchmarkDepth string

const (
	BenchmarkDepthQuick    BenchmarkDepth = "quick"
	BenchmarkDepthStandard BenchmarkDepth = "standard"
	BenchmarkDepthThorough BenchmarkDepth = "thorough"
)

// BenchmarkPreset holds run counts and limits for a benchmark depth
type BenchmarkPreset struct {
	Warmup      int
	Iterations  int
	RunSeconds  int
	Description string
}

// GetBenchmarkPresets returns presets for each benchmark depth
func GetBenchmarkPresets() map[BenchmarkDepth]BenchmarkPreset {
	return map[BenchmarkDepth]BenchmarkPreset{
		BenchmarkDepthQuick: {
			Warmup:      0,
			Iterations:  3,
			RunSeconds:  30,
			Description: "Fast feedback for local development",
		},
		BenchmarkDepthStandard: {
			Warmup:      DefaultWarmupRuns,
			Iterations:  DefaultIterations,
			RunSeconds:  DefaultRunTimeoutSeconds,
			Description: "Balanced default",
		},
		BenchmarkDepthThorough: {
			Warmup:      3,
			Iterations:  25,
			RunSeconds:  120,
			Description: "More samples for stable percentiles in CI",
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(profile domain.ProfileKind, depth BenchmarkDepth) string {
	preset, ok := GetBenchmarkPresets()[depth]
	if !ok {
		preset = GetBenchmarkPresets()[BenchmarkDepthStandard]
	}
	if profile == "" || profile == domain.ProfileCustom {
		profile = domain.ProfileWebServices
	}
	weights := domain.IndustryProfile{Kind: profile}.Weights()

	return `# crabscore configuration
# Documentation: https://github.com/ludo-technologies/crabscore

# ============================================================================
# INDUSTRY PROFILE
# ============================================================================
# Weights applied to the performance, energy and cost sub-scores.
# Presets: web_services, iot_embedded, financial, gaming, enterprise
# Use name: custom with performance/energy/cost weights summing to 1.0.
profile:
  name: ` + string(profile) + `
  # Preset weights: performance ` + formatWeight(weights.Performance) +
		`, energy ` + formatWeight(weights.Energy) +
		`, cost ` + formatWeight(weights.Cost) + `
  performance: 0
  energy: 0
  cost: 0

# ============================================================================
# BENCHMARK
# ============================================================================
# ` + preset.Description + `
benchmark:
  # Discarded runs before measuring
  warmup: ` + strconv.Itoa(preset.Warmup) + `
  # Measured runs; failed runs are excluded from the percentiles
  iterations: ` + strconv.Itoa(preset.Iterations) + `
  # Arguments passed to the binary on every run
  args: []

# ============================================================================
# TIMEOUTS (seconds)
# ============================================================================
timeouts:
  build_seconds: ` + strconv.Itoa(DefaultBuildTimeoutSeconds) + `
  run_seconds: ` + strconv.Itoa(preset.RunSeconds) + `

# ============================================================================
# COST DATA
# ============================================================================
# JSON file with infrastructure, operations, development and business_impact
# groups. Missing files give zero costs.
cost:
  file: cost.json

# ============================================================================
# ANALYSIS SCOPE
# ============================================================================
analysis:
  exclude_patterns: ` + formatYAMLArray(DefaultConfig().Analysis.ExcludePatterns) + `
  respect_gitignore: true

# ============================================================================
# OUTPUT
# ============================================================================
output:
  # text, json, yaml or html
  format: text
  # Directory for report files (empty = current directory)
  directory: ""

logging:
  # debug, info, warn, error or off (empty = controlled by -v)
  level: ""
  format: text

# ============================================================================
# HISTORY
# ============================================================================
history:
  enabled: false
  path: .crabscore/history.db

dashboard:
  port: 8080

performance:
  # Concurrent project pipelines when scoring several paths (0 = CPU count)
  max_goroutines: 0
  # Limit for a whole batch in seconds (0 = no limit)
  timeout_seconds: 0
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# crabscore configuration (minimal)
# See full options: https://github.com/ludo-technologies/crabscore

profile:
  name: web_services

benchmark:
  warmup: 1
  iterations: 5

cost:
  file: cost.json
`
}

// formatYAMLArray formats a string slice as a YAML flow sequence
func formatYAMLArray(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = strconv.Quote(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
