package service

import (
	"math"
	"runtime"
	"time"

	"github.com/ludo-technologies/crabscore/domain"
)

// Bonus limits
const (
	MaxSafetyBonus     = 10.0
	MaxComplexityBonus = 10.0
)

// ScoringEngineImpl combines measurements into a CrabScore.
// It holds no state and is safe for concurrent use.
type ScoringEngineImpl struct {
	now func() time.Time
}

// NewScoringEngine creates a scoring engine stamping scores with the wall clock
func NewScoringEngine() *ScoringEngineImpl {
	return &ScoringEngineImpl{now: time.Now}
}

// Score computes the weighted overall score, adds the safety and complexity
// bonuses and assigns a certification from the final overall
func (s *ScoringEngineImpl) Score(in domain.ScoreInput) (domain.CrabScore, []domain.BonusAward) {
	weights := in.Profile.Weights()

	perf := PerformanceScore(in.Performance)
	energy := EnergyScore(in.Energy)
	cost := CostScore(in.Cost)

	safetyAwards := SafetyAwards(in.Safety)
	complexityAwards := ComplexityAwards(in.Complexity)

	safetyBonus := math.Min(sumAwards(safetyAwards), MaxSafetyBonus)
	complexityBonus := math.Min(sumAwards(complexityAwards), MaxComplexityBonus)

	overall := perf*weights.Performance +
		energy*weights.Energy +
		cost*weights.Cost +
		safetyBonus +
		complexityBonus
	overall = clampScore(overall)

	score := domain.CrabScore{
		Overall:       overall,
		Performance:   perf,
		Energy:        energy,
		Cost:          cost,
		Bonuses:       safetyBonus + complexityBonus,
		Certification: domain.CertificationFor(overall),
		Timestamp:     s.now().UTC(),
		Metadata: domain.ScoreMetadata{
			Profile: in.Profile,
			Measurements: domain.MeasurementSummary{
				Environment: domain.Environment{
					OS:  runtime.GOOS,
					CPU: runtime.GOARCH,
				},
			},
		},
	}

	awards := make([]domain.BonusAward, 0, len(safetyAwards)+len(complexityAwards))
	awards = append(awards, safetyAwards...)
	awards = append(awards, complexityAwards...)

	return score, awards
}

// PerformanceScore averages the latency, throughput and resource sub-scores
func PerformanceScore(m domain.PerformanceMetrics) float64 {
	latency := 100.0 / (1.0 + m.Latency.P95Ms/100.0)

	tps := m.Throughput.RequestsPerSecond
	throughput := 0.0
	if tps+1000.0 != 0 {
		throughput = 100.0 * tps / (tps + 1000.0)
	}

	resource := 100.0 * math.Min(m.ResourceUsage.CPUEfficiency, 1.0)

	return clampScore((latency + throughput + resource) / 3.0)
}

// EnergyScore rewards low average power draw and renewable supply
func EnergyScore(m domain.EnergyMetrics) float64 {
	power := 100.0 / (1.0 + m.DirectConsumption.AverageWatts/100.0)
	renewable := 100.0 * m.CarbonEfficiency.RenewablePercentage
	return clampScore((power + renewable) / 2.0)
}

// CostScore rewards low compute spend and low operational overhead
func CostScore(m domain.CostMetrics) float64 {
	cloud := 100.0 / (1.0 + m.Infrastructure.CloudComputeUSD/1000.0)
	overhead := 100.0 / (1.0 + m.Operations.OverheadPercentage)
	return clampScore((cloud + overhead) / 2.0)
}

// SafetyAwards returns the earned safety bonuses
func SafetyAwards(m domain.SafetyMetrics) []domain.BonusAward {
	var awards []domain.BonusAward
	if m.UnsafeBlocks == 0 {
		awards = append(awards, domain.BonusAward{Name: "No Unsafe Code", Points: 4})
	}
	if m.ClippyWarnings == 0 {
		awards = append(awards, domain.BonusAward{Name: "No Lint Warnings", Points: 3})
	}
	if m.AvgCyclomatic <= 10.0 {
		awards = append(awards, domain.BonusAward{Name: "Low Cyclomatic Complexity", Points: 3})
	}
	return awards
}

// SafetyBonus returns the capped safety bonus
func SafetyBonus(m domain.SafetyMetrics) float64 {
	return math.Min(sumAwards(SafetyAwards(m)), MaxSafetyBonus)
}

// ComplexityAwards returns the earned project-shape bonuses.
// Each group awards at most its first matching tier.
func ComplexityAwards(c domain.ProjectComplexity) []domain.BonusAward {
	var awards []domain.BonusAward

	switch {
	case c.TotalLines < 100:
		awards = append(awards, domain.BonusAward{Name: "Small Project Bonus", Points: 2})
	case c.TotalLines < 500:
		awards = append(awards, domain.BonusAward{Name: "Compact Project Bonus", Points: 1})
	}

	docs := c.DocCoverage()
	switch {
	case docs > 0.2:
		awards = append(awards, domain.BonusAward{Name: "Excellent Documentation", Points: 2})
	case docs > 0.1:
		awards = append(awards, domain.BonusAward{Name: "Good Documentation", Points: 1})
	}

	tests := c.TestCoverage()
	switch {
	case tests > 0.8:
		awards = append(awards, domain.BonusAward{Name: "Excellent Tests", Points: 3})
	case tests > 0.5:
		awards = append(awards, domain.BonusAward{Name: "Good Test Coverage", Points: 2})
	case tests > 0.2:
		awards = append(awards, domain.BonusAward{Name: "Basic Test Coverage", Points: 1})
	}

	switch {
	case c.DependencyCount == 0:
		awards = append(awards, domain.BonusAward{Name: "Zero Dependencies", Points: 3})
	case c.DependencyCount < 5:
		awards = append(awards, domain.BonusAward{Name: "Minimal Dependencies", Points: 2})
	case c.DependencyCount < 10:
		awards = append(awards, domain.BonusAward{Name: "Reasonable Dependencies", Points: 1})
	}

	return awards
}

// ComplexityBonus returns the capped project-shape bonus
func ComplexityBonus(c domain.ProjectComplexity) float64 {
	return math.Min(sumAwards(ComplexityAwards(c)), MaxComplexityBonus)
}

// BonusBreakdown returns every earned award, safety awards first
func BonusBreakdown(safety domain.SafetyMetrics, complexity domain.ProjectComplexity) []domain.BonusAward {
	return append(SafetyAwards(safety), ComplexityAwards(complexity)...)
}

func sumAwards(awards []domain.BonusAward) float64 {
	total := 0.0
	for _, a := range awards {
		total += a.Points
	}
	return total
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(v, 100))
}
