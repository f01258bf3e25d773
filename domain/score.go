package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Certification is an ordered certification tier
type Certification int

// Tiers in ascending order. Elite, Pioneer and Sustainable are reserved:
// no scoring path assigns them.
const (
	CertificationNone Certification = iota
	CertificationVerified
	CertificationCertified
	CertificationElite
	CertificationPioneer
	CertificationSustainable
)

// Certification thresholds on the overall score (inclusive)
const (
	CertifiedThreshold = 85.0
	VerifiedThreshold  = 70.0
)

var certificationNames = [...]string{"None", "Verified", "Certified", "Elite", "Pioneer", "Sustainable"}

// String returns the tier name
func (c Certification) String() string {
	if c < 0 || int(c) >= len(certificationNames) {
		return fmt.Sprintf("Certification(%d)", int(c))
	}
	return certificationNames[c]
}

// ParseCertification parses a tier name
func ParseCertification(name string) (Certification, error) {
	for i, n := range certificationNames {
		if n == name {
			return Certification(i), nil
		}
	}
	return CertificationNone, NewInvalidInputError(fmt.Sprintf("unknown certification: %s", name), nil)
}

// CertificationFor maps an overall score to a tier
func CertificationFor(overall float64) Certification {
	switch {
	case overall >= CertifiedThreshold:
		return CertificationCertified
	case overall >= VerifiedThreshold:
		return CertificationVerified
	default:
		return CertificationNone
	}
}

// MarshalJSON encodes the tier by name
func (c Certification) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a tier name
func (c *Certification) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseCertification(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes the tier by name
func (c Certification) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// MeasurementMode describes how performance data was obtained
type MeasurementMode string

const (
	MeasurementBenchmark MeasurementMode = "benchmark"
	MeasurementEstimated MeasurementMode = "estimated"
)

// Environment describes where a score was measured
type Environment struct {
	OS          string  `json:"os" yaml:"os"`
	CPU         string  `json:"cpu" yaml:"cpu"`
	MemoryGB    float64 `json:"memory_gb" yaml:"memory_gb"`
	RustVersion string  `json:"rust_version" yaml:"rust_version"`
}

// MeasurementSummary summarizes the measurements behind a score
type MeasurementSummary struct {
	DurationMs  int64           `json:"duration_ms" yaml:"duration_ms"`
	Iterations  int             `json:"iterations" yaml:"iterations"`
	Mode        MeasurementMode `json:"mode" yaml:"mode"`
	Environment Environment     `json:"environment" yaml:"environment"`
}

// ScoreMetadata carries descriptive data about a scoring run
type ScoreMetadata struct {
	RunID        string             `json:"run_id" yaml:"run_id"`
	ProjectName  string             `json:"project_name" yaml:"project_name"`
	Version      string             `json:"version" yaml:"version"`
	Profile      IndustryProfile    `json:"profile" yaml:"profile"`
	Measurements MeasurementSummary `json:"measurements" yaml:"measurements"`
}

// CrabScore is the final result of one scoring run
type CrabScore struct {
	Overall       float64       `json:"overall" yaml:"overall"`
	Performance   float64       `json:"performance" yaml:"performance"`
	Energy        float64       `json:"energy" yaml:"energy"`
	Cost          float64       `json:"cost" yaml:"cost"`
	Bonuses       float64       `json:"bonuses" yaml:"bonuses"`
	Certification Certification `json:"certification" yaml:"certification"`
	Timestamp     time.Time     `json:"timestamp" yaml:"timestamp"`
	Metadata      ScoreMetadata `json:"metadata" yaml:"metadata"`
}

// BonusAward is one earned bonus line
type BonusAward struct {
	Name   string  `json:"name" yaml:"name"`
	Points float64 `json:"points" yaml:"points"`
}
