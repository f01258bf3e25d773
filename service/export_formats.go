package service

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ludo-technologies/crabscore/domain"
)

// ExportStandard names a compliance export
type ExportStandard string

const (
	ExportCSRD ExportStandard = "csrd"
	ExportSBOM ExportStandard = "sbom"
	ExportCRA  ExportStandard = "cra"
)

// CRAPassThreshold is the minimum overall score for CRA compliance
const CRAPassThreshold = 70.0

// ParseExportStandard validates a standard name
func ParseExportStandard(name string) (ExportStandard, error) {
	switch s := ExportStandard(strings.ToLower(strings.TrimSpace(name))); s {
	case ExportCSRD, ExportSBOM, ExportCRA:
		return s, nil
	default:
		return "", domain.NewInvalidInputError("unknown export standard: "+name+" (expected csrd, sbom or cra)", nil)
	}
}

// CSRDExport is a Corporate Sustainability Reporting Directive fragment
type CSRDExport struct {
	Standard      string               `json:"standard"`
	Overall       float64              `json:"overall"`
	Energy        float64              `json:"energy"`
	Timestamp     time.Time            `json:"timestamp"`
	Certification domain.Certification `json:"certification"`
}

// SBOMExport is a minimal SPDX fragment
type SBOMExport struct {
	SPDXID  string `json:"SPDXID"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// CRAExport is a Cyber Resilience Act stub
type CRAExport struct {
	Standard   string  `json:"standard"`
	Score      float64 `json:"score"`
	Compliance string  `json:"compliance"`
}

// BuildExport returns the export document for standard
func BuildExport(score domain.CrabScore, standard ExportStandard) (interface{}, error) {
	switch standard {
	case ExportCSRD:
		return CSRDExport{
			Standard:      "CSRD",
			Overall:       score.Overall,
			Energy:        score.Energy,
			Timestamp:     score.Timestamp,
			Certification: score.Certification,
		}, nil
	case ExportSBOM:
		return SBOMExport{
			SPDXID:  "SPDXRef-CrabScore",
			Name:    "CrabScore Report",
			Summary: "Overall " + formatOverall(score.Overall),
		}, nil
	case ExportCRA:
		compliance := "FAIL"
		if score.Overall >= CRAPassThreshold {
			compliance = "PASS"
		}
		return CRAExport{
			Standard:   "EU CRA",
			Score:      score.Overall,
			Compliance: compliance,
		}, nil
	default:
		return nil, domain.NewInvalidInputError("unknown export standard: "+string(standard), nil)
	}
}

// WriteExport writes the export document for standard as indented JSON
func WriteExport(writer io.Writer, score domain.CrabScore, standard ExportStandard) error {
	doc, err := BuildExport(score, standard)
	if err != nil {
		return err
	}
	if err := WriteJSON(writer, doc); err != nil {
		return domain.NewOutputError("failed to write export", err)
	}
	return nil
}

// formatOverall prints the shortest representation that round-trips
func formatOverall(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
