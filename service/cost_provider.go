package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/constants"
	"github.com/ludo-technologies/crabscore/internal/logging"
)

// StaticCostProvider reads user-supplied cost figures from a JSON file
type StaticCostProvider struct {
	file   string
	logger *slog.Logger
}

// NewStaticCostProvider creates a provider for file. A relative file is
// resolved against the project root passed to Collect.
func NewStaticCostProvider(file string, logger *slog.Logger) *StaticCostProvider {
	if file == "" {
		file = constants.DefaultCostFile
	}
	return &StaticCostProvider{
		file:   file,
		logger: logging.OrDiscard(logger),
	}
}

// Path returns the cost file location for projectRoot
func (p *StaticCostProvider) Path(projectRoot string) string {
	if filepath.IsAbs(p.file) || projectRoot == "" {
		return p.file
	}
	root := projectRoot
	if info, err := os.Stat(projectRoot); err == nil && !info.IsDir() {
		root = filepath.Dir(projectRoot)
	}
	return filepath.Join(root, p.file)
}

// Collect reads the cost file. A missing file yields a FILE_NOT_FOUND error;
// malformed JSON or a non-object document yields a COST_DATA_ERROR.
func (p *StaticCostProvider) Collect(ctx context.Context, projectRoot string) (domain.CostMetrics, error) {
	if err := ctx.Err(); err != nil {
		return domain.CostMetrics{}, err
	}

	path := p.Path(projectRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CostMetrics{}, domain.NewFileNotFoundError(path, err)
	}

	metrics, err := ParseCostMetrics(data)
	if err != nil {
		return domain.CostMetrics{}, err
	}

	p.logger.Debug("loaded cost data", "path", path)
	return metrics, nil
}

// ParseCostMetrics decodes a cost document. Groups and leaves are optional;
// a missing or mistyped leaf reads as zero.
func ParseCostMetrics(data []byte) (domain.CostMetrics, error) {
	if !gjson.ValidBytes(data) {
		return domain.CostMetrics{}, domain.NewCostDataError("cost file is not valid JSON", nil)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return domain.CostMetrics{}, domain.NewCostDataError(
			fmt.Sprintf("cost file must contain a JSON object, got %s", doc.Type), nil)
	}

	infra := doc.Get("infrastructure")
	ops := doc.Get("operations")
	dev := doc.Get("development")
	biz := doc.Get("business_impact")

	return domain.CostMetrics{
		Infrastructure: domain.InfrastructureCosts{
			CloudComputeUSD:   number(infra, "cloud_compute_usd"),
			StorageUSD:        number(infra, "storage_usd"),
			NetworkEgressUSD:  number(infra, "network_egress_usd"),
			CostPerMillionOps: number(infra, "cost_per_million_ops"),
		},
		Operations: domain.OperationalCosts{
			MTTRMinutes:        number(ops, "mttr_minutes"),
			IncidentsPerMonth:  number(ops, "incidents_per_month"),
			OverheadPercentage: number(ops, "overhead_percentage"),
			MonitoringUSD:      number(ops, "monitoring_usd"),
		},
		Development: domain.DevelopmentCosts{
			LOC:                  unsignedInteger(dev, "loc"),
			CyclomaticComplexity: number(dev, "cyclomatic_complexity"),
			CodeChurn:            number(dev, "code_churn"),
			OnboardingDays:       number(dev, "onboarding_days"),
		},
		BusinessImpact: domain.BusinessImpact{
			RevenuePer100msLatency: number(biz, "revenue_per_100ms_latency"),
			CSATScore:              number(biz, "csat_score"),
			SLACompliance:          number(biz, "sla_compliance"),
			CompetitiveAdvantage:   number(biz, "competitive_advantage"),
		},
	}, nil
}

func number(group gjson.Result, key string) float64 {
	if !group.IsObject() {
		return 0
	}
	v := group.Get(key)
	if v.Type != gjson.Number {
		return 0
	}
	return v.Num
}

func unsignedInteger(group gjson.Result, key string) uint64 {
	if !group.IsObject() {
		return 0
	}
	v := group.Get(key)
	if v.Type != gjson.Number || v.Num < 0 || v.Num != math.Trunc(v.Num) {
		return 0
	}
	return v.Uint()
}
