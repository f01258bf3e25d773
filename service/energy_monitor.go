package service

import (
	"context"

	"github.com/ludo-technologies/crabscore/domain"
)

// NullMonitor is the portable energy monitor. It reports zeros everywhere.
type NullMonitor struct{}

// NewNullMonitor creates a monitor that never samples hardware
func NewNullMonitor() *NullMonitor {
	return &NullMonitor{}
}

// Collect returns all-zero energy metrics
func (m *NullMonitor) Collect(ctx context.Context) (domain.EnergyMetrics, error) {
	if err := ctx.Err(); err != nil {
		return domain.EnergyMetrics{}, err
	}
	return domain.EnergyMetrics{}, nil
}
