package service

import (
	"math"

	"github.com/ludo-technologies/crabscore/domain"
)

// EstimatorImpl synthesizes plausible metrics from project complexity when
// no artifact can be benchmarked. Every method is a pure function of its input.
type EstimatorImpl struct{}

// NewEstimator creates an estimator
func NewEstimator() *EstimatorImpl {
	return &EstimatorImpl{}
}

// EstimatePerformance derives latency and resource figures from the complexity factor
func (e *EstimatorImpl) EstimatePerformance(c domain.ProjectComplexity) domain.PerformanceMetrics {
	f := c.ComplexityFactor()
	base := 10.0 + 5.0*f

	return domain.PerformanceMetrics{
		Latency: domain.LatencyMetrics{
			P50Ms:       base,
			P95Ms:       base * 1.5,
			P99Ms:       base * 2.0,
			ColdStartMs: base * 3.0,
			TTFBMs:      base * 0.3,
		},
		Throughput: domain.ThroughputMetrics{
			RequestsPerSecond:     1000.0 / base,
			MBPerSecond:           100.0 / math.Max(f, 1.0),
			ConcurrentConnections: 100,
			QueueDepth:            10.0,
		},
		ResourceUsage: domain.ResourceMetrics{
			CPUEfficiency:      0.8 - math.Min(f*0.05, 0.5),
			MemoryBandwidthGBs: 10.0,
			IOOperationsPerSec: 1000.0,
			CacheHitRate:       0.9 - math.Min(f*0.02, 0.3),
		},
		Scalability: domain.DefaultScalabilityMetrics(),
	}
}

// EstimateEnergy derives power and carbon figures from the complexity factor
func (e *EstimatorImpl) EstimateEnergy(c domain.ProjectComplexity) domain.EnergyMetrics {
	f := c.ComplexityFactor()

	return domain.EnergyMetrics{
		DirectConsumption: domain.PowerConsumption{
			AverageWatts:       5.0 + f*2.0,
			PeakWatts:          10.0 + f*5.0,
			IdleWatts:          2.0 + f*0.5,
			JoulesPerOperation: 0.001 * (1.0 + f*0.1),
		},
		CarbonEfficiency: domain.CarbonEfficiency{
			CO2PerOperation:     0.0001 * (1.0 + f*0.1),
			CarbonIntensity:     400.0,
			RenewablePercentage: 0.3,
		},
		HardwareLifecycle: domain.HardwareLifecycle{
			ThermalEfficiency:     0.8,
			ComponentStress:       0.2 + math.Min(f*0.05, 0.5),
			ExpectedLifespanYears: 5.0,
		},
		AlgorithmicEfficiency: domain.AlgorithmEfficiency{
			TimeComplexity:         "O(n)",
			SpaceComplexity:        "O(1)",
			ActualTimeCoefficient:  1.0 + f*0.1,
			ActualSpaceCoefficient: 1.0 + f*0.05,
		},
	}
}

// EstimateCost derives cost figures from the complexity factor and function count
func (e *EstimatorImpl) EstimateCost(c domain.ProjectComplexity) domain.CostMetrics {
	f := c.ComplexityFactor()
	m := float64(c.FunctionCount) / 10.0

	return domain.CostMetrics{
		Infrastructure: domain.InfrastructureCosts{
			CloudComputeUSD:   10.0 + f*20.0,
			StorageUSD:        1.0 + f*2.0,
			NetworkEgressUSD:  5.0 + f*5.0,
			CostPerMillionOps: 0.1 + f*0.05,
		},
		Operations: domain.OperationalCosts{
			MTTRMinutes:        30.0 + m*10.0,
			IncidentsPerMonth:  0.5 + f*0.2,
			OverheadPercentage: 0.1 + math.Min(f*0.02, 0.3),
			MonitoringUSD:      5.0 + f*5.0,
		},
		Development: domain.DevelopmentCosts{
			LOC:                  uint64(c.TotalLines),
			CyclomaticComplexity: 1.0 + m,
			CodeChurn:            100.0 + f*50.0,
			OnboardingDays:       1.0 + math.Min(f*2.0, 14.0),
		},
		BusinessImpact: domain.BusinessImpact{
			RevenuePer100msLatency: 100.0,
			CSATScore:              80.0 - f*2.0,
			SLACompliance:          0.99 - math.Min(f*0.01, 0.1),
			CompetitiveAdvantage:   7.0 - math.Min(f*0.3, 4.0),
		},
	}
}
