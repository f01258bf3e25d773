package domain

// PerformanceMetrics groups latency, throughput, resource and scalability measurements
type PerformanceMetrics struct {
	Latency       LatencyMetrics     `json:"latency" yaml:"latency"`
	Throughput    ThroughputMetrics  `json:"throughput" yaml:"throughput"`
	ResourceUsage ResourceMetrics    `json:"resource_usage" yaml:"resource_usage"`
	Scalability   ScalabilityMetrics `json:"scalability" yaml:"scalability"`
}

// LatencyMetrics holds latency measurements in milliseconds
type LatencyMetrics struct {
	P50Ms       float64 `json:"p50_ms" yaml:"p50_ms"`
	P95Ms       float64 `json:"p95_ms" yaml:"p95_ms"`
	P99Ms       float64 `json:"p99_ms" yaml:"p99_ms"`
	ColdStartMs float64 `json:"cold_start_ms" yaml:"cold_start_ms"`
	TTFBMs      float64 `json:"ttfb_ms" yaml:"ttfb_ms"`
}

// ThroughputMetrics holds throughput measurements
type ThroughputMetrics struct {
	RequestsPerSecond     float64 `json:"requests_per_second" yaml:"requests_per_second"`
	MBPerSecond           float64 `json:"mb_per_second" yaml:"mb_per_second"`
	ConcurrentConnections uint64  `json:"concurrent_connections" yaml:"concurrent_connections"`
	QueueDepth            float64 `json:"queue_depth" yaml:"queue_depth"`
}

// ResourceMetrics holds resource usage measurements
type ResourceMetrics struct {
	// CPUEfficiency is in [0, 1]
	CPUEfficiency      float64 `json:"cpu_efficiency" yaml:"cpu_efficiency"`
	MemoryBandwidthGBs float64 `json:"memory_bandwidth_gb_s" yaml:"memory_bandwidth_gb_s"`
	IOOperationsPerSec float64 `json:"io_operations_per_sec" yaml:"io_operations_per_sec"`
	// CacheHitRate is in [0, 1]
	CacheHitRate float64 `json:"cache_hit_rate" yaml:"cache_hit_rate"`
}

// DegradationPoint is one sample of the scalability degradation curve
type DegradationPoint struct {
	ConcurrencyLevel uint32  `json:"concurrency_level" yaml:"concurrency_level"`
	Ratio            float64 `json:"ratio" yaml:"ratio"`
}

// ScalabilityMetrics describes behaviour under increasing concurrency
type ScalabilityMetrics struct {
	LinearScalingFactor   float64            `json:"linear_scaling_factor" yaml:"linear_scaling_factor"`
	DegradationCurve      []DegradationPoint `json:"degradation_curve" yaml:"degradation_curve"`
	BottleneckScore       float64            `json:"bottleneck_score" yaml:"bottleneck_score"`
	ElasticityCoefficient float64            `json:"elasticity_coefficient" yaml:"elasticity_coefficient"`
}

// DefaultScalabilityMetrics returns scalability metrics for an unmeasured workload
func DefaultScalabilityMetrics() ScalabilityMetrics {
	return ScalabilityMetrics{
		LinearScalingFactor: 1.0,
		DegradationCurve:    []DegradationPoint{},
	}
}

// DefaultPerformanceMetrics returns performance metrics with unmeasured defaults.
// Only the scalability group carries a non-zero default.
func DefaultPerformanceMetrics() PerformanceMetrics {
	return PerformanceMetrics{
		Scalability: DefaultScalabilityMetrics(),
	}
}

// ZeroPerformanceMetrics returns a fully zeroed performance result
func ZeroPerformanceMetrics() PerformanceMetrics {
	return PerformanceMetrics{
		Scalability: ScalabilityMetrics{DegradationCurve: []DegradationPoint{}},
	}
}

// EnergyMetrics groups power, carbon, hardware and algorithmic measurements
type EnergyMetrics struct {
	DirectConsumption     PowerConsumption    `json:"direct_consumption" yaml:"direct_consumption"`
	CarbonEfficiency      CarbonEfficiency    `json:"carbon_efficiency" yaml:"carbon_efficiency"`
	HardwareLifecycle     HardwareLifecycle   `json:"hardware_lifecycle" yaml:"hardware_lifecycle"`
	AlgorithmicEfficiency AlgorithmEfficiency `json:"algorithmic_efficiency" yaml:"algorithmic_efficiency"`
}

// PowerConsumption holds power draw in watts and energy per operation in joules
type PowerConsumption struct {
	AverageWatts       float64 `json:"average_watts" yaml:"average_watts"`
	PeakWatts          float64 `json:"peak_watts" yaml:"peak_watts"`
	IdleWatts          float64 `json:"idle_watts" yaml:"idle_watts"`
	JoulesPerOperation float64 `json:"joules_per_operation" yaml:"joules_per_operation"`
}

// CarbonEfficiency holds carbon metrics. RenewablePercentage is a fraction in [0, 1].
type CarbonEfficiency struct {
	CO2PerOperation     float64 `json:"co2_per_operation" yaml:"co2_per_operation"`
	CarbonIntensity     float64 `json:"carbon_intensity" yaml:"carbon_intensity"`
	RenewablePercentage float64 `json:"renewable_percentage" yaml:"renewable_percentage"`
}

// HardwareLifecycle holds hardware wear metrics
type HardwareLifecycle struct {
	ThermalEfficiency     float64 `json:"thermal_efficiency" yaml:"thermal_efficiency"`
	ComponentStress       float64 `json:"component_stress" yaml:"component_stress"`
	ExpectedLifespanYears float64 `json:"expected_lifespan_years" yaml:"expected_lifespan_years"`
}

// AlgorithmEfficiency holds complexity labels and observed coefficients
type AlgorithmEfficiency struct {
	TimeComplexity         string  `json:"time_complexity" yaml:"time_complexity"`
	SpaceComplexity        string  `json:"space_complexity" yaml:"space_complexity"`
	ActualTimeCoefficient  float64 `json:"actual_time_coefficient" yaml:"actual_time_coefficient"`
	ActualSpaceCoefficient float64 `json:"actual_space_coefficient" yaml:"actual_space_coefficient"`
}

// CostMetrics groups infrastructure, operational, development and business costs
type CostMetrics struct {
	Infrastructure InfrastructureCosts `json:"infrastructure" yaml:"infrastructure"`
	Operations     OperationalCosts    `json:"operations" yaml:"operations"`
	Development    DevelopmentCosts    `json:"development" yaml:"development"`
	BusinessImpact BusinessImpact      `json:"business_impact" yaml:"business_impact"`
}

// InfrastructureCosts holds monthly infrastructure spend in USD
type InfrastructureCosts struct {
	CloudComputeUSD   float64 `json:"cloud_compute_usd" yaml:"cloud_compute_usd"`
	StorageUSD        float64 `json:"storage_usd" yaml:"storage_usd"`
	NetworkEgressUSD  float64 `json:"network_egress_usd" yaml:"network_egress_usd"`
	CostPerMillionOps float64 `json:"cost_per_million_ops" yaml:"cost_per_million_ops"`
}

// OperationalCosts holds operational metrics. OverheadPercentage is a fraction.
type OperationalCosts struct {
	MTTRMinutes        float64 `json:"mttr_minutes" yaml:"mttr_minutes"`
	IncidentsPerMonth  float64 `json:"incidents_per_month" yaml:"incidents_per_month"`
	OverheadPercentage float64 `json:"overhead_percentage" yaml:"overhead_percentage"`
	MonitoringUSD      float64 `json:"monitoring_usd" yaml:"monitoring_usd"`
}

// DevelopmentCosts holds code-size and team metrics
type DevelopmentCosts struct {
	LOC                  uint64  `json:"loc" yaml:"loc"`
	CyclomaticComplexity float64 `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	CodeChurn            float64 `json:"code_churn" yaml:"code_churn"`
	OnboardingDays       float64 `json:"onboarding_days" yaml:"onboarding_days"`
}

// BusinessImpact holds business-facing metrics
type BusinessImpact struct {
	RevenuePer100msLatency float64 `json:"revenue_per_100ms_latency" yaml:"revenue_per_100ms_latency"`
	CSATScore              float64 `json:"csat_score" yaml:"csat_score"`
	SLACompliance          float64 `json:"sla_compliance" yaml:"sla_compliance"`
	CompetitiveAdvantage   float64 `json:"competitive_advantage" yaml:"competitive_advantage"`
}

// SafetyMetrics holds the results of static safety analysis
type SafetyMetrics struct {
	UnsafeBlocks int `json:"unsafe_blocks" yaml:"unsafe_blocks"`
	// ClippyWarnings is reserved for an external linter and is always 0
	ClippyWarnings int     `json:"clippy_warnings" yaml:"clippy_warnings"`
	AvgCyclomatic  float64 `json:"avg_cyclomatic" yaml:"avg_cyclomatic"`
}

// DefaultSafetyMetrics returns safety metrics for a project with no findings.
// A function without branches has complexity 1.
func DefaultSafetyMetrics() SafetyMetrics {
	return SafetyMetrics{AvgCyclomatic: 1.0}
}
