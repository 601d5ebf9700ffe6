package config

// PlanningConfig holds route planning parameters
type PlanningConfig struct {
	// Seed for the clustering partition; fixed so re-planning the same
	// parcels yields the same zones
	ClusterSeed int64 `mapstructure:"cluster_seed"`
}
