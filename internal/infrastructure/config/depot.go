package config

// DepotConfig holds the company depot every route starts and ends at
type DepotConfig struct {
	Address   string  `mapstructure:"address"`
	Latitude  float64 `mapstructure:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `mapstructure:"longitude" validate:"min=-180,max=180"`
}
