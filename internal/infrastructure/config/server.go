package config

import "time"

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	// Host to bind (default 0.0.0.0)
	Host string `mapstructure:"host"`

	// Port for the REST API
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`

	// Gin mode: debug, release, test
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}
