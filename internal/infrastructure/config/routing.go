package config

import "time"

// RoutingConfig holds the routing engine (OSRM) client configuration
type RoutingConfig struct {
	// Base URL of the OSRM instance, e.g. http://localhost:5000
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Routing profile tag in the request path (driving, car, bike...)
	Profile string `mapstructure:"profile"`

	// Per-request timeout
	Timeout time.Duration `mapstructure:"timeout"`

	// Outbound request rate limit
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds client-side rate limiting configuration
type RateLimitConfig struct {
	Requests int `mapstructure:"requests" validate:"min=1"`
	Burst    int `mapstructure:"burst" validate:"min=1"`
}
