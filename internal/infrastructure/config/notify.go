package config

// NotifyConfig holds the recipient notification (SMTP) configuration.
// Disabled means notifications are logged and dropped.
type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled"`

	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port" validate:"omitempty,min=1,max=65535"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// From address on outgoing mail
	Sender string `mapstructure:"sender" validate:"omitempty,email"`
}
