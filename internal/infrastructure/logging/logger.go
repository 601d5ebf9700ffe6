package logging

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/infrastructure/config"
)

// NewLogger builds a logrus logger from configuration
func NewLogger(cfg *config.LoggingConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.Output == "stderr" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(os.Stdout)
	}

	log.SetReportCaller(cfg.IncludeCaller)
	return log
}
