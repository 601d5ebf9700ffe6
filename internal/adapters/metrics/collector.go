package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "waypoint"
	subsystem = "engine"
)

// Registry is the Prometheus registry for all engine metrics
var Registry = prometheus.NewRegistry()

// CommandMetricsCollector records command and query execution through the
// mediator
type CommandMetricsCollector struct {
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
}

// NewCommandMetricsCollector creates and registers the command collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	c := &CommandMetricsCollector{
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "commands_total",
			Help:      "Total commands and queries dispatched, by name and outcome",
		}, []string{"command", "outcome"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "command_duration_seconds",
			Help:      "Command execution duration distribution",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 60.0},
		}, []string{"command"}),
	}
	Registry.MustRegister(c.commandsTotal, c.commandDuration)
	return c
}

// RecordCommandExecution records one dispatch
func (c *CommandMetricsCollector) RecordCommandExecution(command string, durationSeconds float64, success bool) {
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	c.commandsTotal.WithLabelValues(command, outcome).Inc()
	c.commandDuration.WithLabelValues(command).Observe(durationSeconds)
}
