package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// CommandMetricsCollector times session requests and counts their failures by domain error kind
type CommandMetricsCollector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	failures *prometheus.CounterVec
}

func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "command_duration_seconds",
				Help:      "Time spent handling a session request, including step and finish runs",
				// finish can run thousands of ticks
				Buckets: []float64{0.0005, 0.002, 0.01, 0.05, 0.25, 1, 5, 30},
			},
			[]string{"command"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "commands_total",
				Help:      "Session requests handled, by outcome",
			},
			[]string{"command", "status"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "command_failures_total",
				Help:      "Failed session requests by the kind of error that stopped them",
			},
			[]string{"command", "reason"},
		),
	}
}

func (c *CommandMetricsCollector) Register() error {
	return register(c.duration, c.total, c.failures)
}

// RecordCommandExecution records one handled request; err is nil on success
func (c *CommandMetricsCollector) RecordCommandExecution(commandName string, seconds float64, err error) {
	c.duration.WithLabelValues(commandName).Observe(seconds)
	if err == nil {
		c.total.WithLabelValues(commandName, "success").Inc()
		return
	}
	c.total.WithLabelValues(commandName, "error").Inc()
	c.failures.WithLabelValues(commandName, FailureReason(err)).Inc()
}

// FailureReason names the domain error kind behind err
func FailureReason(err error) string {
	var (
		ref        *shared.InvalidReferenceError
		capability *shared.CapabilityError
		graph      *shared.GraphError
		exhausted  *shared.ResourceExhaustedError
		malformed  *shared.MalformedDescriptorError
		invalid    *shared.ValidationError
	)
	switch {
	case errors.As(err, &ref):
		return "invalid_reference"
	case errors.As(err, &capability):
		return "capability"
	case errors.As(err, &graph):
		return "graph"
	case errors.As(err, &exhausted):
		return "resource_exhausted"
	case errors.As(err, &malformed):
		return "malformed_descriptor"
	case errors.As(err, &invalid):
		return "validation"
	}
	return "other"
}

func (c *CommandMetricsCollector) Total(commandName, status string) prometheus.Counter {
	return c.total.WithLabelValues(commandName, status)
}

func (c *CommandMetricsCollector) Failures(commandName, reason string) prometheus.Counter {
	return c.failures.WithLabelValues(commandName, reason)
}
