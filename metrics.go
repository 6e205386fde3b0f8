package promptline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK      = "ok"
	outcomeClosed  = "closed"
	outcomeUnknown = "unknown"
	outcomeArity   = "arity_error"
	outcomeError   = "handler_error"
)

// Metrics counts dispatched commands. A nil *Metrics records nothing.
type Metrics struct {
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the command collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptline_commands_total",
				Help: "Total number of dispatched command lines by outcome",
			},
			[]string{"command", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "promptline_command_duration_seconds",
				Help:    "Duration of command handler executions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
	}
	for _, c := range []prometheus.Collector{m.commands, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(command, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome).Inc()
	if command != "" {
		m.duration.WithLabelValues(command).Observe(d.Seconds())
	}
}
