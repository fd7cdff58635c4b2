package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics tracks the invoice-event outbox relay.
type OutboxMetrics struct {
	relayLag     prometheus.Histogram
	backlog      prometheus.Gauge
	relayedTotal *prometheus.CounterVec
}

var (
	outboxMetricsOnce sync.Once
	outboxMetrics     *OutboxMetrics
)

func Outbox() *OutboxMetrics {
	return OutboxWithConfig(Config{})
}

func OutboxWithConfig(cfg Config) *OutboxMetrics {
	outboxMetricsOnce.Do(func() {
		outboxMetrics = newOutboxMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return outboxMetrics
}

func ResetOutboxMetricsForTest() {
	outboxMetricsOnce = sync.Once{}
	outboxMetrics = nil
}

func newOutboxMetrics(registerer prometheus.Registerer, cfg Config) *OutboxMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName(cfg),
		"env":     environment,
	}

	relayLag := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "ioweyou_outbox_relay_lag_seconds",
		Help:        "Lag between event creation and relay.",
		Buckets:     []float64{1, 5, 15, 60, 300, 900, 3600},
		ConstLabels: constLabels,
	})

	backlog := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "ioweyou_outbox_backlog_total",
		Help:        "Number of invoice events waiting to be relayed.",
		ConstLabels: constLabels,
	})

	relayedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "ioweyou_outbox_relayed_total",
			Help:        "Total invoice events relayed by result.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // success | failed
	)

	registerer.MustRegister(relayLag, backlog, relayedTotal)

	return &OutboxMetrics{
		relayLag:     relayLag,
		backlog:      backlog,
		relayedTotal: relayedTotal,
	}
}

func (m *OutboxMetrics) ObserveRelayLag(lag time.Duration) {
	if m == nil {
		return
	}
	seconds := lag.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.relayLag.Observe(seconds)
}

func (m *OutboxMetrics) SetBacklog(value int) {
	if m == nil {
		return
	}
	m.backlog.Set(float64(value))
}

func (m *OutboxMetrics) IncRelayed(result string) {
	if m == nil {
		return
	}
	m.relayedTotal.WithLabelValues(result).Inc()
}
