package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConciergeMetrics exposes counters/histograms for the messaging flow.
type ConciergeMetrics struct {
	inboundTotal    *prometheus.CounterVec
	outboundTotal   *prometheus.CounterVec
	suppressedTotal prometheus.Counter
	webhookLatency  *prometheus.HistogramVec
}

func NewConciergeMetrics(reg prometheus.Registerer) *ConciergeMetrics {
	m := &ConciergeMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "messaging",
			Name:      "inbound_webhook_total",
			Help:      "Total inbound WhatsApp webhooks",
		}, []string{"event_kind", "status"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "messaging",
			Name:      "outbound_total",
			Help:      "Total outbound Graph API sends",
		}, []string{"kind", "status"}),
		suppressedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "messaging",
			Name:      "suppressed_turns_total",
			Help:      "Turns answered with intentional silence",
		}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "concierge",
			Subsystem: "messaging",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.outboundTotal, m.suppressedTotal, m.webhookLatency)
	return m
}

func (m *ConciergeMetrics) ObserveInbound(eventKind, status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(eventKind, status).Inc()
}

func (m *ConciergeMetrics) ObserveOutbound(kind, status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(kind, status).Inc()
}

func (m *ConciergeMetrics) ObserveSuppressedTurn() {
	if m == nil {
		return
	}
	m.suppressedTotal.Inc()
}

func (m *ConciergeMetrics) ObserveWebhookLatency(eventKind string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(eventKind).Observe(seconds)
}
