package http

import "github.com/prometheus/client_golang/prometheus"

type webhookMetrics struct {
	events   *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

func newWebhookMetrics(reg prometheus.Registerer) *webhookMetrics {
	m := &webhookMetrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatops",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Verified webhook deliveries by event and outcome.",
		}, []string{"event", "outcome"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatops",
			Subsystem: "webhook",
			Name:      "rejected_total",
			Help:      "Webhook deliveries refused before dispatch, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.events, m.rejected)
	return m
}
