// ABOUTME: Prometheus metrics for intent routing and fallback matching
// ABOUTME: Auto-registered via promauto so no explicit registry wiring is needed

package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// intentRequestsTotal counts routed requests by resolved intent variant.
	// Labels: intent (lead_capture, handoff_request, welcome, unrecognized)
	intentRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "intent_gateway",
		Subsystem: "router",
		Name:      "requests_total",
		Help:      "Total routed requests by resolved intent",
	}, []string{"intent"})

	// fallbackMatchScore records accepted fallback match scores.
	fallbackMatchScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "intent_gateway",
		Subsystem: "router",
		Name:      "fallback_match_score",
		Help:      "Token-sort score of accepted knowledge-base matches",
		Buckets:   []float64{86, 88, 90, 92, 94, 96, 98, 100},
	})

	// notificationsTotal counts dispatch attempts by result.
	// Labels: result (delivered, failed)
	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "intent_gateway",
		Subsystem: "router",
		Name:      "notifications_total",
		Help:      "Total handoff/lead notifications by delivery result",
	}, []string{"result"})
)

// observeDispatch records one notification attempt.
func observeDispatch(ok bool) {
	result := "failed"
	if ok {
		result = "delivered"
	}
	notificationsTotal.WithLabelValues(result).Inc()
}
