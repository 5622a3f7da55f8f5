package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of session tokens issued or renewed.",
		},
		[]string{"flow"},
	)

	VerificationCodesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_codes_total",
			Help: "Verification codes issued and checked, by purpose and result.",
		},
		[]string{"purpose", "result"},
	)

	RoomConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatroom_ws_connections",
			Help: "Open chat room websocket connections.",
		},
	)

	RoomEventsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatroom_events_dropped_total",
			Help: "Room events dropped because the hub was backed up.",
		},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		TokensIssuedTotal,
		VerificationCodesTotal,
		RoomConnections,
		RoomEventsDroppedTotal,
	)
}
