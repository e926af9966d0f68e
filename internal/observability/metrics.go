package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GatewayRequestLatency records outbound gateway call latency by operation.
	GatewayRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campushub_gateway_request_latency_seconds",
		Help:    "Gateway request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// GatewayErrorsTotal counts failed gateway calls by operation and error code.
	GatewayErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushub_gateway_errors_total",
		Help: "Total number of failed gateway calls by operation and error code",
	}, []string{"operation", "code"})

	// LikeTogglesTotal counts like toggles by resulting action.
	LikeTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushub_like_toggles_total",
		Help: "Total number of like toggles by action",
	}, []string{"action"})

	// ModerationActionsTotal counts moderation transitions by action and resulting status.
	ModerationActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushub_moderation_actions_total",
		Help: "Total number of moderation actions by action and resulting status",
	}, []string{"action", "status"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// ObserveGatewayRequest records the latency of a gateway call.
func ObserveGatewayRequest(operation string, start time.Time) {
	GatewayRequestLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
