package metrics

import "github.com/prometheus/client_golang/prometheus"

// ThrottleMetrics counts requests the auth rate limiter turned away.
type ThrottleMetrics struct {
	blocked *prometheus.CounterVec
}

// NewThrottleMetrics registers the throttle metrics on the provided
// registerer. A nil registerer yields a no-op instance.
func NewThrottleMetrics(reg prometheus.Registerer) *ThrottleMetrics {
	if reg == nil {
		return &ThrottleMetrics{}
	}
	blocked := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_rate_limited_total",
		Help: "Auth requests rejected by the rate limiter, partitioned by policy and scope.",
	}, []string{"policy", "scope"})
	reg.MustRegister(blocked)
	return &ThrottleMetrics{blocked: blocked}
}

// ObserveBlocked records one rejected request.
func (t *ThrottleMetrics) ObserveBlocked(policy, scope string) {
	if t == nil || t.blocked == nil {
		return
	}
	t.blocked.WithLabelValues(normalizeLabel(policy), normalizeLabel(scope)).Inc()
}
