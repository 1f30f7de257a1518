package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "usergw", Name: "provider_requests_total", Help: "Identity provider admin API calls by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	AuthzDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "usergw", Name: "authz_denied_total", Help: "Requests rejected by the role guard, by endpoint."},
		[]string{"endpoint"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "usergw", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "usergw", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(ProviderRequests)
	reg.MustRegister(AuthzDenied)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
