// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// UpstreamRequests counts outbound calls to external collaborators
	// (media host, mail relay) by service and outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_upstream_requests_total",
		Help: "Total number of outbound requests to external services",
	}, []string{"service", "outcome"})

	// TokenRenewals counts silent access-token renewals by outcome.
	TokenRenewals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_token_renewals_total",
		Help: "Total number of silent access-token renewal attempts",
	}, []string{"outcome"})

	// LoginAttempts counts login attempts by outcome.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_login_attempts_total",
		Help: "Total number of login attempts",
	}, []string{"outcome"})
)
