package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsRegistered(t *testing.T) {
	RequestsTotal.WithLabelValues("GET", "/api/health", "200").Inc()
	RequestDuration.WithLabelValues("GET", "/api/health").Observe(0.01)
	AuthFailuresTotal.WithLabelValues("missing").Inc()
	RateLimitRejectedTotal.WithLabelValues("login").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"linkedin_http_requests_total",
		"linkedin_http_request_duration_seconds",
		"linkedin_auth_failures_total",
		"linkedin_ratelimit_rejected_total",
	} {
		assert.True(t, names[want], want)
	}
}

func TestCounterIncrements(t *testing.T) {
	before := testutil.ToFloat64(RateLimitRejectedTotal.WithLabelValues("signup"))
	RateLimitRejectedTotal.WithLabelValues("signup").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RateLimitRejectedTotal.WithLabelValues("signup")))
}
