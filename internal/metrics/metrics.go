// Package metrics exposes the small set of Prometheus counters/histograms
// the pipeline emits: API call volume and latency (wired into
// internal/httpclient indirectly through internal/timecamp) and sync
// outcomes (wired into internal/sync's summary). Optional push to a
// Pushgateway at process exit, since neither binary runs long enough to be
// scraped (spec.md §6.3 "Exit code 0 on success").
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/hrsync/tcsync/internal/sync"
)

// Registry bundles every metric the pipeline emits, registered against a
// private prometheus.Registry rather than the global default so a push at
// exit carries exactly this run's numbers.
type Registry struct {
	reg *prometheus.Registry

	APIRequestsTotal      *prometheus.CounterVec
	APIRequestDuration    *prometheus.HistogramVec
	UsersCreatedTotal     prometheus.Counter
	UsersUpdatedTotal     prometheus.Counter
	UsersDeactivatedTotal prometheus.Counter
	GroupsCreatedTotal    prometheus.Counter
}

// New builds a Registry with every metric registered.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		APIRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_api_requests_total",
			Help: "TimeCamp API requests, labeled by outcome status.",
		}, []string{"status"}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sync_api_request_duration_seconds",
			Help:    "TimeCamp API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		UsersCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_users_created_total",
			Help: "Users created by the sync engine.",
		}),
		UsersUpdatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_users_updated_total",
			Help: "Users updated by the sync engine.",
		}),
		UsersDeactivatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_users_deactivated_total",
			Help: "Users deactivated by the sync engine.",
		}),
		GroupsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_groups_created_total",
			Help: "Groups created by the sync engine.",
		}),
	}

	reg.MustRegister(
		r.APIRequestsTotal, r.APIRequestDuration,
		r.UsersCreatedTotal, r.UsersUpdatedTotal, r.UsersDeactivatedTotal, r.GroupsCreatedTotal,
	)
	return r
}

// RecordRequest satisfies internal/httpclient.MetricsRecorder structurally
// (httpclient never imports this package — see SetMetrics at the call
// site in cmd/).
func (r *Registry) RecordRequest(method, url string, status int, duration time.Duration) {
	r.APIRequestsTotal.WithLabelValues(fmt.Sprintf("%d", status)).Inc()
	r.APIRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordSummary folds a completed sync.Summary into the counters. Called
// once, after Engine.Run returns.
func (r *Registry) RecordSummary(s sync.Summary) {
	addN(r.UsersCreatedTotal, s.UsersCreated)
	addN(r.UsersUpdatedTotal, s.UsersUpdated+s.UsersReactivated)
	addN(r.UsersDeactivatedTotal, s.UsersDeactivated)
	addN(r.GroupsCreatedTotal, s.GroupsCreated)
}

func addN(c prometheus.Counter, n int) {
	if n > 0 {
		c.Add(float64(n))
	}
}

// PushIfConfigured pushes the registry's metrics to gatewayURL, the job
// named "tcsync", if gatewayURL is non-empty. Errors are returned for the
// caller to log — a failed metrics push must never fail the run itself.
func (r *Registry) PushIfConfigured(gatewayURL string) error {
	if gatewayURL == "" {
		return nil
	}
	if err := push.New(gatewayURL, "tcsync").Gatherer(r.reg).Push(); err != nil {
		return fmt.Errorf("failed to push metrics to %q: %w", gatewayURL, err)
	}
	return nil
}
