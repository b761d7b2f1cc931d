package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/careerhub/careerhub/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "careerhub_job_cache_hits_total %d\n", snap.JobCacheHits)
	writeMetric(w, "careerhub_job_cache_misses_total %d\n", snap.JobCacheMisses)
	writeMetric(w, "careerhub_job_not_found_total %d\n", snap.JobNotFound)

	writeMetric(w, "careerhub_applications_auth_failures_total{reason=\"unauthenticated\"} %d\n", snap.AuthUnauthenticated)
	writeMetric(w, "careerhub_applications_auth_failures_total{reason=\"forbidden\"} %d\n", snap.AuthForbidden)

	writeMetric(w, "careerhub_applications_join_duration_seconds_count %d\n", snap.JoinCount)
	writeMetric(w, "careerhub_applications_join_duration_seconds_sum %.6f\n", float64(snap.JoinDurationTotalNs)/1e9)
	writeMetric(w, "careerhub_applications_joined_total %d\n", snap.JoinApplicationsTotal)

	writeMetric(w, "careerhub_applications_submitted_total %d\n", snap.ApplicationsSubmitted)
	writeMetric(w, "careerhub_tokens_issued_total %d\n", snap.TokensIssued)

	writeMetric(w, "careerhub_payment_intents_total{status=\"success\"} %d\n", snap.PaymentIntentsCreated)
	writeMetric(w, "careerhub_payment_intents_total{status=\"failed\"} %d\n", snap.PaymentIntentsFailed)
}

func writeMetric(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
