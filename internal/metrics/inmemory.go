package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	JobCacheHits          uint64
	JobCacheMisses        uint64
	JobNotFound           uint64
	AuthUnauthenticated   uint64
	AuthForbidden         uint64
	JoinCount             uint64
	JoinApplicationsTotal uint64
	JoinDurationTotalNs   int64
	ApplicationsSubmitted uint64
	TokensIssued          uint64
	PaymentIntentsCreated uint64
	PaymentIntentsFailed  uint64
}

// InMemoryRecorder keeps counters in memory; it backs the /metrics endpoint.
type InMemoryRecorder struct {
	jobCacheHits          atomic.Uint64
	jobCacheMisses        atomic.Uint64
	jobNotFound           atomic.Uint64
	authUnauthenticated   atomic.Uint64
	authForbidden         atomic.Uint64
	joinCount             atomic.Uint64
	joinApplicationsTotal atomic.Uint64
	joinDurationTotalNs   atomic.Int64
	applicationsSubmitted atomic.Uint64
	tokensIssued          atomic.Uint64
	paymentIntentsCreated atomic.Uint64
	paymentIntentsFailed  atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		JobCacheHits:          m.jobCacheHits.Load(),
		JobCacheMisses:        m.jobCacheMisses.Load(),
		JobNotFound:           m.jobNotFound.Load(),
		AuthUnauthenticated:   m.authUnauthenticated.Load(),
		AuthForbidden:         m.authForbidden.Load(),
		JoinCount:             m.joinCount.Load(),
		JoinApplicationsTotal: m.joinApplicationsTotal.Load(),
		JoinDurationTotalNs:   m.joinDurationTotalNs.Load(),
		ApplicationsSubmitted: m.applicationsSubmitted.Load(),
		TokensIssued:          m.tokensIssued.Load(),
		PaymentIntentsCreated: m.paymentIntentsCreated.Load(),
		PaymentIntentsFailed:  m.paymentIntentsFailed.Load(),
	}
}

// IncJobCacheHit increments the job cache hit counter.
func (m *InMemoryRecorder) IncJobCacheHit() {
	m.jobCacheHits.Add(1)
}

// IncJobCacheMiss increments the job cache miss counter.
func (m *InMemoryRecorder) IncJobCacheMiss() {
	m.jobCacheMisses.Add(1)
}

// IncJobNotFound counts lookups of jobs that do not exist.
func (m *InMemoryRecorder) IncJobNotFound() {
	m.jobNotFound.Add(1)
}

// IncAuthFailure counts rejected aggregation requests by reason.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	switch reason {
	case "forbidden":
		m.authForbidden.Add(1)
	default:
		m.authUnauthenticated.Add(1)
	}
}

// ObserveApplicationsJoin records one completed application/job join.
func (m *InMemoryRecorder) ObserveApplicationsJoin(size int, duration time.Duration) {
	m.joinCount.Add(1)
	m.joinApplicationsTotal.Add(uint64(size))
	m.joinDurationTotalNs.Add(duration.Nanoseconds())
}

// IncApplicationSubmitted counts stored applications.
func (m *InMemoryRecorder) IncApplicationSubmitted() {
	m.applicationsSubmitted.Add(1)
}

// IncTokenIssued counts issued session tokens.
func (m *InMemoryRecorder) IncTokenIssued() {
	m.tokensIssued.Add(1)
}

// IncPaymentIntentCreated counts payment intent attempts by outcome.
func (m *InMemoryRecorder) IncPaymentIntentCreated(status string) {
	if status == "success" {
		m.paymentIntentsCreated.Add(1)
		return
	}
	m.paymentIntentsFailed.Add(1)
}
