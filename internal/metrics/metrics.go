// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Job detail lookups
	IncJobCacheHit()
	IncJobCacheMiss()
	IncJobNotFound()

	// Application aggregation
	IncAuthFailure(reason string) // reason: "unauthenticated" or "forbidden"
	ObserveApplicationsJoin(size int, duration time.Duration)

	// Writes and external calls
	IncApplicationSubmitted()
	IncTokenIssued()
	IncPaymentIntentCreated(status string) // status: "success" or "failed"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
