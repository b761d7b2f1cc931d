package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncJobCacheHit()                                          {}
func (n *NoopRecorder) IncJobCacheMiss()                                         {}
func (n *NoopRecorder) IncJobNotFound()                                          {}
func (n *NoopRecorder) IncAuthFailure(reason string)                             {}
func (n *NoopRecorder) ObserveApplicationsJoin(size int, duration time.Duration) {}
func (n *NoopRecorder) IncApplicationSubmitted()                                 {}
func (n *NoopRecorder) IncTokenIssued()                                          {}
func (n *NoopRecorder) IncPaymentIntentCreated(status string)                    {}
