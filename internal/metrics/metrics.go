// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Outcome labels for auth operations.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	IncSignup(outcome string)
	IncLogin(outcome string)
	IncFederatedLogin(outcome string)
	IncTokenIssued()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
