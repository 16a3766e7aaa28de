package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup(outcome string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(outcome string) {}

// IncFederatedLogin is a no-op.
func (n *NoopRecorder) IncFederatedLogin(outcome string) {}

// IncTokenIssued is a no-op.
func (n *NoopRecorder) IncTokenIssued() {}
