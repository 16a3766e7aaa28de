package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SignupSuccess          uint64
	SignupRejected         uint64
	SignupError            uint64
	LoginSuccess           uint64
	LoginRejected          uint64
	LoginError             uint64
	FederatedLoginSuccess  uint64
	FederatedLoginRejected uint64
	FederatedLoginError    uint64
	TokensIssued           uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	signupSuccess          uint64
	signupRejected         uint64
	signupError            uint64
	loginSuccess           uint64
	loginRejected          uint64
	loginError             uint64
	federatedLoginSuccess  uint64
	federatedLoginRejected uint64
	federatedLoginError    uint64
	tokensIssued           uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		SignupSuccess:          atomic.LoadUint64(&m.signupSuccess),
		SignupRejected:         atomic.LoadUint64(&m.signupRejected),
		SignupError:            atomic.LoadUint64(&m.signupError),
		LoginSuccess:           atomic.LoadUint64(&m.loginSuccess),
		LoginRejected:          atomic.LoadUint64(&m.loginRejected),
		LoginError:             atomic.LoadUint64(&m.loginError),
		FederatedLoginSuccess:  atomic.LoadUint64(&m.federatedLoginSuccess),
		FederatedLoginRejected: atomic.LoadUint64(&m.federatedLoginRejected),
		FederatedLoginError:    atomic.LoadUint64(&m.federatedLoginError),
		TokensIssued:           atomic.LoadUint64(&m.tokensIssued),
	}
}

// IncSignup increments the signup counter for the given outcome.
func (m *InMemoryRecorder) IncSignup(outcome string) {
	inc(outcome, &m.signupSuccess, &m.signupRejected, &m.signupError)
}

// IncLogin increments the login counter for the given outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	inc(outcome, &m.loginSuccess, &m.loginRejected, &m.loginError)
}

// IncFederatedLogin increments the federated login counter for the given outcome.
func (m *InMemoryRecorder) IncFederatedLogin(outcome string) {
	inc(outcome, &m.federatedLoginSuccess, &m.federatedLoginRejected, &m.federatedLoginError)
}

// IncTokenIssued increments the issued-token counter.
func (m *InMemoryRecorder) IncTokenIssued() {
	atomic.AddUint64(&m.tokensIssued, 1)
}

func inc(outcome string, success, rejected, failed *uint64) {
	switch outcome {
	case OutcomeSuccess:
		atomic.AddUint64(success, 1)
	case OutcomeRejected:
		atomic.AddUint64(rejected, 1)
	default:
		atomic.AddUint64(failed, 1)
	}
}
