package metrics

import "sync"

// MockMetrics is a mock implementation of the Metrics interface for testing.
// It counts calls so tests can assert on instrumentation.
type MockMetrics struct {
	mu sync.Mutex

	ReportedCount     int
	ConfirmedCount    int
	RejectedCount     int
	DisputedCount     int
	ApplicationsCount int
	StoreErrorCount   int
	NotifSentCount    int
	NotifFailedCount  int
	Durations         map[string][]float64
	StartupTime       float64
}

var _ Metrics = (*MockMetrics)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockMetrics {
	return &MockMetrics{Durations: make(map[string][]float64)}
}

func (m *MockMetrics) IncMatchesReported() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportedCount++
}

func (m *MockMetrics) IncMatchesConfirmed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfirmedCount++
}

func (m *MockMetrics) IncMatchesRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RejectedCount++
}

func (m *MockMetrics) IncMatchesDisputed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DisputedCount++
}

func (m *MockMetrics) IncRatingApplications() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplicationsCount++
}

func (m *MockMetrics) IncStoreErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoreErrorCount++
}

func (m *MockMetrics) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifSentCount++
}

func (m *MockMetrics) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifFailedCount++
}

func (m *MockMetrics) ObserveOperationDuration(operation string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Durations[operation] = append(m.Durations[operation], seconds)
}

func (m *MockMetrics) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTime = duration
}
