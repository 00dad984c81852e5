package telegram

// MockVerifier is a mock implementation of the Verifier interface for testing.
type MockVerifier struct {
	VerifyFunc func(initData string) error
	ParseFunc  func(initData string) (Identity, error)

	VerifyCalls []string
	ParseCalls  []string
}

var _ Verifier = (*MockVerifier)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockVerifier {
	return &MockVerifier{}
}

func (m *MockVerifier) Verify(initData string) error {
	m.VerifyCalls = append(m.VerifyCalls, initData)
	if m.VerifyFunc != nil {
		return m.VerifyFunc(initData)
	}
	return nil
}

func (m *MockVerifier) Parse(initData string) (Identity, error) {
	m.ParseCalls = append(m.ParseCalls, initData)
	if m.ParseFunc != nil {
		return m.ParseFunc(initData)
	}
	return Identity{}, nil
}
