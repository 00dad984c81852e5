package tablestore

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	ListFunc   func(ctx context.Context, table string, opts ListOptions) ([]Record, error)
	GetFunc    func(ctx context.Context, table, id string) (Record, error)
	CreateFunc func(ctx context.Context, table string, fields []Fields) ([]Record, error)
	UpdateFunc func(ctx context.Context, table string, updates []RecordUpdate) ([]Record, error)
	SchemaFunc func(ctx context.Context, table string) (*FieldMap, error)

	// Call records
	ListCalls []struct {
		Table string
		Opts  ListOptions
	}
	GetCalls []struct {
		Table string
		ID    string
	}
	CreateCalls []struct {
		Table  string
		Fields []Fields
	}
	UpdateCalls []struct {
		Table   string
		Updates []RecordUpdate
	}
}

var _ Client = (*MockClient)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockClient {
	return &MockClient{}
}

func (m *MockClient) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, struct {
		Table string
		Opts  ListOptions
	}{table, opts})
	fn := m.ListFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, table, opts)
	}
	return nil, nil
}

func (m *MockClient) Get(ctx context.Context, table, id string) (Record, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, struct {
		Table string
		ID    string
	}{table, id})
	fn := m.GetFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, table, id)
	}
	return Record{}, nil
}

func (m *MockClient) Create(ctx context.Context, table string, fields []Fields) ([]Record, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, struct {
		Table  string
		Fields []Fields
	}{table, fields})
	fn := m.CreateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, table, fields)
	}
	return nil, nil
}

func (m *MockClient) Update(ctx context.Context, table string, updates []RecordUpdate) ([]Record, error) {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, struct {
		Table   string
		Updates []RecordUpdate
	}{table, updates})
	fn := m.UpdateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, table, updates)
	}
	return nil, nil
}

func (m *MockClient) Schema(ctx context.Context, table string) (*FieldMap, error) {
	if m.SchemaFunc != nil {
		return m.SchemaFunc(ctx, table)
	}
	return nil, nil
}
