package creds

import "sync"

// Mock is an in-memory credential store for tests.
type Mock struct {
	mu     sync.Mutex
	values map[string]string

	// Error injection
	GetErr error
	SetErr error
}

// NewMock creates an empty mock store.
func NewMock() *Mock {
	return &Mock{values: map[string]string{}}
}

func (m *Mock) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	return m.values[key], nil
}

func (m *Mock) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *Mock) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
