package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockClient is a Client for tests. Responses and errors are keyed by
// exact request path, including any query string.
type MockClient struct {
	mu sync.Mutex

	// Response configuration
	GetResponses  map[string]interface{}
	PostResponses map[string]interface{}
	Errors        map[string]error

	// Request tracking
	Requests []Request

	token string
}

// Request records one issued request.
type Request struct {
	Method  string
	Path    string
	Payload interface{}
}

// NewMockClient creates a mock transport.
func NewMockClient() *MockClient {
	return &MockClient{
		GetResponses:  map[string]interface{}{},
		PostResponses: map[string]interface{}{},
		Errors:        map[string]error{},
	}
}

// AddGetResponse registers a GET response for a path.
func (m *MockClient) AddGetResponse(path string, response interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetResponses[path] = response
}

// AddPostResponse registers a POST response for a path.
func (m *MockClient) AddPostResponse(path string, response interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostResponses[path] = response
}

// AddError makes every request to path fail with err.
func (m *MockClient) AddError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[path] = err
}

// ClearError removes the error for a path.
func (m *MockClient) ClearError(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Errors, path)
}

// GetJSON mocks a GET request.
func (m *MockClient) GetJSON(ctx context.Context, path string, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, Request{Method: "GET", Path: path})

	if err, ok := m.Errors[path]; ok {
		return err
	}

	resp, ok := m.GetResponses[path]
	if !ok {
		return fmt.Errorf("no mock response for GET %s", path)
	}
	return decodeInto(resp, out)
}

// PostJSON mocks a POST request.
func (m *MockClient) PostJSON(ctx context.Context, path string, payload, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Round-trip the payload through JSON so assertions see exactly
	// what would go on the wire.
	var recorded interface{}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		if err := json.Unmarshal(data, &recorded); err != nil {
			return fmt.Errorf("record payload: %w", err)
		}
	}
	m.Requests = append(m.Requests, Request{Method: "POST", Path: path, Payload: recorded})

	if err, ok := m.Errors[path]; ok {
		return err
	}

	resp, ok := m.PostResponses[path]
	if !ok {
		return fmt.Errorf("no mock response for POST %s", path)
	}
	return decodeInto(resp, out)
}

// SetToken records the bearer token.
func (m *MockClient) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// Token returns the recorded bearer token.
func (m *MockClient) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// RequestsFor returns recorded requests matching method and path.
func (m *MockClient) RequestsFor(method, path string) []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []Request
	for _, r := range m.Requests {
		if r.Method == method && r.Path == path {
			matched = append(matched, r)
		}
	}
	return matched
}

func decodeInto(resp, out interface{}) error {
	if out == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal mock response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode mock response: %w", err)
	}
	return nil
}
