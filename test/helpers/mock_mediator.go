package helpers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/mediator"
)

// MockMediator is a test double for mediator.Mediator. Responses are
// configured per request type; every request is recorded.
type MockMediator struct {
	mu        sync.Mutex
	sendFunc  func(ctx context.Context, request mediator.Request) (mediator.Response, error)
	responses map[reflect.Type]mockResult
	requests  []mediator.Request
}

type mockResult struct {
	response mediator.Response
	err      error
}

var _ mediator.Mediator = (*MockMediator)(nil)

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{responses: make(map[reflect.Type]mockResult)}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, request)
	sendFunc := m.sendFunc
	result, ok := m.responses[reflect.TypeOf(request)]
	m.mu.Unlock()

	// Use custom function if provided
	if sendFunc != nil {
		return sendFunc(ctx, request)
	}
	if !ok {
		return nil, fmt.Errorf("unsupported request type: %T", request)
	}
	return result.response, result.err
}

func (m *MockMediator) Register(requestType reflect.Type, handler mediator.RequestHandler) error {
	return nil
}

func (m *MockMediator) Use(middleware mediator.Middleware) {}

// Respond sets the response returned for requests of the same type as request
func (m *MockMediator) Respond(request mediator.Request, response mediator.Response, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[reflect.TypeOf(request)] = mockResult{response: response, err: err}
}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request mediator.Request) (mediator.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// Requests returns every request sent so far
func (m *MockMediator) Requests() []mediator.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mediator.Request(nil), m.requests...)
}

// LastRequest returns the most recent request, or nil
func (m *MockMediator) LastRequest() mediator.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}
