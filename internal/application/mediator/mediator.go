package mediator

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Request is a command or query; handlers are looked up by its dynamic type
type Request interface{}

type Response interface{}

type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc adapts a function to RequestHandler
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, request Request) (Response, error) {
	return f(ctx, request)
}

// Middleware wraps every Send; call next to continue the chain
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// Mediator dispatches requests to their handlers through a middleware chain
type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
	Use(middleware Middleware)
}

type mediator struct {
	mu          sync.RWMutex
	handlers    map[reflect.Type]RequestHandler
	middlewares []Middleware
}

// NewMediator creates a new mediator instance
func NewMediator() Mediator {
	return &mediator{
		handlers: make(map[reflect.Type]RequestHandler),
	}
}

// Register registers a handler for a specific request type
func (m *mediator) Register(requestType reflect.Type, handler RequestHandler) error {
	if requestType == nil {
		return fmt.Errorf("request type cannot be nil")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[requestType]; exists {
		return fmt.Errorf("handler already registered for type %s", requestType)
	}
	m.handlers[requestType] = handler
	return nil
}

// Use appends a middleware; the first registered runs outermost
func (m *mediator) Use(middleware Middleware) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.middlewares = append(m.middlewares, middleware)
}

// Send dispatches a request to its registered handler
func (m *mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	requestType := reflect.TypeOf(request)

	m.mu.RLock()
	handler, ok := m.handlers[requestType]
	middlewares := m.middlewares
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no handler registered for type %s", requestType)
	}

	next := HandlerFunc(handler.Handle)
	for i := len(middlewares) - 1; i >= 0; i-- {
		middleware, inner := middlewares[i], next
		next = func(ctx context.Context, request Request) (Response, error) {
			return middleware(ctx, request, inner)
		}
	}
	return next(ctx, request)
}

// RequestName is the request's type name without pointer or package,
// e.g. "CalculateSimpleRouteCommand"
func RequestName(request Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// RegisterHandler registers handler for the request type T
// Example: mediator.RegisterHandler[*routecalc.ClearRouteCommand](m, handler)
func RegisterHandler[T Request](m Mediator, handler RequestHandler) error {
	var zero T
	return m.Register(reflect.TypeOf(zero), handler)
}
