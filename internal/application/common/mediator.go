package common

import (
	"context"
	"fmt"
	"reflect"
	"sort"
)

// Request is a command or query sent through the mediator
type Request interface{}

type Response interface{}

type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware runs around every handler; call next to continue the chain
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// Mediator routes each request to the one handler registered for its concrete type.
// Handlers and middleware are registered at startup; Send is safe for concurrent use after that.
type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
	Use(middleware Middleware)
}

type mediator struct {
	handlers    map[reflect.Type]RequestHandler
	middlewares []Middleware
}

func NewMediator() Mediator {
	return &mediator{handlers: make(map[reflect.Type]RequestHandler)}
}

func (m *mediator) Register(requestType reflect.Type, handler RequestHandler) error {
	switch {
	case requestType == nil:
		return fmt.Errorf("request type cannot be nil")
	case handler == nil:
		return fmt.Errorf("handler for %s cannot be nil", requestType)
	}
	if _, taken := m.handlers[requestType]; taken {
		return fmt.Errorf("handler already registered for type %s", requestType)
	}
	m.handlers[requestType] = handler
	return nil
}

// Use adds middleware inside those already added, so the first one registered is the outermost
func (m *mediator) Use(middleware Middleware) {
	m.middlewares = append(m.middlewares, middleware)
}

func (m *mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	handler, ok := m.handlers[reflect.TypeOf(request)]
	if !ok {
		return nil, fmt.Errorf("no handler registered for type %T", request)
	}

	call := guard(handler)
	for i := len(m.middlewares) - 1; i >= 0; i-- {
		call = wrap(m.middlewares[i], call)
	}
	return call(ctx, request)
}

func wrap(mw Middleware, next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, request Request) (Response, error) {
		return mw(ctx, request, next)
	}
}

// guard turns a handler panic into an error so one broken simulation cannot take down a server
func guard(handler RequestHandler) HandlerFunc {
	return func(ctx context.Context, request Request) (resp Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				resp, err = nil, fmt.Errorf("%s panicked: %v", RequestName(request), r)
			}
		}()
		return handler.Handle(ctx, request)
	}
}

// RegisterHandler registers handler for the request type T
func RegisterHandler[T Request](m Mediator, handler RequestHandler) error {
	var zero T
	return m.Register(reflect.TypeOf(zero), handler)
}

// Registered lists the short names of the request types m can route, sorted
func Registered(m Mediator) []string {
	impl, ok := m.(*mediator)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(impl.handlers))
	for t := range impl.handlers {
		names = append(names, RequestName(reflect.Zero(t).Interface()))
	}
	sort.Strings(names)
	return names
}
