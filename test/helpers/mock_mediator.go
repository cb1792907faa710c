package helpers

import (
	"context"
	"reflect"

	"github.com/andrescamacho/factorysim-go/internal/application/common"
	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
)

// MockMediator is a test double for the Mediator interface. By default every request
// answers with an empty session result for the session it names.
type MockMediator struct {
	sendFunc func(ctx context.Context, request common.Request) (common.Response, error)
	requests []common.Request
}

func NewMockMediator() *MockMediator {
	return &MockMediator{}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request common.Request) (common.Response, error) {
	m.requests = append(m.requests, request)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, request)
	}

	result := &appsim.SessionResult{Document: []byte(`{}`)}
	if cmd, ok := request.(appsim.SessionCommand); ok {
		result.SessionID = cmd.Session()
	}
	switch req := request.(type) {
	case *appsim.GetSessionQuery:
		result.SessionID = req.SessionID
	case *appsim.LoadConfigCommand:
		result.SessionID = req.SessionID
		result.Document = req.Config
	}
	return result, nil
}

func (m *MockMediator) Register(requestType reflect.Type, handler common.RequestHandler) error {
	return nil
}

func (m *MockMediator) Use(middleware common.Middleware) {}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request common.Request) (common.Response, error)) {
	m.sendFunc = fn
}

// Requests returns every request sent so far
func (m *MockMediator) Requests() []common.Request {
	return append([]common.Request{}, m.requests...)
}

// LastRequest returns the most recent request, or nil
func (m *MockMediator) LastRequest() common.Request {
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}
