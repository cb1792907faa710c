package common_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/application/common"
)

type stepRequest struct{ sessionID string }

func (r *stepRequest) Session() string { return r.sessionID }

type echoHandler struct{ err error }

func (h echoHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	return request, h.err
}

type capturedLog struct {
	level, message string
	fields         map[string]interface{}
}

type captureLogger struct{ entries []capturedLog }

func (l *captureLogger) Log(level, message string, metadata map[string]interface{}) {
	l.entries = append(l.entries, capturedLog{level, message, metadata})
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*stepRequest](m, echoHandler{}))
	var trace []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		m.Use(func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
			trace = append(trace, name)
			return next(ctx, request)
		})
	}

	// Act
	resp, err := m.Send(context.Background(), &stepRequest{sessionID: "s-1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "s-1", resp.(*stepRequest).sessionID)
	assert.Equal(t, []string{"outer", "inner"}, trace)
}

func TestMediator_RejectsUnknownAndDuplicateHandlers(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*stepRequest](m, echoHandler{}))

	// Act
	dupErr := common.RegisterHandler[*stepRequest](m, echoHandler{})
	_, sendErr := m.Send(context.Background(), "not a request")

	// Assert
	assert.Error(t, dupErr)
	assert.ErrorContains(t, sendErr, "no handler registered")
}

func TestLoggingMiddleware_TagsSession(t *testing.T) {
	// Arrange
	logger := &captureLogger{}
	ctx := common.WithLogger(context.Background(), logger)
	m := common.NewMediator()
	m.Use(common.LoggingMiddleware())
	require.NoError(t, common.RegisterHandler[*stepRequest](m, echoHandler{err: errors.New("step number should be larger than 0")}))

	// Act
	_, err := m.Send(ctx, &stepRequest{sessionID: "s-9"})

	// Assert
	require.Error(t, err)
	require.Len(t, logger.entries, 1)
	assert.Equal(t, "ERROR", logger.entries[0].level)
	assert.Equal(t, "s-9", logger.entries[0].fields["session_id"])
	assert.Equal(t, "stepRequest", logger.entries[0].fields["request"])
}

type panicHandler struct{}

func (panicHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	panic("nil building")
}

func TestMediator_RecoversHandlerPanic(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*stepRequest](m, panicHandler{}))

	// Act
	_, err := m.Send(context.Background(), &stepRequest{})

	// Assert
	assert.EqualError(t, err, "stepRequest panicked: nil building")
	assert.Equal(t, []string{"stepRequest"}, common.Registered(m))
}
