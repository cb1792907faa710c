package simulation

import (
	"context"
	"strings"

	"github.com/andrescamacho/factorysim-go/internal/application/common"
	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/session"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// LoggerSink receives simulation events for one command. It keeps the console lines for the
// caller, forwards each event to the context logger and buffers event lines for the session log.
type LoggerSink struct {
	ctx       context.Context
	sessionID string
	clock     shared.Clock
	observer  Observer

	output []string
	events []session.EventLine
}

func NewLoggerSink(ctx context.Context, sessionID string, clock shared.Clock, observer Observer) *LoggerSink {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &LoggerSink{ctx: ctx, sessionID: sessionID, clock: clock, observer: observer}
}

func (s *LoggerSink) Publish(e facility.Event) {
	lines := e.Lines()
	if len(lines) == 0 {
		return
	}
	s.output = append(s.output, lines...)

	common.LoggerFromContext(s.ctx).Log("INFO", lines[0], map[string]interface{}{
		"session_id": s.sessionID,
		"cycle":      e.Cycle,
		"kind":       string(e.Kind),
		"building":   e.Building,
	})
	s.events = append(s.events, session.EventLine{
		SessionID: s.sessionID,
		Cycle:     e.Cycle,
		Kind:      string(e.Kind),
		Message:   strings.Join(lines, "\n"),
		Timestamp: s.clock.Now(),
	})
	if s.observer != nil {
		s.observer.ObserveEvent(s.sessionID, e)
	}
}

// Output is every console line published so far
func (s *LoggerSink) Output() []string {
	return s.output
}

func (s *LoggerSink) Events() []session.EventLine {
	return s.events
}

var _ facility.EventSink = (*LoggerSink)(nil)
