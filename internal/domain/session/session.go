package session

import (
	"context"
	"fmt"
	"time"
)

// Session is a saved simulation that clients resume by id. Document is the snapshot JSON.
type Session struct {
	ID        string
	Name      string
	Document  []byte
	Cycle     int
	Verbosity int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventLine is one rendered simulation event recorded against a session
type EventLine struct {
	SessionID string
	Cycle     int
	Kind      string
	Message   string
	Timestamp time.Time
}

// Repository stores sessions
type Repository interface {
	Save(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context) ([]*Session, error)
	Delete(ctx context.Context, id string) error
}

// EventLog stores the event lines a session produced
type EventLog interface {
	Append(ctx context.Context, lines []EventLine) error
	Recent(ctx context.Context, sessionID string, limit int) ([]EventLine, error)
}

type ErrSessionNotFound struct {
	SessionID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}
