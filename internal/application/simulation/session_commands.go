package simulation

import "time"

// NewSessionCommand creates a session from an initial configuration or saved document.
// An empty Config starts an empty simulation.
type NewSessionCommand struct {
	Name   string
	Config []byte
}

// LoadConfigCommand replaces the simulation of a session
type LoadConfigCommand struct {
	SessionID string
	Config    []byte
}

// GetSessionQuery returns the stored document and up to EventLimit recent event lines
type GetSessionQuery struct {
	SessionID  string
	EventLimit int
}

type ListSessionsQuery struct{}

type DeleteSessionCommand struct {
	SessionID string
}

// SessionSummary describes a stored session without its document
type SessionSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Cycle     int       `json:"cycle"`
	UpdatedAt time.Time `json:"updatedAt"`
}
