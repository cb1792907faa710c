package websocket

import "encoding/json"

// Actions a client may send
const (
	ActionNewSession    = "newSession"
	ActionLoadSession   = "loadSession"
	ActionLoadCommand   = "loadCommand"
	ActionNewBuilding   = "newBuilding"
	ActionCommand       = "command"
	ActionTextCommand   = "textCommand"
	ActionListSessions  = "listSessions"
	ActionDeleteSession = "deleteSession"
)

// Message is one client request. JSONData carries a configuration document for newSession and
// loadCommand, or a building descriptor for newBuilding.
type Message struct {
	ID        string          `json:"id,omitempty"`
	Action    string          `json:"action"`
	SessionID string          `json:"sessionID,omitempty"`
	Name      string          `json:"name,omitempty"`
	Command   string          `json:"command,omitempty"`
	JSONData  json.RawMessage `json:"jsonData,omitempty"`
}

// Response answers one Message. Result is Action with "-result" appended.
type Response struct {
	ID        string          `json:"id,omitempty"`
	Action    string          `json:"action"`
	SessionID string          `json:"sessionID,omitempty"`
	Status    string          `json:"status"`
	Cycle     int             `json:"cycle,omitempty"`
	JSONData  json.RawMessage `json:"jsonData,omitempty"`
	Output    []string        `json:"output,omitempty"`
	Value     interface{}     `json:"value,omitempty"`
	Error     string          `json:"error,omitempty"`
	Details   string          `json:"details,omitempty"`
}
