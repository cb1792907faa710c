package persistence

import (
	"time"
)

// SessionModel represents the sessions table
type SessionModel struct {
	ID        string    `gorm:"column:id;primaryKey;not null"`
	Name      string    `gorm:"column:name"`
	Document  string    `gorm:"column:document;type:text;not null"` // snapshot JSON
	Cycle     int       `gorm:"column:cycle;not null;default:0"`
	Verbosity int       `gorm:"column:verbosity;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

// SessionEventModel represents the session_events table
type SessionEventModel struct {
	ID        int           `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID string        `gorm:"column:session_id;not null;index"`
	Session   *SessionModel `gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Cycle     int           `gorm:"column:cycle;not null"`
	Kind      string        `gorm:"column:kind;not null"`
	Message   string        `gorm:"column:message;type:text;not null"`
	Timestamp time.Time     `gorm:"column:timestamp;not null"`
}

func (SessionEventModel) TableName() string {
	return "session_events"
}
