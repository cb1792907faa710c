package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/factorysim-go/internal/domain/session"
)

// GormSessionEventRepository implements session.EventLog using GORM
type GormSessionEventRepository struct {
	db *gorm.DB
}

func NewGormSessionEventRepository(db *gorm.DB) *GormSessionEventRepository {
	return &GormSessionEventRepository{db: db}
}

// Append writes lines in one batch
func (r *GormSessionEventRepository) Append(ctx context.Context, lines []session.EventLine) error {
	if len(lines) == 0 {
		return nil
	}
	models := make([]SessionEventModel, 0, len(lines))
	for _, l := range lines {
		models = append(models, SessionEventModel{
			SessionID: l.SessionID,
			Cycle:     l.Cycle,
			Kind:      l.Kind,
			Message:   l.Message,
			Timestamp: l.Timestamp,
		})
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("failed to append session events: %w", err)
	}
	return nil
}

// Recent returns the last limit lines of a session in the order they were written
func (r *GormSessionEventRepository) Recent(ctx context.Context, sessionID string, limit int) ([]session.EventLine, error) {
	var models []SessionEventModel
	query := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC").
		Limit(limit)
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to read session events: %w", err)
	}

	lines := make([]session.EventLine, len(models))
	for i, model := range models {
		lines[len(models)-1-i] = session.EventLine{
			SessionID: model.SessionID,
			Cycle:     model.Cycle,
			Kind:      model.Kind,
			Message:   model.Message,
			Timestamp: model.Timestamp,
		}
	}
	return lines, nil
}

var _ session.EventLog = (*GormSessionEventRepository)(nil)
