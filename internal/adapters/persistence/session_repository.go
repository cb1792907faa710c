package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/factorysim-go/internal/domain/session"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// GormSessionRepository implements session.Repository using GORM
type GormSessionRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormSessionRepository creates a new GORM session repository.
// If clock is nil, uses RealClock.
func NewGormSessionRepository(db *gorm.DB, clock shared.Clock) *GormSessionRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormSessionRepository{db: db, clock: clock}
}

// Save creates or updates a session. CreatedAt is kept from the first save.
func (r *GormSessionRepository) Save(ctx context.Context, s *session.Session) error {
	now := r.clock.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	// Upsert: create or update
	result := r.db.WithContext(ctx).Save(r.sessionToModel(s))
	if result.Error != nil {
		return fmt.Errorf("failed to save session: %w", result.Error)
	}
	return nil
}

// FindByID retrieves a session by id
func (r *GormSessionRepository) FindByID(ctx context.Context, id string) (*session.Session, error) {
	var model SessionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &session.ErrSessionNotFound{SessionID: id}
		}
		return nil, fmt.Errorf("failed to find session: %w", result.Error)
	}
	return r.modelToSession(&model), nil
}

// List retrieves every session, most recently updated first
func (r *GormSessionRepository) List(ctx context.Context) ([]*session.Session, error) {
	var models []SessionModel
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	sessions := make([]*session.Session, 0, len(models))
	for i := range models {
		sessions = append(sessions, r.modelToSession(&models[i]))
	}
	return sessions, nil
}

// Delete removes a session and its events
func (r *GormSessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&SessionEventModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete session events: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&SessionModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return &session.ErrSessionNotFound{SessionID: id}
		}
		return nil
	})
}

func (r *GormSessionRepository) modelToSession(model *SessionModel) *session.Session {
	return &session.Session{
		ID:        model.ID,
		Name:      model.Name,
		Document:  []byte(model.Document),
		Cycle:     model.Cycle,
		Verbosity: model.Verbosity,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func (r *GormSessionRepository) sessionToModel(s *session.Session) *SessionModel {
	return &SessionModel{
		ID:        s.ID,
		Name:      s.Name,
		Document:  string(s.Document),
		Cycle:     s.Cycle,
		Verbosity: s.Verbosity,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

var _ session.Repository = (*GormSessionRepository)(nil)
