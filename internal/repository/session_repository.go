package repository

import (
	"context"

	"github.com/mvilar/glucose-tracker/internal/domain"
	"github.com/mvilar/glucose-tracker/pkg/pagination"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.GlucoseSession) error
	// List returns up to limit+1 sessions for the user, newest first, so
	// the caller can detect whether more pages exist.
	List(ctx context.Context, userID int64, filter domain.SessionFilter) ([]domain.GlucoseSession, error)
	GetByID(ctx context.Context, id, userID int64) (*domain.GlucoseSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.GlucoseSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) List(ctx context.Context, userID int64, filter domain.SessionFilter) ([]domain.GlucoseSession, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC")

	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			query = query.Where("id < ?", cursor.ID)
		}
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var sessions []domain.GlucoseSession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id, userID int64) (*domain.GlucoseSession, error) {
	var session domain.GlucoseSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}
