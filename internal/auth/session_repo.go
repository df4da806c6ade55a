package auth

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
)

// SessionLogRepository records the audit trail of logins and logouts.
type SessionLogRepository struct {
	db *gorm.DB
}

// NewSessionLogRepository builds the session audit repo.
func NewSessionLogRepository(db *gorm.DB) *SessionLogRepository {
	return &SessionLogRepository{db: db}
}

// Create appends a login row keyed by the token jti.
func (r *SessionLogRepository) Create(ctx context.Context, log *models.SessionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// Close stamps logout_at on the session row. Closing an unknown or already
// closed session is a no-op.
func (r *SessionLogRepository) Close(ctx context.Context, sessionID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.SessionLog{}).
		Where("session_id = ? AND logout_at IS NULL", sessionID).
		UpdateColumn("logout_at", at).Error
}
