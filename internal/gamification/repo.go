package gamification

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
)

// Repository defines persistence for loyalty profiles and badges.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProfile(ctx context.Context, userID uuid.UUID) (*models.GamificationProfile, error)
	EnsureProfile(ctx context.Context, userID uuid.UUID) (*models.GamificationProfile, error)
	AddPoints(ctx context.Context, userID uuid.UUID, delta int) error
	TopProfiles(ctx context.Context, limit int) ([]LeaderboardRow, error)
	ListBadges(ctx context.Context) ([]models.Badge, error)
	FindBadgeByCode(ctx context.Context, code string) (*models.Badge, error)
	ListUserBadges(ctx context.Context, userID uuid.UUID) ([]models.Badge, error)
	GrantBadge(ctx context.Context, grant *models.UserBadge) error
}

// LeaderboardRow is one leaderboard entry joined to the user's public name.
type LeaderboardRow struct {
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Points    int       `json:"points"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gamification repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindProfile(ctx context.Context, userID uuid.UUID) (*models.GamificationProfile, error) {
	var profile models.GamificationProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// EnsureProfile returns the profile, creating an empty one for accounts that
// predate the loyalty program.
func (r *repository) EnsureProfile(ctx context.Context, userID uuid.UUID) (*models.GamificationProfile, error) {
	profile, err := r.FindProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	created := &models.GamificationProfile{UserID: userID}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) AddPoints(ctx context.Context, userID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.GamificationProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("points", gorm.Expr("GREATEST(points + ?, 0)", delta)).Error
}

func (r *repository) TopProfiles(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.db.WithContext(ctx).
		Table("gamification_profiles gp").
		Select("gp.user_id, u.first_name, u.last_name, gp.points").
		Joins("JOIN users u ON u.id = gp.user_id AND u.is_active = true").
		Order("gp.points DESC, gp.updated_at ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListBadges(ctx context.Context) ([]models.Badge, error) {
	var out []models.Badge
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *repository) FindBadgeByCode(ctx context.Context, code string) (*models.Badge, error) {
	var badge models.Badge
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&badge).Error
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *repository) ListUserBadges(ctx context.Context, userID uuid.UUID) ([]models.Badge, error) {
	var out []models.Badge
	err := r.db.WithContext(ctx).
		Table("badges b").
		Joins("JOIN user_badges ub ON ub.badge_id = b.id").
		Where("ub.user_id = ?", userID).
		Order("ub.created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) GrantBadge(ctx context.Context, grant *models.UserBadge) error {
	return r.db.WithContext(ctx).Create(grant).Error
}
