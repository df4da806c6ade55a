package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// SetActive flips is_active and records an optional moderation note.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool, note *string) error {
	updates := map[string]any{"is_active": active}
	if active {
		updates["suspended_note"] = nil
	} else {
		updates["suspended_note"] = note
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SetRole updates the user's role.
func (r *Repository) SetRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("role", role).Error
}

// List returns a cursor page of users ordered newest first, optionally
// filtered by a case-insensitive email/name search term.
func (r *Repository) List(ctx context.Context, query listQuery) ([]models.User, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})

	if query.search != "" {
		like := "%" + query.search + "%"
		q = q.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", like, like, like)
	}
	if query.role != "" {
		q = q.Where("role = ?", query.role)
	}
	if query.active != nil {
		q = q.Where("is_active = ?", *query.active)
	}

	if query.cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", query.cursor.CreatedAt, query.cursor.ID)
	}

	var out []models.User
	err := q.Order("created_at DESC, id DESC").
		Limit(query.limit).
		Find(&out).Error
	return out, err
}
