package social

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/pagination"
)

// Repository defines persistence for follow edges.
type Repository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	Followers(ctx context.Context, query listQuery) ([]FollowRow, error)
	Following(ctx context.Context, query listQuery) ([]FollowRow, error)
	Counts(ctx context.Context, userID uuid.UUID) (followers int64, following int64, err error)
}

type listQuery struct {
	userID uuid.UUID
	limit  int
	cursor *pagination.Cursor
}

// FollowRow is one edge joined to the counterpart user's public fields.
type FollowRow struct {
	EdgeID    uuid.UUID `json:"edge_id"`
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a social repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *repository) Delete(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

// Followers lists users following query.userID, newest edge first.
func (r *repository) Followers(ctx context.Context, query listQuery) ([]FollowRow, error) {
	return r.listEdges(ctx, query, "f.followee_id = ?", "u.id = f.follower_id")
}

// Following lists users query.userID follows, newest edge first.
func (r *repository) Following(ctx context.Context, query listQuery) ([]FollowRow, error) {
	return r.listEdges(ctx, query, "f.follower_id = ?", "u.id = f.followee_id")
}

func (r *repository) listEdges(ctx context.Context, query listQuery, where, joinOn string) ([]FollowRow, error) {
	q := r.db.WithContext(ctx).
		Table("follows f").
		Select("f.id AS edge_id, u.id AS user_id, u.first_name, u.last_name, f.created_at").
		Joins("JOIN users u ON "+joinOn+" AND u.is_active = true").
		Where(where, query.userID).
		Order("f.created_at DESC, f.id DESC").
		Limit(query.limit)
	if query.cursor != nil {
		q = q.Where("(f.created_at, f.id) < (?, ?)", query.cursor.CreatedAt, query.cursor.ID)
	}

	var rows []FollowRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Counts(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var followers, following int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Count(&followers).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&following).Error
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
