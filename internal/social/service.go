package social

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db"
	"github.com/shopcircle/backend/pkg/db/models"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	pkgpagination "github.com/shopcircle/backend/pkg/pagination"
)

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes the follow graph.
type Service interface {
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) (*FollowStatus, error)
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) (*FollowStatus, error)
	Followers(ctx context.Context, userID uuid.UUID, params pkgpagination.Params) (*ListResult, error)
	Following(ctx context.Context, userID uuid.UUID, params pkgpagination.Params) (*ListResult, error)
	Status(ctx context.Context, viewerID, userID uuid.UUID) (*FollowStatus, error)
}

type service struct {
	repo  Repository
	users userLookup
}

// NewService builds the follow-graph service.
func NewService(repo Repository, users userLookup) Service {
	return &service{repo: repo, users: users}
}

func (s *service) Follow(ctx context.Context, followerID, followeeID uuid.UUID) (*FollowStatus, error) {
	if followerID == followeeID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot follow yourself")
	}
	if err := s.requireActiveUser(ctx, followeeID); err != nil {
		return nil, err
	}

	follow := &models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := s.repo.Create(ctx, follow); err != nil {
		if db.IsUniqueViolation(err, "idx_follows_pair") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "already following this user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating follow")
	}
	return s.Status(ctx, followerID, followeeID)
}

func (s *service) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) (*FollowStatus, error) {
	removed, err := s.repo.Delete(ctx, followerID, followeeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing follow")
	}
	if !removed {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "not following this user")
	}
	return s.Status(ctx, followerID, followeeID)
}

func (s *service) Followers(ctx context.Context, userID uuid.UUID, params pkgpagination.Params) (*ListResult, error) {
	return s.list(ctx, userID, params, s.repo.Followers)
}

func (s *service) Following(ctx context.Context, userID uuid.UUID, params pkgpagination.Params) (*ListResult, error) {
	return s.list(ctx, userID, params, s.repo.Following)
}

func (s *service) list(
	ctx context.Context,
	userID uuid.UUID,
	params pkgpagination.Params,
	fetch func(context.Context, listQuery) ([]FollowRow, error),
) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		userID: userID,
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := fetch(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list follows")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit-1].CreatedAt,
			ID:        rows[limit-1].EdgeID,
		})
		rows = rows[:limit]
	}

	items := make([]FollowedUser, len(rows))
	for i, row := range rows {
		items[i] = FollowedUser{
			UserID:     row.UserID,
			FirstName:  row.FirstName,
			LastName:   row.LastName,
			FollowedAt: row.CreatedAt,
		}
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

// Status returns the viewer's relationship to a user plus that user's edge
// counts.
func (s *service) Status(ctx context.Context, viewerID, userID uuid.UUID) (*FollowStatus, error) {
	followers, following, err := s.repo.Counts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting follows")
	}

	isFollowing := false
	if viewerID != uuid.Nil && viewerID != userID {
		isFollowing, err = s.repo.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking follow")
		}
	}

	return &FollowStatus{
		UserID:         userID,
		FollowerCount:  followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
	}, nil
}

func (s *service) requireActiveUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	if !user.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}
