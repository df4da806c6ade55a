package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	pkgpagination "github.com/shopcircle/backend/pkg/pagination"
)

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, query listQuery) ([]models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool, note *string) error
	SetRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error
}

// Service exposes the admin-facing account moderation operations.
type Service interface {
	ListUsers(ctx context.Context, params ListParams) (*ListResult, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Deactivate(ctx context.Context, actorID, userID uuid.UUID, note string) (*UserDTO, error)
	Activate(ctx context.Context, actorID, userID uuid.UUID) (*UserDTO, error)
	ChangeRole(ctx context.Context, actorID, userID uuid.UUID, role enums.UserRole) (*UserDTO, error)
}

type service struct {
	repo usersRepository
}

// NewService builds the users moderation service.
func NewService(repo usersRepository) Service {
	return &service{repo: repo}
}

func (s *service) ListUsers(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		search: strings.TrimSpace(params.Search),
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
	}
	if role := strings.TrimSpace(params.Role); role != "" {
		parsed := enums.UserRole(role)
		if !parsed.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role filter")
		}
		query.role = parsed
	}
	switch strings.TrimSpace(params.Status) {
	case "":
	case "active":
		active := true
		query.active = &active
	case "suspended":
		active := false
		query.active = &active
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit-1].CreatedAt,
			ID:        rows[limit-1].ID,
		})
		rows = rows[:limit]
	}

	items := make([]UserDTO, len(rows))
	for i := range rows {
		items[i] = *FromModel(&rows[i])
	}

	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Deactivate(ctx context.Context, actorID, userID uuid.UUID, note string) (*UserDTO, error) {
	if actorID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot deactivate your own account")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "account is already deactivated")
	}

	var notePtr *string
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		notePtr = &trimmed
	}
	if err := s.repo.SetActive(ctx, userID, false, notePtr); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate user")
	}

	user.IsActive = false
	user.SuspendedNote = notePtr
	return FromModel(user), nil
}

func (s *service) Activate(ctx context.Context, actorID, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "account is already active")
	}

	if err := s.repo.SetActive(ctx, userID, true, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate user")
	}

	user.IsActive = true
	user.SuspendedNote = nil
	return FromModel(user), nil
}

func (s *service) ChangeRole(ctx context.Context, actorID, userID uuid.UUID, role enums.UserRole) (*UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if actorID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot change your own role")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return FromModel(user), nil
	}

	if err := s.repo.SetRole(ctx, userID, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "change user role")
	}

	user.Role = role
	return FromModel(user), nil
}

func (s *service) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
