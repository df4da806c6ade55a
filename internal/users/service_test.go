package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	pkgpagination "github.com/shopcircle/backend/pkg/pagination"
)

type stubUsersRepo struct {
	users map[uuid.UUID]*models.User

	listRows  []models.User
	listErr   error
	lastQuery listQuery

	setActiveCalls int
	setRoleCalls   int
}

func (s *stubUsersRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *stubUsersRepo) List(_ context.Context, query listQuery) ([]models.User, error) {
	s.lastQuery = query
	return s.listRows, s.listErr
}

func (s *stubUsersRepo) SetActive(_ context.Context, id uuid.UUID, active bool, note *string) error {
	s.setActiveCalls++
	if u, ok := s.users[id]; ok {
		u.IsActive = active
		u.SuspendedNote = note
	}
	return nil
}

func (s *stubUsersRepo) SetRole(_ context.Context, id uuid.UUID, role enums.UserRole) error {
	s.setRoleCalls++
	if u, ok := s.users[id]; ok {
		u.Role = role
	}
	return nil
}

func newTestUser(active bool) *models.User {
	return &models.User{
		ID:        uuid.New(),
		Email:     "shopper@example.com",
		FirstName: "Sam",
		LastName:  "Shopper",
		Role:      enums.UserRoleCustomer,
		IsActive:  active,
		CreatedAt: time.Now(),
	}
}

func TestDeactivateRejectsSelf(t *testing.T) {
	u := newTestUser(true)
	svc := NewService(&stubUsersRepo{users: map[uuid.UUID]*models.User{u.ID: u}})

	_, err := svc.Deactivate(context.Background(), u.ID, u.ID, "spam")
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeactivateAlreadyInactive(t *testing.T) {
	u := newTestUser(false)
	svc := NewService(&stubUsersRepo{users: map[uuid.UUID]*models.User{u.ID: u}})

	_, err := svc.Deactivate(context.Background(), uuid.New(), u.ID, "")
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDeactivateRecordsNote(t *testing.T) {
	u := newTestUser(true)
	repo := &stubUsersRepo{users: map[uuid.UUID]*models.User{u.ID: u}}
	svc := NewService(repo)

	dto, err := svc.Deactivate(context.Background(), uuid.New(), u.ID, "  abusive reviews  ")
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if dto.IsActive {
		t.Fatalf("expected inactive user")
	}
	if dto.SuspendedNote == nil || *dto.SuspendedNote != "abusive reviews" {
		t.Fatalf("expected trimmed note, got %v", dto.SuspendedNote)
	}
	if repo.setActiveCalls != 1 {
		t.Fatalf("expected one SetActive call, got %d", repo.setActiveCalls)
	}
}

func TestActivateNotFound(t *testing.T) {
	svc := NewService(&stubUsersRepo{users: map[uuid.UUID]*models.User{}})

	_, err := svc.Activate(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestChangeRoleNoopWhenUnchanged(t *testing.T) {
	u := newTestUser(true)
	repo := &stubUsersRepo{users: map[uuid.UUID]*models.User{u.ID: u}}
	svc := NewService(repo)

	dto, err := svc.ChangeRole(context.Background(), uuid.New(), u.ID, enums.UserRoleCustomer)
	if err != nil {
		t.Fatalf("change role: %v", err)
	}
	if dto.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected role %s", dto.Role)
	}
	if repo.setRoleCalls != 0 {
		t.Fatalf("expected no SetRole call, got %d", repo.setRoleCalls)
	}
}

func TestChangeRoleInvalid(t *testing.T) {
	svc := NewService(&stubUsersRepo{})

	_, err := svc.ChangeRole(context.Background(), uuid.New(), uuid.New(), enums.UserRole("root"))
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListUsersFilters(t *testing.T) {
	repo := &stubUsersRepo{}
	svc := NewService(repo)

	if _, err := svc.ListUsers(context.Background(), ListParams{Role: "admin", Status: "suspended"}); err != nil {
		t.Fatalf("list users: %v", err)
	}
	if repo.lastQuery.role != enums.UserRoleAdmin {
		t.Fatalf("expected role filter admin, got %q", repo.lastQuery.role)
	}
	if repo.lastQuery.active == nil || *repo.lastQuery.active {
		t.Fatalf("expected suspended to filter active=false, got %v", repo.lastQuery.active)
	}

	if _, err := svc.ListUsers(context.Background(), ListParams{Role: "root"}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad role, got %v", err)
	}
	if _, err := svc.ListUsers(context.Background(), ListParams{Status: "banned"}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad status, got %v", err)
	}
}

func TestListUsersPaginates(t *testing.T) {
	rows := make([]models.User, 0, 21)
	base := time.Now()
	for i := 0; i < 21; i++ {
		rows = append(rows, models.User{
			ID:        uuid.New(),
			Email:     "u@example.com",
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}
	svc := NewService(&stubUsersRepo{listRows: rows})

	res, err := svc.ListUsers(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(res.Items) != 20 {
		t.Fatalf("expected 20 items, got %d", len(res.Items))
	}
	if res.Cursor == "" {
		t.Fatalf("expected next cursor")
	}
}

func TestListUsersInvalidCursor(t *testing.T) {
	svc := NewService(&stubUsersRepo{})

	_, err := svc.ListUsers(context.Background(), ListParams{Params: pkgpagination.Params{Cursor: "not-base64!"}})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
