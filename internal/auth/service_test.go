package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/auth/session"
	"github.com/shopcircle/backend/pkg/config"
	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	"github.com/shopcircle/backend/pkg/security"
)

var testJWTCfg = config.JWTConfig{
	Secret:                 "test-secret",
	Issuer:                 "shopcircle-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 60,
}

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8 * 1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

type stubSessionManager struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	newID := session.NewAccessID()
	return newID, "refresh-" + newID, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

type stubAudit struct {
	created []models.SessionLog
	closed  []string
}

func (s *stubAudit) Create(_ context.Context, log *models.SessionLog) error {
	s.created = append(s.created, *log)
	return nil
}

func (s *stubAudit) Close(_ context.Context, sessionID string, _ time.Time) error {
	s.closed = append(s.closed, sessionID)
	return nil
}

func seedCredentialedUser(t *testing.T, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Sam",
		LastName:     "Shopper",
		Role:         enums.UserRoleCustomer,
		IsActive:     active,
	}
}

func newAuthService(t *testing.T, repo userRepository, mgr sessionManager, audit sessionAudit) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: mgr,
		SessionAudit:   audit,
		JWTConfig:      testJWTCfg,
	})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc
}

func TestLoginIssuesTokensAndAuditRow(t *testing.T) {
	user := seedCredentialedUser(t, "sam@example.com", "hunter2hunter2", true)
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	mgr := &stubSessionManager{}
	audit := &stubAudit{}
	svc := newAuthService(t, repo, mgr, audit)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Sam@Example.com ", Password: "hunter2hunter2"}, ClientMeta{IP: "10.0.0.1", UserAgent: "test-agent"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected token pair")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("expected user in response")
	}
	if len(mgr.generated) != 1 {
		t.Fatalf("expected one session generated, got %d", len(mgr.generated))
	}
	if len(audit.created) != 1 {
		t.Fatalf("expected one audit row, got %d", len(audit.created))
	}
	row := audit.created[0]
	if row.IP == nil || *row.IP != "10.0.0.1" {
		t.Fatalf("expected client IP on audit row")
	}
	if row.SessionID != mgr.generated[0] {
		t.Fatalf("audit session id must match the minted jti")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := seedCredentialedUser(t, "sam@example.com", "hunter2hunter2", true)
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newAuthService(t, repo, &stubSessionManager{}, &stubAudit{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"}, ClientMeta{})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	user := seedCredentialedUser(t, "sam@example.com", "hunter2hunter2", false)
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newAuthService(t, repo, &stubSessionManager{}, &stubAudit{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "hunter2hunter2"}, ClientMeta{})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	svc := newAuthService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, &stubSessionManager{}, &stubAudit{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"}, ClientMeta{})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Message() != invalidCredentialsMessage {
		t.Fatalf("unknown email must not be distinguishable: %v", err)
	}
}

func TestLogoutRevokesAndCloses(t *testing.T) {
	mgr := &stubSessionManager{}
	audit := &stubAudit{}
	svc := newAuthService(t, &stubUserRepo{}, mgr, audit)

	if err := svc.Logout(context.Background(), "jti-123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(mgr.revoked) != 1 || mgr.revoked[0] != "jti-123" {
		t.Fatalf("expected session revoked")
	}
	if len(audit.closed) != 1 || audit.closed[0] != "jti-123" {
		t.Fatalf("expected audit row closed")
	}
}

func TestRefreshInvalidToken(t *testing.T) {
	mgr := &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := newAuthService(t, &stubUserRepo{}, mgr, &stubAudit{})

	_, err := svc.Refresh(context.Background(), RefreshRequest{AccessToken: "garbage", RefreshToken: "nope"}, ClientMeta{})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
