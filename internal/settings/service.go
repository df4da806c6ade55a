package settings

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9]+(?:[._-][a-z0-9]+)*$`)

// SettingDTO is the public shape of one system setting.
type SettingDTO struct {
	Key       string     `json:"key"`
	Value     any        `json:"value"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Service exposes system settings and the admin inspection view.
type Service interface {
	Get(ctx context.Context, key string) (*SettingDTO, error)
	List(ctx context.Context) ([]SettingDTO, error)
	Set(ctx context.Context, actorID uuid.UUID, key string, value any) (*SettingDTO, error)
	Delete(ctx context.Context, key string) error
	DatabaseOverview(ctx context.Context) ([]TableCount, error)
}

type service struct {
	repo Repository
}

// NewService builds the settings service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, key string) (*SettingDTO, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	setting, err := s.repo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading setting")
	}
	return toDTO(setting), nil
}

func (s *service) List(ctx context.Context) ([]SettingDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing settings")
	}
	out := make([]SettingDTO, len(rows))
	for i := range rows {
		out[i] = *toDTO(&rows[i])
	}
	return out, nil
}

func (s *service) Set(ctx context.Context, actorID uuid.UUID, key string, value any) (*SettingDTO, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting value is required")
	}

	setting := &models.SystemSetting{Key: key, Value: value, UpdatedBy: &actorID}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving setting")
	}
	return s.Get(ctx, key)
}

func (s *service) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	removed, err := s.repo.Delete(ctx, key)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting setting")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
	}
	return nil
}

func (s *service) DatabaseOverview(ctx context.Context) ([]TableCount, error) {
	counts, err := s.repo.TableCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inspecting database")
	}
	return counts, nil
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	if !keyPattern.MatchString(key) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "setting key may only contain lowercase letters, digits, and ._- separators")
	}
	return key, nil
}

func toDTO(setting *models.SystemSetting) *SettingDTO {
	return &SettingDTO{
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedBy: setting.UpdatedBy,
		UpdatedAt: setting.UpdatedAt,
	}
}
