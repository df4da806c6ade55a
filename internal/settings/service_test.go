package settings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
)

type memSettingsRepo struct {
	values map[string]*models.SystemSetting
	counts []TableCount
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{values: map[string]*models.SystemSetting{}}
}

func (m *memSettingsRepo) Find(_ context.Context, key string) (*models.SystemSetting, error) {
	s, ok := m.values[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *memSettingsRepo) List(_ context.Context) ([]models.SystemSetting, error) {
	out := make([]models.SystemSetting, 0, len(m.values))
	for _, s := range m.values {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memSettingsRepo) Upsert(_ context.Context, setting *models.SystemSetting) error {
	setting.UpdatedAt = time.Now()
	m.values[setting.Key] = setting
	return nil
}

func (m *memSettingsRepo) Delete(_ context.Context, key string) (bool, error) {
	if _, ok := m.values[key]; !ok {
		return false, nil
	}
	delete(m.values, key)
	return true, nil
}

func (m *memSettingsRepo) TableCounts(_ context.Context) ([]TableCount, error) {
	return m.counts, nil
}

func TestSetAndGetSetting(t *testing.T) {
	repo := newMemSettingsRepo()
	svc := NewService(repo)
	actorID := uuid.New()

	dto, err := svc.Set(context.Background(), actorID, "Checkout.Maintenance_Mode", map[string]any{"enabled": true})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if dto.Key != "checkout.maintenance_mode" {
		t.Fatalf("key = %q, want normalized lowercase", dto.Key)
	}
	if dto.UpdatedBy == nil || *dto.UpdatedBy != actorID {
		t.Fatalf("updated_by = %v, want %s", dto.UpdatedBy, actorID)
	}

	got, err := svc.Get(context.Background(), "checkout.maintenance_mode")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	value, ok := got.Value.(map[string]any)
	if !ok || value["enabled"] != true {
		t.Fatalf("value = %v, want enabled map", got.Value)
	}
}

func TestSetOverwritesExistingValue(t *testing.T) {
	repo := newMemSettingsRepo()
	svc := NewService(repo)
	actorID := uuid.New()

	if _, err := svc.Set(context.Background(), actorID, "banner.text", "summer sale"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	dto, err := svc.Set(context.Background(), actorID, "banner.text", "winter sale")
	if err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}
	if dto.Value != "winter sale" {
		t.Fatalf("value = %v, want winter sale", dto.Value)
	}
}

func TestSettingKeyValidation(t *testing.T) {
	svc := NewService(newMemSettingsRepo())

	for _, key := range []string{"", "  ", "no spaces allowed", "drop;table", "users--"} {
		_, err := svc.Set(context.Background(), uuid.New(), key, "v")
		if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("Set(%q) error = %v, want validation", key, err)
		}
	}

	_, err := svc.Set(context.Background(), uuid.New(), "ok.key", nil)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("nil value error = %v, want validation", err)
	}
}

func TestDeleteSetting(t *testing.T) {
	repo := newMemSettingsRepo()
	svc := NewService(repo)

	if _, err := svc.Set(context.Background(), uuid.New(), "temp.flag", true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := svc.Delete(context.Background(), "temp.flag"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	err := svc.Delete(context.Background(), "temp.flag")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("second delete error = %v, want not found", err)
	}
	_, err = svc.Get(context.Background(), "temp.flag")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("Get after delete error = %v, want not found", err)
	}
}

func TestDatabaseOverview(t *testing.T) {
	repo := newMemSettingsRepo()
	repo.counts = []TableCount{{Table: "users", Rows: 12}, {Table: "orders", Rows: 3}}
	svc := NewService(repo)

	counts, err := svc.DatabaseOverview(context.Background())
	if err != nil {
		t.Fatalf("DatabaseOverview: %v", err)
	}
	if len(counts) != 2 || counts[0].Table != "users" || counts[0].Rows != 12 {
		t.Fatalf("counts = %+v", counts)
	}
}
