package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	"github.com/shopcircle/backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the shopper address book.
type Service interface {
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]DTO, error)
	CreateAddress(ctx context.Context, userID uuid.UUID, input Input) (*DTO, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input Input) (*DTO, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*DTO, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the address service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Input is the payload for creating or replacing an address.
type Input struct {
	Snapshot  types.AddressSnapshot
	Label     *string
	Type      enums.AddressType
	IsDefault bool
}

func (in *Input) normalize() error {
	if in.Type == "" {
		in.Type = enums.AddressTypeShipping
	}
	if !in.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid address type")
	}
	if missing := in.Snapshot.RequiredFieldsMissing(); len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is incomplete").
			WithDetails(map[string]any{"missing": missing})
	}
	if strings.TrimSpace(in.Snapshot.Country) == "" {
		in.Snapshot.Country = "US"
	}
	return nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]DTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}

	out := make([]DTO, len(rows))
	for i := range rows {
		out[i] = toDTO(&rows[i])
	}
	return out, nil
}

func (s *service) CreateAddress(ctx context.Context, userID uuid.UUID, input Input) (*DTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if err := input.normalize(); err != nil {
		return nil, err
	}

	model := fromInput(userID, input)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefaults(ctx, userID, input.Type); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear defaults")
			}
		}
		_, err := repo.Create(ctx, model)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toDTO(model)
	return &dto, nil
}

func (s *service) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input Input) (*DTO, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	updated := fromInput(userID, input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefaults(ctx, userID, input.Type); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear defaults")
			}
		}
		if err := repo.Update(ctx, updated); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toDTO(updated)
	return &dto, nil
}

func (s *service) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	existing, err := s.find(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

// SetDefault promotes one address to the default for its type, demoting any
// other address whose type overlaps, in one transaction.
func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*DTO, error) {
	existing, err := s.find(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ClearDefaults(ctx, userID, existing.Type); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear defaults")
		}
		existing.IsDefault = true
		if err := repo.Update(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toDTO(existing)
	return &dto, nil
}

func (s *service) find(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}

	addr, err := s.repo.FindByIDForUser(ctx, addressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return addr, nil
}
