package address

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	"github.com/shopcircle/backend/pkg/types"
)

// DTO is the transport shape of a saved address.
type DTO struct {
	ID        uuid.UUID             `json:"id"`
	Snapshot  types.AddressSnapshot `json:"address"`
	Label     *string               `json:"label,omitempty"`
	Type      enums.AddressType     `json:"type"`
	IsDefault bool                  `json:"is_default"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func toDTO(m *models.Address) DTO {
	line2 := ""
	if m.Line2 != nil {
		line2 = *m.Line2
	}
	return DTO{
		ID: m.ID,
		Snapshot: types.AddressSnapshot{
			Name:       m.Name,
			Phone:      m.Phone,
			Line1:      m.Line1,
			Line2:      line2,
			City:       m.City,
			State:      m.State,
			PostalCode: m.PostalCode,
			Country:    m.Country,
		},
		Label:     m.Label,
		Type:      m.Type,
		IsDefault: m.IsDefault,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromInput(userID uuid.UUID, in Input) *models.Address {
	var line2 *string
	if in.Snapshot.Line2 != "" {
		l := in.Snapshot.Line2
		line2 = &l
	}
	return &models.Address{
		UserID:     userID,
		Name:       in.Snapshot.Name,
		Phone:      in.Snapshot.Phone,
		Line1:      in.Snapshot.Line1,
		Line2:      line2,
		City:       in.Snapshot.City,
		State:      in.Snapshot.State,
		PostalCode: in.Snapshot.PostalCode,
		Country:    in.Snapshot.Country,
		Label:      in.Label,
		IsDefault:  in.IsDefault,
		Type:       in.Type,
	}
}
