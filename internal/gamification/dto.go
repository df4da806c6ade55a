package gamification

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcircle/backend/pkg/db/models"
)

// Level names, lowest to highest. A profile's level is the highest tier whose
// threshold its points meet.
var levels = []struct {
	Name      string
	Threshold int
}{
	{Name: "bronze", Threshold: 0},
	{Name: "silver", Threshold: 500},
	{Name: "gold", Threshold: 2000},
	{Name: "platinum", Threshold: 5000},
}

// LevelForPoints maps a points balance to its tier name and the points still
// needed for the next tier. nextAt is 0 at the top tier.
func LevelForPoints(points int) (name string, nextAt int) {
	name = levels[0].Name
	for i, lvl := range levels {
		if points >= lvl.Threshold {
			name = lvl.Name
			if i+1 < len(levels) {
				nextAt = levels[i+1].Threshold
			} else {
				nextAt = 0
			}
		}
	}
	return name, nextAt
}

// ProfileDTO is the public loyalty profile shape.
type ProfileDTO struct {
	UserID          uuid.UUID  `json:"user_id"`
	Points          int        `json:"points"`
	Level           string     `json:"level"`
	NextLevelPoints int        `json:"next_level_points"`
	Badges          []BadgeDTO `json:"badges"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BadgeDTO is the public badge shape.
type BadgeDTO struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IconURL     *string   `json:"icon_url,omitempty"`
}

func toBadgeDTO(b models.Badge) BadgeDTO {
	return BadgeDTO{
		ID:          b.ID,
		Code:        b.Code,
		Name:        b.Name,
		Description: b.Description,
		IconURL:     b.IconURL,
	}
}

func toBadgeDTOs(badges []models.Badge) []BadgeDTO {
	out := make([]BadgeDTO, 0, len(badges))
	for _, b := range badges {
		out = append(out, toBadgeDTO(b))
	}
	return out
}

// LeaderboardEntry is one ranked row as served to clients.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Points      int       `json:"points"`
	Level       string    `json:"level"`
}
