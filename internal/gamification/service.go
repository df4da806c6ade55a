package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/config"
	"github.com/shopcircle/backend/pkg/db"
	"github.com/shopcircle/backend/pkg/db/models"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
)

const leaderboardCacheKey = "leaderboard"

// leaderboardCache is the slice of the redis client the leaderboard needs.
type leaderboardCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service exposes the loyalty program: points, levels, badges, and the
// leaderboard. AwardOrderPoints participates in the checkout transaction.
type Service interface {
	AwardOrderPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, totalCents int) (int, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	ListBadges(ctx context.Context) ([]BadgeDTO, error)
	GrantBadge(ctx context.Context, actorID, userID uuid.UUID, badgeCode string) (*ProfileDTO, error)
	AdjustPoints(ctx context.Context, userID uuid.UUID, delta int, reason string) (*ProfileDTO, error)
}

type service struct {
	repo  Repository
	cache leaderboardCache
	cfg   config.GamificationConfig
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo   Repository
	Cache  leaderboardCache
	Config config.GamificationConfig
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("gamification repository is required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("leaderboard cache is required")
	}
	if params.Config.LeaderboardSize <= 0 {
		return nil, fmt.Errorf("leaderboard size must be positive")
	}
	return &service{repo: params.Repo, cache: params.Cache, cfg: params.Config}, nil
}

// AwardOrderPoints credits one point per whole dollar of the order total. It
// runs inside the caller's transaction so an order and its points commit
// together.
func (s *service) AwardOrderPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, totalCents int) (int, error) {
	points := totalCents / 100
	if points <= 0 {
		return 0, nil
	}

	repo := s.repo.WithTx(tx)
	if _, err := repo.EnsureProfile(ctx, userID); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensuring loyalty profile")
	}
	if err := repo.AddPoints(ctx, userID, points); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "awarding order points")
	}
	return points, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading loyalty profile")
	}
	badges, err := s.repo.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user badges")
	}

	level, nextAt := LevelForPoints(profile.Points)
	return &ProfileDTO{
		UserID:          profile.UserID,
		Points:          profile.Points,
		Level:           level,
		NextLevelPoints: nextAt,
		Badges:          toBadgeDTOs(badges),
		UpdatedAt:       profile.UpdatedAt,
	}, nil
}

// Leaderboard returns the top profiles by points. Results are cached briefly;
// cache failures fall through to the database.
func (s *service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	key := s.cache.CacheKey(leaderboardCacheKey)
	if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
		var cached []LeaderboardEntry
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	}

	rows, err := s.repo.TopProfiles(ctx, s.cfg.LeaderboardSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading leaderboard")
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		level, _ := LevelForPoints(row.Points)
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      row.UserID,
			DisplayName: displayName(row.FirstName, row.LastName),
			Points:      row.Points,
			Level:       level,
		})
	}

	if encoded, err := json.Marshal(entries); err == nil {
		_ = s.cache.Set(ctx, key, string(encoded), s.cfg.LeaderboardCacheTTL)
	}
	return entries, nil
}

func (s *service) ListBadges(ctx context.Context) ([]BadgeDTO, error) {
	badges, err := s.repo.ListBadges(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing badges")
	}
	return toBadgeDTOs(badges), nil
}

func (s *service) GrantBadge(ctx context.Context, actorID, userID uuid.UUID, badgeCode string) (*ProfileDTO, error) {
	code := strings.TrimSpace(strings.ToLower(badgeCode))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "badge code is required")
	}

	badge, err := s.repo.FindBadgeByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "badge not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading badge")
	}

	if _, err := s.repo.EnsureProfile(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensuring loyalty profile")
	}

	grant := &models.UserBadge{UserID: userID, BadgeID: badge.ID, GrantedBy: &actorID}
	if err := s.repo.GrantBadge(ctx, grant); err != nil {
		if db.IsUniqueViolation(err, "idx_user_badges_pair") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "badge already granted")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "granting badge")
	}
	return s.GetProfile(ctx, userID)
}

// AdjustPoints applies an admin correction. Balances never drop below zero.
func (s *service) AdjustPoints(ctx context.Context, userID uuid.UUID, delta int, reason string) (*ProfileDTO, error) {
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points delta must be non-zero")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment reason is required")
	}

	if _, err := s.repo.EnsureProfile(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensuring loyalty profile")
	}
	if err := s.repo.AddPoints(ctx, userID, delta); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adjusting points")
	}
	return s.GetProfile(ctx, userID)
}

func displayName(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if last == "" {
		return first
	}
	if first == "" {
		return last
	}
	return first + " " + strings.ToUpper(last[:1]) + "."
}
