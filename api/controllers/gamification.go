package controllers

import (
	"net/http"

	"github.com/shopcircle/backend/api/responses"
	"github.com/shopcircle/backend/internal/gamification"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	"github.com/shopcircle/backend/pkg/logger"
)

// GamificationProfile returns the caller's points, level, and badges.
func GamificationProfile(svc gamification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gamification service unavailable"))
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		profile, err := svc.GetProfile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func GamificationLeaderboard(svc gamification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gamification service unavailable"))
			return
		}
		entries, err := svc.Leaderboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func GamificationBadges(svc gamification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gamification service unavailable"))
			return
		}
		badges, err := svc.ListBadges(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, badges)
	}
}
