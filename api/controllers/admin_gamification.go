package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shopcircle/backend/api/responses"
	"github.com/shopcircle/backend/api/validators"
	"github.com/shopcircle/backend/internal/gamification"
	"github.com/shopcircle/backend/pkg/logger"
)

type grantBadgeRequest struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	BadgeCode string    `json:"badge_code" validate:"required,max=64"`
}

type adjustPointsRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Delta  int       `json:"delta" validate:"required"`
	Reason string    `json:"reason" validate:"required,max=500"`
}

func AdminGrantBadge(svc gamification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var body grantBadgeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GrantBadge(r.Context(), actorID, body.UserID, body.BadgeCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func AdminAdjustPoints(svc gamification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body adjustPointsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.AdjustPoints(r.Context(), body.UserID, body.Delta, body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
