package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/shopcircle/backend/api/responses"
	"github.com/shopcircle/backend/api/validators"
	"github.com/shopcircle/backend/internal/social"
	"github.com/shopcircle/backend/pkg/logger"
	"github.com/shopcircle/backend/pkg/pagination"
)

func SocialFollow(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		followerID, followeeID, ok := followPair(w, r, logg)
		if !ok {
			return
		}
		status, err := svc.Follow(r.Context(), followerID, followeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

func SocialUnfollow(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		followerID, followeeID, ok := followPair(w, r, logg)
		if !ok {
			return
		}
		status, err := svc.Unfollow(r.Context(), followerID, followeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

func SocialFollowers(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return socialList(svc.Followers, logg)
}

func SocialFollowing(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return socialList(svc.Following, logg)
}

// SocialStatus reports follower counts plus whether the viewer follows the
// target user.
func SocialStatus(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		userID, err := validators.ParseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.Status(r.Context(), viewerID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

type socialListFn func(ctx context.Context, userID uuid.UUID, params pagination.Params) (*social.ListResult, error)

func socialList(fetch socialListFn, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r, logg); !ok {
			return
		}
		userID, err := validators.ParseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := fetch(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func followPair(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, uuid.UUID, bool) {
	followerID, ok := requireUser(w, r, logg)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	followeeID, err := validators.ParseUUIDParam(r, "userId")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return uuid.Nil, uuid.Nil, false
	}
	return followerID, followeeID, true
}
