package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lacewalk/lacewalk-backend/api/middleware"
	"github.com/lacewalk/lacewalk-backend/api/responses"
	"github.com/lacewalk/lacewalk-backend/api/validators"
	wishsvc "github.com/lacewalk/lacewalk-backend/internal/wishlist"
	pkgerrors "github.com/lacewalk/lacewalk-backend/pkg/errors"
	"github.com/lacewalk/lacewalk-backend/pkg/logger"
	"github.com/lacewalk/lacewalk-backend/pkg/pagination"
)

type likeRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
}

// WishlistGet lists the owner's wishlist, newest first.
func WishlistGet(svc wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.GetWishlist(r.Context(), middleware.OwnerFromContext(r.Context()), r.URL.Query().Get("cursor"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// WishlistLike records a like for a product, optionally pinned to a variant.
// Repeat likes are idempotent.
func WishlistLike(svc wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		var body likeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Like(r.Context(), middleware.OwnerFromContext(r.Context()), body.ProductID, body.VariantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "liked"})
	}
}

// WishlistUnlike removes a like. Removing an absent like is a success.
func WishlistUnlike(svc wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		var body likeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Unlike(r.Context(), middleware.OwnerFromContext(r.Context()), body.ProductID, body.VariantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "unliked"})
	}
}
