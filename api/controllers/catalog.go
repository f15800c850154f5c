package controllers

import (
	"net/http"
	"strings"

	"github.com/lacewalk/lacewalk-backend/api/responses"
	"github.com/lacewalk/lacewalk-backend/api/validators"
	catalogsvc "github.com/lacewalk/lacewalk-backend/internal/catalog"
	pkgerrors "github.com/lacewalk/lacewalk-backend/pkg/errors"
	"github.com/lacewalk/lacewalk-backend/pkg/logger"
	"github.com/lacewalk/lacewalk-backend/pkg/pagination"
)

// CatalogList serves the cursor-paginated product grid.
func CatalogList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		filter := catalogsvc.ListFilter{
			Category: strings.TrimSpace(query.Get("category")),
			Brand:    strings.TrimSpace(query.Get("brand")),
			Cursor:   query.Get("cursor"),
			Limit:    limit,
		}

		page, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// CatalogDetail serves a single product with its variant matrix.
func CatalogDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}
