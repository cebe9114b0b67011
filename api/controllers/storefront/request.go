package storefront

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/amezhanov/storefront-backend/pkg/errors"
)

// AddToCartRequest carries the catalog index to add one unit of.
type AddToCartRequest struct {
	CatalogIndex int `json:"catalog_index" validate:"required,gt=0"`
}

func userIDFromRequest(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id").
			WithDetails(map[string]any{"user_id": raw})
	}
	return userID, nil
}

func limitFromQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid limit").
			WithDetails(map[string]any{"limit": raw})
	}
	return limit, nil
}
