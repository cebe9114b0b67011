package controllers

import (
	"net/http"

	"github.com/amezhanov/storefront-backend/api/responses"
	"github.com/amezhanov/storefront-backend/internal/catalog"
	pkgerrors "github.com/amezhanov/storefront-backend/pkg/errors"
	"github.com/amezhanov/storefront-backend/pkg/logger"
)

type catalogRefreshResponse struct {
	Size         int    `json:"size"`
	GenerationID string `json:"generation_id"`
	SourceFailed bool   `json:"source_failed"`
}

type catalogProductResponse struct {
	CatalogIndex int    `json:"catalog_index"`
	ExternalID   string `json:"external_id,omitempty"`
	SKU          string `json:"sku,omitempty"`
	Name         string `json:"name"`
	UnitPrice    int64  `json:"unit_price"`
	AvailableQty int    `json:"available_qty"`
}

type catalogListResponse struct {
	GenerationID string                   `json:"generation_id"`
	Products     []catalogProductResponse `json:"products"`
}

// CatalogRefresh triggers a best-effort catalog reload from the
// marketplace. Source failures come back as a degraded result, not an
// error.
func CatalogRefresh(refresher *catalog.Refresher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if refresher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "refresher unavailable"))
			return
		}

		result := refresher.Refresh(r.Context())
		responses.WriteSuccess(w, catalogRefreshResponse{
			Size:         result.Size,
			GenerationID: result.GenerationID.String(),
			SourceFailed: result.SourceFailed,
		})
	}
}

// CatalogList exposes the current generation for debugging and for
// transports that want the whole listing at once.
func CatalogList(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		snap := cat.Snapshot()
		resp := catalogListResponse{
			GenerationID: snap.GenerationID.String(),
			Products:     make([]catalogProductResponse, 0, snap.Size()),
		}
		for _, p := range snap.List() {
			resp.Products = append(resp.Products, catalogProductResponse{
				CatalogIndex: p.CatalogIndex,
				ExternalID:   p.ExternalID,
				SKU:          p.SKU,
				Name:         p.DisplayName,
				UnitPrice:    p.UnitPrice,
				AvailableQty: p.AvailableQty,
			})
		}
		responses.WriteSuccess(w, resp)
	}
}
