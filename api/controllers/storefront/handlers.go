package storefront

import (
	"net/http"

	"github.com/amezhanov/storefront-backend/api/responses"
	"github.com/amezhanov/storefront-backend/api/validators"
	"github.com/amezhanov/storefront-backend/internal/session"
	pkgerrors "github.com/amezhanov/storefront-backend/pkg/errors"
	"github.com/amezhanov/storefront-backend/pkg/logger"
)

// The handlers map the inbound storefront actions one-to-one onto
// session operations. Each resolves the per-user session from the store
// and lets the typed error taxonomy drive the HTTP status.

func withSession(store *session.Store, logg *logger.Logger, handle func(*session.Session, http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithUserID(ctx, userID)
		}

		handle(store.Session(userID), w, r.WithContext(ctx))
	}
}

// ViewProducts starts browsing at the first product.
func ViewProducts(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return withSession(store, logg, func(s *session.Session, w http.ResponseWriter, r *http.Request) {
		view, err := s.ViewProducts()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(view))
	})
}

// NextProduct advances the browsing cursor.
func NextProduct(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return withSession(store, logg, func(s *session.Session, w http.ResponseWriter, r *http.Request) {
		view, err := s.NextProduct()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(view))
	})
}

// PreviousProduct moves the browsing cursor back.
func PreviousProduct(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return withSession(store, logg, func(s *session.Session, w http.ResponseWriter, r *http.Request) {
		view, err := s.PreviousProduct()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(view))
	})
}

// AddToCart adds one unit of the given catalog index.
func AddToCart(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return withSession(store, logg, func(s *session.Session, w http.ResponseWriter, r *http.Request) {
		var payload AddToCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := s.AddToCart(payload.CatalogIndex)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addResponse{
			Name:      view.Name,
			Quantity:  view.Quantity,
			CartLines: view.CartLines,
		})
	})
}

// ViewCart resolves and returns the cart.
func ViewCart(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return withSession(store, logg, func(s *session.Session, w http.ResponseWriter, r *http.Request) {
		view, err := s.ViewCart()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(view))
	})
}

// ClearCart drops every cart entry.
func ClearCart(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return withSession(store, logg, func(s *session.Session, w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newCartResponse(s.ClearCart()))
	})
}

// Checkout finalizes the cart into an order.
func Checkout(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return withSession(store, logg, func(s *session.Session, w http.ResponseWriter, r *http.Request) {
		order, err := s.Checkout()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	})
}

// ViewOrders lists the most recent orders.
func ViewOrders(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return withSession(store, logg, func(s *session.Session, w http.ResponseWriter, r *http.Request) {
		limit, err := limitFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrdersResponse(s.ViewOrders(limit)))
	})
}
