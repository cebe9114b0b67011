package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amezhanov/storefront-backend/api/controllers"
	storefrontcontrollers "github.com/amezhanov/storefront-backend/api/controllers/storefront"
	"github.com/amezhanov/storefront-backend/api/middleware"
	"github.com/amezhanov/storefront-backend/internal/catalog"
	"github.com/amezhanov/storefront-backend/internal/session"
	"github.com/amezhanov/storefront-backend/pkg/config"
	"github.com/amezhanov/storefront-backend/pkg/logger"
	"github.com/amezhanov/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessions *session.Store,
	cat *catalog.Catalog,
	refresher *catalog.Refresher,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
	})

	if promRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	refreshPolicy := middleware.NewRefreshRateLimitPolicy(
		cfg.RefreshLimit.Window,
		cfg.RefreshLimit.IPLimit,
	)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogList(cat, logg))
			if redisClient != nil {
				r.With(middleware.RefreshRateLimit(refreshPolicy, redisClient, logg)).
					Post("/refresh", controllers.CatalogRefresh(refresher, logg))
			} else {
				r.Post("/refresh", controllers.CatalogRefresh(refresher, logg))
			}
		})

		r.Route("/users/{userID}/storefront", func(r chi.Router) {
			r.Post("/products", storefrontcontrollers.ViewProducts(sessions, logg))
			r.Post("/products/next", storefrontcontrollers.NextProduct(sessions, logg))
			r.Post("/products/previous", storefrontcontrollers.PreviousProduct(sessions, logg))
			r.Post("/cart/items", storefrontcontrollers.AddToCart(sessions, logg))
			r.Get("/cart", storefrontcontrollers.ViewCart(sessions, logg))
			r.Post("/cart/clear", storefrontcontrollers.ClearCart(sessions, logg))
			r.Post("/cart/checkout", storefrontcontrollers.Checkout(sessions, logg))
			r.Get("/orders", storefrontcontrollers.ViewOrders(sessions, logg))
		})
	})

	return r
}
