package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slicehaven/storefront-backend/api/controllers"
	storefrontcontrollers "github.com/slicehaven/storefront-backend/api/controllers/storefront"
	"github.com/slicehaven/storefront-backend/api/middleware"
	"github.com/slicehaven/storefront-backend/internal/assets"
	cartsvc "github.com/slicehaven/storefront-backend/internal/cart"
	"github.com/slicehaven/storefront-backend/internal/catalog"
	ordersvc "github.com/slicehaven/storefront-backend/internal/orders"
	"github.com/slicehaven/storefront-backend/pkg/config"
	"github.com/slicehaven/storefront-backend/pkg/db"
	"github.com/slicehaven/storefront-backend/pkg/logger"
	"github.com/slicehaven/storefront-backend/pkg/metrics"
	"github.com/slicehaven/storefront-backend/pkg/security"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           db.Pinger
	Catalog         catalog.Repository
	CartService     cartsvc.Service
	OrderService    ordersvc.Service
	NonceIssuer     *security.NonceIssuer
	AssetResolver   *assets.Resolver
	CheckoutMetrics *metrics.CheckoutMetrics
	Gatherer        prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
		middleware.SessionContext(deps.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/storefront", func(r chi.Router) {
		r.Get("/menu", storefrontcontrollers.Menu(
			deps.Catalog, deps.NonceIssuer, deps.AssetResolver, deps.Config, deps.CheckoutMetrics, deps.Logger))
		r.Post("/cart", storefrontcontrollers.SubmitCart(
			deps.CartService, deps.NonceIssuer, deps.CheckoutMetrics, deps.Logger))
		r.Get("/quote", storefrontcontrollers.Quote(
			deps.CartService, deps.CheckoutMetrics, deps.Logger))
		r.Post("/checkout", storefrontcontrollers.Checkout(
			deps.OrderService, deps.NonceIssuer, deps.CheckoutMetrics, deps.Logger))
	})

	return r
}
