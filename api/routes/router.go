package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/categories"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/settings"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	cartStore cart.Store,
	productService products.Service,
	categoryService categories.Service,
	settingsService settings.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.RateLimit.CheckoutWindow,
		cfg.RateLimit.CheckoutIPLimit,
		cfg.RateLimit.CheckoutEmailLimit,
	)
	// Idempotency is attached per route so the full route pattern is known.
	idempotent := middleware.Idempotency(redisClient, cfg.Checkout.IdempotencyTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartStore, settingsService, logg))
			r.Delete("/", controllers.CartClear(cartStore, settingsService, logg))
			r.With(idempotent).Post("/items", controllers.CartAddItem(cartStore, productService, settingsService, logg))
			r.Put("/items/{productId}", controllers.CartSetItem(cartStore, settingsService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartStore, settingsService, logg))
		})

		r.With(idempotent, middleware.RateLimit(checkoutPolicy, redisClient, logg)).
			Post("/checkout", controllers.CheckoutCreate(checkoutService, logg))
		r.Get("/orders/{orderNumber}", controllers.OrderConfirmation(ordersService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.ActorRoleAdmin))

		r.Get("/dashboard", controllers.AdminDashboard(ordersService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(ordersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(ordersService, logg))
			r.Patch("/{orderId}", controllers.AdminOrderUpdate(ordersService, logg))
			r.Delete("/{orderId}", controllers.AdminOrderDelete(ordersService, logg))
		})

		r.Delete("/products/{productId}", controllers.AdminProductDelete(productService, logg))
		r.Delete("/categories/{categoryId}", controllers.AdminCategoryDelete(categoryService, logg))

		r.Get("/settings/delivery", controllers.AdminDeliveryGet(settingsService, logg))
		r.Put("/settings/delivery", controllers.AdminDeliveryUpdate(settingsService, logg))
	})

	return r
}
