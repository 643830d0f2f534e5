// Package kernel assembles the HTTP handler and the store the server runs
// on. It is shared by cmd/bazaar and the integration tests.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/bazaar/app/controllers"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/routes"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/payment"
	"github.com/shashiranjanraj/bazaar/pkg/reqid"
	"github.com/shashiranjanraj/bazaar/pkg/router"
	"github.com/shashiranjanraj/bazaar/pkg/ws"
)

// Deps are the runtime collaborators of the HTTP kernel.
type Deps struct {
	Store   *repositories.Store
	Gateway payment.Gateway
	Bus     *event.Bus
	Hub     *ws.Hub
	// Limiter defaults to RATE_LIMIT requests per client per minute.
	Limiter *middleware.Limiter
}

// Controllers builds the services and controllers over d.
func Controllers(d Deps) routes.Controllers {
	auth := services.NewAuthService(d.Store.Users)
	catalog := services.NewCatalogService(d.Store.Categories, d.Store.Products)
	checkout := services.NewCheckoutService(d.Gateway, d.Store.Orders, d.Bus)
	orders := services.NewOrderService(d.Store.Orders, d.Bus)

	return routes.Controllers{
		Auth:     controllers.NewAuthController(auth),
		Category: controllers.NewCategoryController(catalog),
		Product:  controllers.NewProductController(catalog),
		Payment:  controllers.NewPaymentController(checkout),
		Order:    controllers.NewOrderController(orders, d.Hub),
		Roles:    auth.Role,
	}
}

// NewRouter returns the router with the global middleware, /metrics and
// every API route mounted.
func NewRouter(d Deps) *router.Router {
	limiter := d.Limiter
	if limiter == nil {
		limiter = middleware.NewLimiter(config.RateLimit(), time.Minute)
	}

	r := router.New()

	// outermost first: metrics sees total latency, recovery wraps the rest
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(limiter.Middleware)

	r.HandleFunc("/metrics", metrics.Handler())

	routes.RegisterAPI(r, Controllers(d))
	return r
}

func Handler(d Deps) http.Handler {
	return NewRouter(d).Handler()
}
