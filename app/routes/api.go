package routes

import (
	"github.com/shashiranjanraj/bazaar/app/controllers"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/rbac"
	"github.com/shashiranjanraj/bazaar/pkg/router"
)

// Controllers are the handlers mounted by RegisterAPI. Zero values are
// fine for listing routes.
type Controllers struct {
	Auth     *controllers.AuthController
	Category *controllers.CategoryController
	Product  *controllers.ProductController
	Payment  *controllers.PaymentController
	Order    *controllers.OrderController

	// Roles resolves a user's role for the admin guard.
	Roles rbac.RoleLookup
}

func RegisterAPI(r *router.Router, c Controllers) {
	signedIn := middleware.RequireSignIn
	admin := rbac.IsAdmin(c.Roles)

	api := r.Group("/api/v1")

	a := api.Group("/auth")
	a.Post("/register", "auth.register", ctx.Wrap(c.Auth.Register))
	a.Post("/login", "auth.login", ctx.Wrap(c.Auth.Login))
	a.Post("/forgot-password", "auth.forgot-password", ctx.Wrap(c.Auth.ForgotPassword))
	a.Get("/user-auth", "auth.user", ctx.Wrap(c.Auth.Ping), signedIn)
	a.Get("/admin-auth", "auth.admin", ctx.Wrap(c.Auth.Ping), signedIn, admin)
	a.Put("/profile", "auth.profile", ctx.Wrap(c.Auth.UpdateProfile), signedIn)
	a.Get("/users", "auth.users", ctx.Wrap(c.Auth.Users), signedIn, admin)
	a.Get("/orders", "orders.mine", ctx.Wrap(c.Order.Mine), signedIn)
	a.Get("/orders/live", "orders.live", c.Order.Live)
	a.Get("/all-orders", "orders.all", ctx.Wrap(c.Order.All), signedIn, admin)
	a.Put("/order-status/{orderId}", "orders.status", ctx.Wrap(c.Order.UpdateStatus), signedIn, admin)

	cat := api.Group("/category")
	cat.Get("/get-category", "category.list", ctx.Wrap(c.Category.List))
	cat.Get("/single-category/{slug}", "category.show", ctx.Wrap(c.Category.Show))
	cat.Post("/create-category", "category.create", ctx.Wrap(c.Category.Create), signedIn, admin)
	cat.Put("/update-category/{id}", "category.update", ctx.Wrap(c.Category.Update), signedIn, admin)
	cat.Delete("/delete-category/{id}", "category.delete", ctx.Wrap(c.Category.Delete), signedIn, admin)

	p := api.Group("/product")
	p.Get("/get-product", "product.list", ctx.Wrap(c.Product.List))
	p.Get("/get-product/{slug}", "product.show", ctx.Wrap(c.Product.Show))
	p.Get("/product-photo/{pid}", "product.photo", ctx.Wrap(c.Product.Photo))
	p.Post("/product-filters", "product.filters", ctx.Wrap(c.Product.Filter))
	p.Get("/product-count", "product.count", ctx.Wrap(c.Product.Count))
	p.Get("/product-list/{page}", "product.page", ctx.Wrap(c.Product.Page))
	p.Get("/search/{keyword}", "product.search", ctx.Wrap(c.Product.Search))
	p.Get("/related-product/{pid}/{cid}", "product.related", ctx.Wrap(c.Product.Related))
	p.Get("/product-category/{slug}", "product.by-category", ctx.Wrap(c.Product.ByCategory))
	p.Post("/create-product", "product.create", ctx.Wrap(c.Product.Create), signedIn, admin)
	p.Put("/update-product/{pid}", "product.update", ctx.Wrap(c.Product.Update), signedIn, admin)
	p.Delete("/delete-product/{pid}", "product.delete", ctx.Wrap(c.Product.Delete), signedIn, admin)

	p.Get("/braintree/token", "payment.token", ctx.Wrap(c.Payment.Token))
	p.Post("/braintree/payment", "payment.pay", ctx.Wrap(c.Payment.Pay), signedIn)
}
