package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sparklegiftshop/gateway/api/controllers"
	"github.com/sparklegiftshop/gateway/api/middleware"
	"github.com/sparklegiftshop/gateway/internal/backend"
	"github.com/sparklegiftshop/gateway/internal/checkout"
	"github.com/sparklegiftshop/gateway/internal/dashboard"
	"github.com/sparklegiftshop/gateway/internal/localstore"
	"github.com/sparklegiftshop/gateway/internal/pricing"
	"github.com/sparklegiftshop/gateway/internal/session"
	"github.com/sparklegiftshop/gateway/pkg/config"
	"github.com/sparklegiftshop/gateway/pkg/logger"
)

// Deps collects everything the view layer is wired with.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Backend     *backend.Client
	Store       *localstore.Store
	Sessions    *session.Manager
	CartState   *controllers.CartState
	Checkout    *checkout.Service
	Board       *dashboard.Board
	Toggler     *dashboard.Toggler
	MetricsPage http.Handler
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger
	policy := pricing.PolicyFromConfig(cfg.Delivery)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	metricsPage := d.MetricsPage
	if metricsPage == nil {
		metricsPage = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsPage)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(d.Backend, logg))
			r.Get("/{productId}", controllers.GetProduct(d.Backend, logg))
		})
		r.Get("/settings", controllers.GetSettings(d.Backend, d.Store, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(d.CartState, policy, logg))
			r.Post("/items", controllers.AddCartItem(d.CartState, d.Backend, policy, logg))
			r.Patch("/items/{productId}", controllers.SetCartItemQuantity(d.CartState, policy, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(d.CartState, policy, logg))
			r.Post("/coupon", controllers.ApplyCoupon(d.CartState, d.Backend, policy, logg))
			r.Delete("/coupon", controllers.RemoveCoupon(d.CartState, policy, logg))
		})

		r.Post("/checkout", controllers.Checkout(d.Checkout, d.CartState, d.Backend, logg))
		r.Post("/orders/{invoiceId}/payment-screenshot", controllers.UploadPaymentScreenshot(d.Backend, logg))

		r.Route("/track", func(r chi.Router) {
			r.Post("/", controllers.TrackOrder(d.Backend, d.Sessions, logg))
			r.Get("/", controllers.ListTrackedOrders(d.Backend, d.Sessions, logg))
			r.Get("/{invoiceId}", controllers.GetTrackedOrder(d.Backend, d.Sessions, logg))
			r.Get("/{invoiceId}/live", controllers.LiveTracking(d.Backend, d.Sessions, cfg.Backend.PushURL(), logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.Login(d.Backend, d.Sessions, logg))
			r.Post("/signup", controllers.Signup(d.Backend, d.Sessions, logg))
			r.Post("/logout", controllers.Logout(d.Sessions, logg))
			r.Get("/me", controllers.Me(d.Sessions, logg))
			r.Post("/forgot-password", controllers.ForgotPassword(d.Backend, logg))
			r.Post("/reset-password", controllers.ResetPassword(d.Backend, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.RequireSession(d.Sessions, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(d.Backend, logg))
			r.Post("/", controllers.AdminCreateProduct(d.Backend, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(d.Backend, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(d.Backend, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(d.Board, logg))
			r.Get("/{invoiceId}", controllers.AdminGetOrder(d.Backend, logg))
			r.Patch("/{invoiceId}/status", controllers.AdminToggleOrderFlag(d.Toggler, d.Board, logg))
			r.Post("/{invoiceId}/tracking-events", controllers.AdminAddTrackingEvent(d.Backend, d.Board, logg))
			r.Put("/{invoiceId}/courier", controllers.AdminSetCourier(d.Backend, d.Board, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminListCoupons(d.Backend, logg))
			r.Post("/", controllers.AdminCreateCoupon(d.Backend, logg))
			r.Delete("/{couponId}", controllers.AdminDeleteCoupon(d.Backend, logg))
		})

		r.Get("/reports", controllers.AdminReports(d.Board, logg))

		r.Put("/settings", controllers.AdminUpdateSettings(d.Backend, d.Store, logg))

		r.Route("/team", func(r chi.Router) {
			r.Use(middleware.RequireSuperAdmin(d.Sessions, logg))
			r.Get("/", controllers.AdminListTeam(d.Backend, logg))
			r.Post("/", controllers.AdminCreateTeamMember(d.Backend, logg))
			r.Delete("/{adminId}", controllers.AdminDeleteTeamMember(d.Backend, logg))
		})

		r.Route("/tab", func(r chi.Router) {
			r.Get("/", controllers.AdminGetLastTab(d.Sessions, logg))
			r.Put("/", controllers.AdminSetLastTab(d.Sessions, logg))
		})
	})

	return r
}
