package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopcircle/backend/api/controllers"
	"github.com/shopcircle/backend/api/middleware"
	"github.com/shopcircle/backend/internal/address"
	"github.com/shopcircle/backend/internal/auth"
	"github.com/shopcircle/backend/internal/cart"
	checkoutsvc "github.com/shopcircle/backend/internal/checkout"
	"github.com/shopcircle/backend/internal/gamification"
	"github.com/shopcircle/backend/internal/orders"
	product "github.com/shopcircle/backend/internal/products"
	"github.com/shopcircle/backend/internal/settings"
	"github.com/shopcircle/backend/internal/social"
	"github.com/shopcircle/backend/internal/users"
	"github.com/shopcircle/backend/pkg/auth/session"
	"github.com/shopcircle/backend/pkg/config"
	"github.com/shopcircle/backend/pkg/db"
	"github.com/shopcircle/backend/pkg/logger"
	"github.com/shopcircle/backend/pkg/metrics"
	"github.com/shopcircle/backend/pkg/redis"
)

// RedisStore is the redis surface the router's middleware consumes.
// *redis.Client satisfies it.
type RedisStore interface {
	redis.IdempotencyStore
	Ping(ctx context.Context) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// Deps carries everything the router needs wired in. cmd/api builds it once
// at startup.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      db.Pinger
	Redis   RedisStore
	Session session.AccessSessionChecker

	AuthService     auth.Service
	RegisterService auth.RegisterService
	ProductService  product.Service
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrderService    orders.Service
	AddressService  address.Service
	GamificationSvc gamification.Service
	SocialService   social.Service
	SettingsService settings.Service
	UsersService    users.Service

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(d.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, d.Redis, logg),
			middleware.Idempotency(d.Redis, cfg.Checkout, logg),
		).Post("/register", controllers.AuthRegister(d.RegisterService, d.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(d.AuthService, cfg.JWT, logg))
	})

	// Catalog reads need no credentials.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(d.ProductService, logg))
		r.Get("/{productId}", controllers.ProductDetail(d.ProductService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Session, logg))
		r.Use(middleware.Idempotency(d.Redis, cfg.Checkout, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(d.CartService, logg))
			r.Delete("/", controllers.CartClear(d.CartService, logg))
			r.Post("/items", controllers.CartAddItem(d.CartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(d.CartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(d.CartService, logg))
			r.Post("/validate", controllers.CartValidate(d.CartService, logg))
		})

		r.Post("/checkout/quote", controllers.CheckoutQuote(d.CheckoutService, logg))
		r.Post("/checkout", controllers.CheckoutSubmit(d.CheckoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(d.OrderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(d.OrderService, logg))
			r.Get("/{orderId}/tracking", controllers.OrderTrack(d.OrderService, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(d.OrderService, logg))
			r.Post("/{orderId}/reorder", controllers.OrderReorder(d.OrderService, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(d.AddressService, logg))
			r.Post("/", controllers.AddressCreate(d.AddressService, logg))
			r.Patch("/{addressId}", controllers.AddressUpdate(d.AddressService, logg))
			r.Delete("/{addressId}", controllers.AddressDelete(d.AddressService, logg))
			r.Post("/{addressId}/default", controllers.AddressSetDefault(d.AddressService, logg))
		})

		r.Route("/gamification", func(r chi.Router) {
			r.Get("/profile", controllers.GamificationProfile(d.GamificationSvc, logg))
			r.Get("/leaderboard", controllers.GamificationLeaderboard(d.GamificationSvc, logg))
			r.Get("/badges", controllers.GamificationBadges(d.GamificationSvc, logg))
		})

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Post("/follow", controllers.SocialFollow(d.SocialService, logg))
			r.Delete("/follow", controllers.SocialUnfollow(d.SocialService, logg))
			r.Get("/followers", controllers.SocialFollowers(d.SocialService, logg))
			r.Get("/following", controllers.SocialFollowing(d.SocialService, logg))
			r.Get("/follow-status", controllers.SocialStatus(d.SocialService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsList(d.SettingsService, logg))
			r.Get("/{key}", controllers.SettingsGet(d.SettingsService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Session, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(d.Redis, cfg.Checkout, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(d.UsersService, logg))
			r.Get("/{userId}", controllers.AdminUserDetail(d.UsersService, logg))
			r.Post("/{userId}/deactivate", controllers.AdminUserDeactivate(d.UsersService, logg))
			r.Post("/{userId}/activate", controllers.AdminUserActivate(d.UsersService, logg))
			r.Post("/{userId}/role", controllers.AdminUserChangeRole(d.UsersService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(d.OrderService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(d.OrderService, logg))
			r.Post("/{orderId}/status", controllers.AdminOrderUpdateStatus(d.OrderService, logg))
			r.Post("/{orderId}/payment-status", controllers.AdminOrderUpdatePaymentStatus(d.OrderService, logg))
		})

		r.Route("/gamification", func(r chi.Router) {
			r.Post("/badges/grant", controllers.AdminGrantBadge(d.GamificationSvc, logg))
			r.Post("/points/adjust", controllers.AdminAdjustPoints(d.GamificationSvc, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Put("/{key}", controllers.SettingsSet(d.SettingsService, logg))
			r.Delete("/{key}", controllers.SettingsDelete(d.SettingsService, logg))
		})

		r.Get("/database", controllers.AdminDatabaseOverview(d.SettingsService, logg))
	})

	return r
}
