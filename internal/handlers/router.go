package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodapi/internal/metrics"
	"foodapi/internal/middleware"
)

type Services struct {
	Auth    AuthService
	Cart    CartService
	Orders  OrderService
	Catalog CatalogService
}

type RouterConfig struct {
	Logger        *slog.Logger
	Cookies       *CookieManager
	CORSOrigin    string
	UploadDir     string
	UploadBaseURL string

	// Optional.
	Metrics        *metrics.Collector
	MetricsHandler http.Handler
	RateLimiter    *middleware.RateLimiter
	Health         func(context.Context) error
}

func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Cookies == nil {
		cfg.Cookies = NewCookieManager(CookieConfig{Secure: true})
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logging(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.CORS(cfg.CORSOrigin))

	r.NoRoute(func(c *gin.Context) {
		respondError(c, errRouteNotFound)
	})

	if cfg.Health != nil {
		r.GET("/healthz", Healthz(cfg.Health))
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}
	if cfg.UploadDir != "" && cfg.UploadBaseURL != "" {
		r.Static(cfg.UploadBaseURL, cfg.UploadDir)
	}

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.RateLimiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{cfg.RateLimiter.Middleware(), h}
	}
	userAuth := middleware.UserAuth(svc.Auth)
	adminAuth := middleware.AdminAuth(svc.Auth)

	api := r.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/register", limited(Register(svc.Auth))...)
		user.POST("/login", limited(Login(svc.Auth, cfg.Cookies))...)
		user.POST("/refresh-token", limited(RefreshToken(svc.Auth, cfg.Cookies))...)
		user.POST("/logout", userAuth, Logout(svc.Auth, cfg.Cookies))
		user.GET("/me", userAuth, GetMe(svc.Auth))
	}

	food := api.Group("/food")
	{
		food.GET("/list", ListFoods(svc.Catalog, cfg.UploadBaseURL))
		food.POST("/add", adminAuth, AddFood(svc.Catalog, cfg.UploadBaseURL))
		food.DELETE("/:id", adminAuth, RemoveFood(svc.Catalog))
	}

	cart := api.Group("/cart")
	cart.Use(userAuth)
	{
		cart.POST("/add", AddToCart(svc.Cart))
		cart.POST("/remove", RemoveFromCart(svc.Cart))
		cart.GET("/get", GetCart(svc.Cart))
	}

	order := api.Group("/order")
	{
		order.POST("/place", userAuth, PlaceOrder(svc.Orders))
		order.GET("/userorders", userAuth, UserOrders(svc.Orders))
		order.DELETE("/:id", userAuth, CancelOrder(svc.Orders))

		order.GET("/list", adminAuth, ListOrders(svc.Orders))
		order.POST("/status", adminAuth, UpdateOrderStatus(svc.Orders))
	}

	admin := api.Group("/admin")
	admin.Use(adminAuth)
	{
		admin.DELETE("/order/:id", DeleteOrder(svc.Orders))
	}

	return r
}
