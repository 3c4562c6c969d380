package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"foodapi/internal/auth"
	"foodapi/internal/cache"
	"foodapi/internal/config"
	"foodapi/internal/database"
	"foodapi/internal/handlers"
	"foodapi/internal/logger"
	"foodapi/internal/metrics"
	"foodapi/internal/middleware"
	"foodapi/internal/repository"
	"foodapi/internal/service"
	"foodapi/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logger.SetupDefault(os.Stdout, "info")
		return fmt.Errorf("config: %w", err)
	}
	logger.SetupDefault(os.Stdout, cfg.LogLevel)

	client, err := database.Connect(cfg.MongoURI, cfg.DBTimeout)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			slog.Warn("mongo disconnect failed", slog.String("error", err.Error()))
		}
	}()

	db := client.Database(cfg.DBName)
	slog.Info("mongo connected", slog.String("db", db.Name()))

	if err := database.EnsureIndexes(db); err != nil {
		slog.Warn("index warning", slog.String("error", err.Error()))
	}

	var denylist auth.Denylist = auth.NewMemoryDenylist()
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer redisClient.Close()
		denylist = cache.NewRedisDenylist(redisClient, "foodapi:denylist")
	}

	images, err := storage.NewLocalImageStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	users := repository.NewMongoUserRepo(db, cfg.DBTimeout)
	foods := repository.NewMongoFoodRepo(db, cfg.DBTimeout)
	orders := repository.NewMongoOrderRepo(db, cfg.DBTimeout)

	tokens := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})

	log := slog.Default()
	services := handlers.Services{
		Auth:    service.NewAuthService(users, tokens, denylist, collector, log),
		Cart:    service.NewCartService(users, foods, log),
		Orders:  service.NewOrderService(orders, users, foods, collector, log),
		Catalog: service.NewCatalogService(foods, images, cfg.UploadTimeout, log),
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{PerMinute: cfg.LoginRatePerMin})
	defer limiter.Stop()

	router := handlers.NewRouter(services, handlers.RouterConfig{
		Logger: log,
		Cookies: handlers.NewCookieManager(handlers.CookieConfig{
			Secure:   cfg.CookieSecure,
			SameSite: cfg.CookieSameSite,
			Domain:   cfg.CookieDomain,
		}),
		CORSOrigin:     cfg.CORSOrigin,
		UploadDir:      images.Dir(),
		UploadBaseURL:  cfg.UploadBaseURL,
		Metrics:        collector,
		MetricsHandler: metrics.Handler(registry),
		RateLimiter:    limiter,
		Health: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server listen: %w", err)
	case <-stop:
	}
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped gracefully")
	return nil
}
