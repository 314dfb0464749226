package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/creditbook/creditbook-api/internal/config"
	"github.com/creditbook/creditbook-api/internal/domain/balance"
	"github.com/creditbook/creditbook-api/internal/domain/customer"
	"github.com/creditbook/creditbook-api/internal/domain/dashboard"
	"github.com/creditbook/creditbook-api/internal/domain/entry"
	"github.com/creditbook/creditbook-api/internal/middleware"
	"github.com/creditbook/creditbook-api/internal/pkg/cache"
	"github.com/creditbook/creditbook-api/internal/pkg/database"
	"github.com/creditbook/creditbook-api/internal/pkg/logger"
	"github.com/creditbook/creditbook-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting CreditBook API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to apply schema")
		}
	}

	redis, err := database.NewRedis(cfg.Redis())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	txManager := database.NewTxManager(db)
	statsCache := cache.New(redis, "creditbook:dashboard", cfg.DashboardCacheTTL)

	// ---------- Repositories ----------
	customerRepo := customer.NewRepository(db)
	entryRepo := entry.NewRepository(db)
	dashboardRepo := dashboard.NewRepository(db)

	// ---------- Services ----------
	recalculator := balance.NewRecalculator(entryRepo, customerRepo)
	dashboardService := dashboard.NewService(dashboardRepo, statsCache)
	customerService := customer.NewService(customerRepo, entryRepo, recalculator, txManager, dashboardService)
	entryService := entry.NewService(entryRepo, customerRepo, recalculator, txManager, dashboardService)

	// ---------- Handlers ----------
	r := newRouter(cfg,
		customer.NewHandler(customerService),
		entry.NewHandler(entryService),
		dashboard.NewHandler(dashboardService),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newRouter(cfg *config.Config, customers *customer.Handler, entries *entry.Handler, stats *dashboard.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.SecureHeaders(cfg.IsProduction()))
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/customers", customers.Routes())
		r.Mount("/credit-entries", entries.Routes())
		r.Mount("/dashboard", dashboard.Routes(stats))
	})

	return r
}
