package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/creditbook/creditbook-api/internal/config"
	"github.com/creditbook/creditbook-api/internal/domain/balance"
	"github.com/creditbook/creditbook-api/internal/domain/customer"
	"github.com/creditbook/creditbook-api/internal/domain/entry"
	"github.com/creditbook/creditbook-api/internal/pkg/cache"
	"github.com/creditbook/creditbook-api/internal/pkg/database"
	"github.com/creditbook/creditbook-api/internal/pkg/logger"
)

// main runs one full recompute of every customer's stored totals and
// exits. It is the manual repair path for totals that drifted from the
// entries, and exits non-zero if any customer could not be recalculated.
func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise logger")
	}

	log.Info().Msg("Starting rebalance")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to PostgreSQL")
		return 1
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.Redis())
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, dashboard cache will not be invalidated")
	}
	defer database.CloseRedis(rdb)

	customerRepo := customer.NewRepository(db)
	recalculator := balance.NewRecalculator(entry.NewRepository(db), customerRepo)
	txManager := database.NewTxManager(db)
	statsCache := cache.New(rdb, "creditbook:dashboard", cfg.DashboardCacheTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stop between customers on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	start := time.Now()
	res, err := recalculator.Sweep(ctx, customerRepo, txManager)
	if res.Recalculated > 0 {
		if err := statsCache.Bump(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate dashboard cache")
		}
	}
	log.Info().
		Int("recalculated", res.Recalculated).
		Int("failed", res.Failed).
		Dur("took", time.Since(start)).
		Msg("Rebalance finished")

	if err != nil {
		log.Error().Err(err).Msg("Rebalance aborted")
		return 1
	}
	if res.Failed > 0 {
		return 1
	}
	return 0
}
