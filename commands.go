package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"stock-portfolio/cache"
	"stock-portfolio/config"
	"stock-portfolio/database"
	"stock-portfolio/handlers"
	"stock-portfolio/jobs"
	"stock-portfolio/ledger"
	"stock-portfolio/portfolio"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 10 * time.Second
	jobTimeout      = 5 * time.Minute
)

func openDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := config.OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = sqlDB.Close() }, nil
}

func migrate(cfg *config.Config) error {
	db, closeDB, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("schema up to date")
	return nil
}

func seed(ctx context.Context, cfg *config.Config, path string) error {
	fixture, err := database.LoadFixture(path)
	if err != nil {
		return err
	}

	db, closeDB, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := database.Seed(ctx, db, fixture); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"users":  len(fixture.Users),
		"stocks": len(fixture.Stocks),
		"prices": len(fixture.Prices),
		"news":   len(fixture.News),
	}).Info("fixture loaded")
	return nil
}

func audit(ctx context.Context, cfg *config.Config) error {
	db, closeDB, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	found, err := ledger.NewAuditor(database.NewLedgerStore(db), log.StandardLogger()).Run(ctx)
	if err != nil {
		return err
	}
	if len(found) > 0 {
		return cli.Exit(fmt.Sprintf("%d ledger discrepancies", len(found)), 1)
	}
	return nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, closeDB, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var readCache cache.Cache = cache.Nop{}
	rdb, err := config.OpenRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		readCache = cache.NewRedisCache(rdb, "stock-portfolio:")
	} else {
		log.Info("REDIS_ADDR not set, read cache disabled")
	}

	logger := log.StandardLogger()
	store := database.NewLedgerStore(db)
	stocks := database.NewStockRepository(db)

	scheduler := jobs.NewScheduler(logger, jobTimeout)
	if err := scheduler.Add(cfg.SnapshotSchedule, jobs.NewSnapshotJob(stocks, logger)); err != nil {
		return fmt.Errorf("SNAPSHOT_SCHEDULE: %w", err)
	}
	if err := scheduler.Add(cfg.AuditSchedule, jobs.NewAuditJob(ledger.NewAuditor(store, logger))); err != nil {
		return fmt.Errorf("AUDIT_SCHEDULE: %w", err)
	}
	scheduler.Start()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	h := handlers.New(handlers.Deps{
		Stocks:    stocks,
		Watchlist: database.NewWatchlistRepository(db),
		News:      database.NewNewsRepository(db),
		Portfolio: portfolio.NewService(store),
		Trader:    ledger.NewExecutor(store, logger),
		Cache:     readCache,
		CacheTTL:  cfg.CacheTTL,
		Log:       logger,
	})
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, trusting the X-User-ID header")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.SetupRouter(h, cfg.JWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server shutdown")
	}
	scheduler.Stop(shutdownCtx)
	return nil
}
