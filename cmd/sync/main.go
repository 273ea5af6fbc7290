// One-shot feed synchronization, intended for cron. Fetches every enabled
// feed and reconciles the rows, logging per-feed batch counts.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/velorent/rentalsync/internal/config"
	"github.com/velorent/rentalsync/internal/domain/feed"
	"github.com/velorent/rentalsync/internal/infrastructure/database"
	"github.com/velorent/rentalsync/internal/infrastructure/provider/dreamdrives"
	"github.com/velorent/rentalsync/internal/infrastructure/provider/vevs"
	"github.com/velorent/rentalsync/internal/logger"
	"github.com/velorent/rentalsync/internal/usecase"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	repos := database.NewRepositories(db, zapLogger)

	location, err := time.LoadLocation(cfg.Sync.Timezone)
	if err != nil {
		zapLogger.Fatal("Unknown business timezone",
			zap.String("timezone", cfg.Sync.Timezone),
			zap.Error(err))
	}

	opts := usecase.Options{
		Location:        location,
		DefaultCurrency: cfg.Sync.DefaultCurrency,
		AllowedColumns:  cfg.Sync.BookingColumns,
	}

	ctx := context.Background()

	if cfg.Sync.Feeds.VEVS.Enabled {
		feedCfg := cfg.Sync.Feeds.VEVS
		profile := feed.VEVS.WithOverrides(feedCfg.ReferencePrefix, feedCfg.StatusPolicy, feedCfg.NestedPayments)
		reconciler := usecase.NewReconciler(repos, profile, opts, zapLogger)
		client := vevs.NewClient(feedCfg, zapLogger)

		rows, err := client.FetchReservations(ctx)
		if err != nil {
			// A dead feed must not stop the other feeds from syncing.
			zapLogger.Error("Failed to fetch VEVS reservations", zap.Error(err))
		} else {
			result, err := reconciler.SyncBatch(ctx, rows)
			logBatch(zapLogger, profile.Source, result)
			if err != nil {
				zapLogger.Error("Feed sync aborted",
					zap.String("source", profile.Source),
					zap.Error(err))
			}
		}
	}

	if cfg.Sync.Feeds.DreamDrives.Enabled {
		feedCfg := cfg.Sync.Feeds.DreamDrives
		profile := feed.DreamDrives.WithOverrides(feedCfg.ReferencePrefix, feedCfg.StatusPolicy, feedCfg.NestedPayments)
		reconciler := usecase.NewReconciler(repos, profile, opts, zapLogger)
		client := dreamdrives.NewClient(feedCfg, zapLogger)

		rows, err := client.FetchBookings(ctx)
		if err != nil {
			zapLogger.Error("Failed to fetch Dream Drives bookings", zap.Error(err))
		} else {
			result, err := reconciler.SyncBatch(ctx, rows)
			logBatch(zapLogger, profile.Source, result)
			if err != nil {
				zapLogger.Error("Feed sync aborted",
					zap.String("source", profile.Source),
					zap.Error(err))
			}
		}
	}
}

func logBatch(zapLogger *zap.Logger, source string, result usecase.BatchResult) {
	zapLogger.Info("Feed sync completed",
		zap.String("source", source),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	for _, rowErr := range result.Errors {
		zapLogger.Warn("Row error",
			zap.String("source", source),
			zap.Int("index", rowErr.Index),
			zap.String("reference", rowErr.Reference),
			zap.String("code", rowErr.Code),
			zap.String("message", rowErr.Message))
	}
}
