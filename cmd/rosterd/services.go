package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/rosterapp/roster"
	"github.com/rosterapp/roster/dynamo"
	"github.com/rosterapp/roster/internal/migrations"
	"github.com/rosterapp/roster/postgres"
	"github.com/rosterapp/roster/storage"
)

// Services holds all application services.
type Services struct {
	StudentService roster.StudentService
	FileStorage    roster.FileStorage

	pool *pgxpool.Pool // non-nil when the record store is postgres
}

// Close releases long-lived service resources.
func (s *Services) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// initServices initializes all application services.
func initServices(ctx context.Context, cfg *Config, logger *slog.Logger) (*Services, error) {
	services := &Services{}

	switch cfg.RecordStoreProvider {
	case "postgres":
		pool, err := newDatabasePool(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("creating database pool: %w", err)
		}
		if err := runMigrations(pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		db := postgres.NewDB(pool)
		services.pool = pool
		services.StudentService = db.StudentService
	default: // "dynamo"
		client, err := dynamo.NewClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		db := dynamo.NewDB(client, cfg.DynamoTable)
		services.StudentService = db.StudentService
	}
	logger.Info("record store initialized", slog.String("provider", cfg.RecordStoreProvider))

	fileStorage, err := storage.NewFileStorage(ctx, logger, roster.StorageConfig{
		Provider:  cfg.StorageProvider,
		LocalPath: cfg.StorageLocalPath,
		LocalURL:  cfg.StorageLocalURL,
		S3Bucket:  cfg.StorageS3Bucket,
		S3Region:  cfg.StorageS3Region,
		S3BaseURL: cfg.StorageS3BaseURL,
	})
	if err != nil {
		services.Close()
		return nil, fmt.Errorf("initializing file storage: %w", err)
	}
	services.FileStorage = fileStorage

	return services, nil
}

// newDatabasePool creates a configured pgxpool connection pool.
func newDatabasePool(ctx context.Context, cfg *Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	connString := cfg.DatabaseURL()
	logger.Debug("connecting to database")

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("database connection pool established")
	return pool, nil
}

// runMigrations runs database migrations using goose.
func runMigrations(pool *pgxpool.Pool, logger *slog.Logger) error {
	logger.Info("running database migrations...")

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	if err := goose.Up(sqlDB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("database migrations completed")
	return nil
}
