// Package testutil starts the PostgreSQL and Redis containers used by the
// integration suites.
package testutil

import (
	"context"
	"fmt"
	"io"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
)

// Config returns a configuration suitable for service tests
func Config() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "storefront-test", Environment: "test", Currency: "원"},
		Database: config.DatabaseConfig{
			MaxOpenConns: 5,
			MaxIdleConns: 2,
			MaxLifetime:  time.Minute,
		},
		JWT: config.JWTConfig{
			Secret:            "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
		Cache:    config.CacheConfig{ItemDetailSize: 16, ItemDetailTTL: time.Minute},
		Session:  config.SessionConfig{CartSelectionTTL: time.Hour, OrderHandoffTTL: time.Minute},
		Logging:  config.LoggingConfig{Level: "error"},
	}
}

// Logger returns a logger that discards output
func Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// StartPostgres runs a PostgreSQL container and migrates the storefront schema
func StartPostgres(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*postgres.DB, testcontainers.Container, error) {
	container, err := tcpostgres.Run(ctx, "postgres:17.6-alpine3.22",
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, container, fmt.Errorf("pc.ConnectionString: %w", err)
	}

	db, err := postgres.Open(ctx, connStr, cfg, logger)
	if err != nil {
		return nil, container, fmt.Errorf("postgres.Open: %w", err)
	}

	migration := postgres.NewMigration(db.GetDB(), logger)
	if err := migration.RunAutoMigrations(ctx); err != nil {
		return nil, container, fmt.Errorf("migrate: %w", err)
	}
	if err := migration.CreateIndexes(ctx); err != nil {
		return nil, container, fmt.Errorf("indexes: %w", err)
	}

	return db, container, nil
}

// StartRedis runs a Redis container and returns a connected client
func StartRedis(ctx context.Context) (*goredis.Client, testcontainers.Container, error) {
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, nil, fmt.Errorf("redis.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx)
	if err != nil {
		return nil, container, fmt.Errorf("rc.ConnectionString: %w", err)
	}

	opts, err := goredis.ParseURL(connStr)
	if err != nil {
		return nil, container, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, container, fmt.Errorf("redis ping: %w", err)
	}
	return client, container, nil
}

// Terminate stops containers, ignoring nil entries
func Terminate(ctx context.Context, containers ...testcontainers.Container) {
	for _, c := range containers {
		if c != nil {
			_ = c.Terminate(ctx)
		}
	}
}

// Truncate empties the given tables. Ids keep increasing so in-process
// caches keyed by id never see a reused key.
func Truncate(db *gorm.DB, tables ...string) error {
	for _, table := range tables {
		if err := db.Exec("TRUNCATE TABLE " + table + " CASCADE").Error; err != nil {
			return err
		}
	}
	return nil
}
