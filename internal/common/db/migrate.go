package db

import (
	"context"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/fitgoals/backend/internal/common/logger"
)

// RunMigrations applies all pending goose migrations from migrationsFS. The
// database may still be starting when the process comes up, so transient
// connection failures are retried with backoff.
func RunMigrations(ctx context.Context, log *logger.Logger, databaseURL string, migrationsFS fs.FS) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	return RetryWithBackoff(ctx, log, DefaultRetryConfig, func() error {
		sqlDB, err := goose.OpenDBWithDriver("pgx", databaseURL)
		if err != nil {
			return fmt.Errorf("goose open db: %w", err)
		}
		defer sqlDB.Close()

		if err := goose.Up(sqlDB, "."); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}

		log.Infof("database migrations applied")
		return nil
	})
}
