package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/AlibekovAA/blog-api/internal/common/db/migrations"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
	"github.com/AlibekovAA/blog-api/internal/observability/metrics"
)

var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

var gooseDBVersion = goose.GetDBVersionContext

// RunMigrations applies the embedded schema through a short-lived database/sql
// handle; the pgx pool is not used for this.
func RunMigrations(ctx context.Context, log *logger.Logger, databaseURL string) error {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := gooseUpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := gooseDBVersion(ctx, sqlDB)
	if err != nil {
		log.Warnf("migrations applied but schema version is unknown: %v", err)
		return nil
	}
	metrics.DBSchemaVersion.Set(float64(version))

	log.Infof("database migrations applied, schema version %d", version)
	return nil
}
