package database

import (
	"context"
	"embed"
	"fmt"
	"path"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/sqlite3/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) { l.sugar.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.sugar.Fatalf(format, v...) }

func (g *Gateway) prepareGoose() (string, error) {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{sugar: g.logger.Sugar()})

	if err := goose.SetDialect(g.Dialect()); err != nil {
		return "", fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return path.Join("migrations", g.driverDir()), nil
}

func (g *Gateway) driverDir() string {
	if g.driver == DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// RunMigrations executes all pending migrations for the active driver
func (g *Gateway) RunMigrations(ctx context.Context) error {
	dir, err := g.prepareGoose()
	if err != nil {
		return err
	}

	g.logger.Info("Checking for pending migrations...", zap.String("dir", dir))

	if err := goose.UpContext(ctx, g.db, dir); err != nil {
		g.logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	g.logger.Info("Migrations completed successfully")
	return nil
}

// RollbackMigration reverts the most recent migration
func (g *Gateway) RollbackMigration(ctx context.Context) error {
	dir, err := g.prepareGoose()
	if err != nil {
		return err
	}

	if err := goose.DownContext(ctx, g.db, dir); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// MigrationStatus logs the applied state of every migration
func (g *Gateway) MigrationStatus(ctx context.Context) error {
	dir, err := g.prepareGoose()
	if err != nil {
		return err
	}

	return goose.StatusContext(ctx, g.db, dir)
}

// SchemaVersion returns the current goose version of the store.
func (g *Gateway) SchemaVersion(ctx context.Context) (int64, error) {
	if _, err := g.prepareGoose(); err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersionContext(ctx, g.db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
