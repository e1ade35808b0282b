package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"product-catalog/internal/config"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"

	// sqlite waits this long on a locked file before failing a statement
	sqliteBusyTimeoutMS = 5000
)

var (
	ErrConnection        = errors.New("database connection failed")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// Gateway owns the driver handle and hands out one scoped connection per
// store operation.
type Gateway struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// Open opens the configured store. The sqlite driver creates the file on
// first use.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*Gateway, error) {
	dsn := cfg.DSN
	switch cfg.Driver {
	case DriverSQLite:
		if !strings.Contains(dsn, "?") {
			dsn = fmt.Sprintf("%s?_busy_timeout=%d", dsn, sqliteBusyTimeoutMS)
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		logger.Error("Failed to open database", zap.String("driver", cfg.Driver), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return New(db, cfg.Driver, logger), nil
}

// New wraps an already opened handle.
func New(db *sql.DB, driver string, logger *zap.Logger) *Gateway {
	return &Gateway{db: db, driver: driver, logger: logger}
}

// Conn acquires a dedicated connection. The caller must Close it.
func (g *Gateway) Conn(ctx context.Context) (*sql.Conn, error) {
	conn, err := g.db.Conn(ctx)
	if err != nil {
		g.logger.Error("Failed to acquire database connection",
			zap.String("driver", g.driver),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return conn, nil
}

// DB exposes the underlying handle for migrations.
func (g *Gateway) DB() *sql.DB {
	return g.db
}

func (g *Gateway) Driver() string {
	return g.driver
}

// Dialect is the goose dialect name for the active driver.
func (g *Gateway) Dialect() string {
	if g.driver == DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Rebind rewrites ? placeholders into the driver's native form.
func (g *Gateway) Rebind(query string) string {
	if g.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Health pings the store and reports pool statistics.
func (g *Gateway) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)
	stats["driver"] = g.driver

	if err := g.db.PingContext(ctx); err != nil {
		g.logger.Error("Database health check failed", zap.Error(err))
		stats["status"] = "down"
		stats["error"] = "database unreachable"
		return stats
	}

	dbStats := g.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	return stats
}

func (g *Gateway) Close() error {
	g.logger.Info("Closing database", zap.String("driver", g.driver))
	return g.db.Close()
}

// IsUniqueViolation reports whether err is a primary key or unique
// constraint failure from either supported driver.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}
