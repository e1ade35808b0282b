package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "products.db", cfg.Database.DSN)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, "http://localhost:8001", cfg.Cart.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Cart.Timeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Server.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_DSN", "postgres://user:pw@db:5432/catalog")
	t.Setenv("CART_BASE_URL", "http://cart:9000/")
	t.Setenv("CART_TIMEOUT", "750ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example, https://admin.example")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg := Load()

	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, "postgres://user:pw@db:5432/catalog", cfg.Database.DSN)
	assert.Equal(t, "http://cart:9000", cfg.Cart.BaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.Cart.Timeout)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}
