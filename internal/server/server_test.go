package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"product-catalog/internal/config"
	"product-catalog/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test"},
		Cart:   config.CartConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{
			Requests: 2,
			Window:   time.Minute,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	gw, err := database.Open(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "products.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, gw.RunMigrations(context.Background()))

	srv := NewServer(cfg, zap.NewNop(), gw)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "up", body["status"])
	assert.Equal(t, database.DriverSQLite, body["driver"])

	require.NoError(t, srv.gw.Close())

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnknownRoutesUseEnvelope(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"details":"Not Found"}`, w.Body.String())

	w = serve(srv, httptest.NewRequest(http.MethodPatch, "/products", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"details":"Method Not Allowed"}`, w.Body.String())
}

func TestCatalogRoutesAreMounted(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Hello World"}`, w.Body.String())

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/showcase/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"details":"Product not found"}`, w.Body.String())
}

func TestCORSEchoesOrigin(t *testing.T) {
	srv := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	w := serve(srv, req)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRateLimitIsWiredWhenEnabled(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.RateLimit.Enabled = true
	cfg.Redis = config.RedisConfig{Host: host, Port: port}
	srv := newTestServer(t, cfg)
	require.NotNil(t, srv.redis)

	for i := 0; i < 2; i++ {
		w := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"details":"Rate limit exceeded"}`, w.Body.String())
}

func TestRateLimitDisabledByDefault(t *testing.T) {
	srv := newTestServer(t, testConfig())
	assert.Nil(t, srv.redis)

	for i := 0; i < 5; i++ {
		w := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}
