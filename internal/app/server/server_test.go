package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/casedesk/casedesk/internal/app/config"
	appservices "github.com/casedesk/casedesk/internal/app/services"
	"github.com/casedesk/casedesk/internal/infrastructure/cache"
	"github.com/casedesk/casedesk/internal/infrastructure/repositories/postgresql/testutil"
	"github.com/casedesk/casedesk/internal/infrastructure/storage/local"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{Port: "0", AllowedOrigins: []string{"http://localhost:3000"}},
		Storage:     config.StorageConfig{Type: "local", Path: t.TempDir()},
		Cache:       config.CacheConfig{TTL: time.Minute, EnrichmentLimit: 20},
	}
	db := testutil.NewTestDB(t)
	sm := appservices.Assemble(cfg, db.DB, appservices.Infrastructure{
		Cache:   cache.NewMemoryCache(),
		Storage: local.NewStorageService(cfg.Storage.Path),
	}, logger.NewForTesting())

	return New(cfg, sm, logger.NewForTesting())
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["environment"])
}

func TestSystemStatus(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/status", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["database"])
	assert.Equal(t, "healthy", body["cache"])
}

func TestProtectedRoutesNeedAuth(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/companies", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/cases", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
