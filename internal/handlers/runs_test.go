package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/runs", ListRuns)
	router.GET("/v1/runs/:id", GetRun)
	router.GET("/health", HealthCheck)
	return router
}

// TestListRunsWithoutDatabase tests the unavailable response when persistence is off
func TestListRunsWithoutDatabase(t *testing.T) {
	router := newRunsRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/runs", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "persistence not configured")
}

// TestListRunsInvalidQuery tests query parameter validation
func TestListRunsInvalidQuery(t *testing.T) {
	router := newRunsRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/runs?limit=abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestGetRunWithoutDatabase tests the unavailable response for single-run lookups
func TestGetRunWithoutDatabase(t *testing.T) {
	router := newRunsRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/runs/run_abc123", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// TestHealthCheckWithoutDatabase tests the degraded health report
func TestHealthCheckWithoutDatabase(t *testing.T) {
	router := newRunsRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "not configured", resp.Database)
}
