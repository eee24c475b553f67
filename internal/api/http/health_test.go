package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serveHealth(t *testing.T, db Pinger, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	NewHealthHandler("test-service", "1.0.0", db).RegisterRoutes(router)

	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	for _, path := range []string{"/health", "/healthz"} {
		rr := serveHealth(t, nil, http.MethodGet, path)
		require.Equal(t, http.StatusOK, rr.Code)

		var response HealthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "test-service", response.Service)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "disabled", response.DB)
	}
}

func TestHealthCheckDatabase(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		rr := serveHealth(t, pingFunc(func(context.Context) error { return nil }), http.MethodGet, "/health")
		require.Equal(t, http.StatusOK, rr.Code)

		var response HealthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, "up", response.DB)
	})

	t.Run("down", func(t *testing.T) {
		rr := serveHealth(t, pingFunc(func(context.Context) error { return errors.New("refused") }), http.MethodGet, "/health")
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)

		var response HealthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, "down", response.DB)
		assert.Equal(t, "degraded", response.Status)
	})
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	rr := serveHealth(t, nil, http.MethodPost, "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
