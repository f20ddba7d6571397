package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plant-GO/biodex/internal/api/middleware"
	"github.com/Plant-GO/biodex/internal/api/server"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/metrics"
	mockspkg "github.com/Plant-GO/biodex/internal/mocks"
)

func TestServer_Router(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mockspkg.NewMockIssuanceService(ctrl)

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	m.ObserveInvocation("issue_regular_card", domain.ErrAlreadyOwned, 0)

	srv := server.New(server.Config{
		AllowedOrigins: []string{"https://biodex.example"},
		Auth:           middleware.AuthConfig{APIKeys: []string{"key"}},
	}, service, m.Handler())

	router, err := srv.Router()
	require.NoError(t, err)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `biodex_invocations_total{operation="issue_regular_card",outcome="rejected"} 1`)
	})

	t.Run("cors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://biodex.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "https://biodex.example", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestServer_Router_InvalidPublicKey(t *testing.T) {
	srv := server.New(server.Config{
		Auth: middleware.AuthConfig{JWTPublicKey: "not a pem"},
	}, nil, nil)

	_, err := srv.Router()
	assert.Error(t, err)
}

func TestServer_Router_NoMetrics(t *testing.T) {
	srv := server.New(server.Config{}, nil, nil)
	router, err := srv.Router()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
