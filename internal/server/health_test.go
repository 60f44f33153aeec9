package server_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/horae/internal/metrics"
	"github.com/UnknownOlympus/horae/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockPinger struct {
	ShouldFail bool
}

func (m *MockPinger) Ping(_ context.Context) error {
	if m.ShouldFail {
		return errors.New("mock storage error")
	}
	return nil
}

func TestHealthChecker(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	apiServer := func(status int) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodHead, r.Method)
			w.WriteHeader(status)
		}))
	}

	tests := []struct {
		name         string
		storageFails bool
		apiStatus    int
		apiURL       string
		wantCode     int
		wantBody     string
	}{
		{"all systems ok", false, http.StatusOK, "", http.StatusOK, `{"storage":"ok","api_host":"ok"}`},
		{"api root not found is reachable", false, http.StatusNotFound, "", http.StatusOK, `{"storage":"ok","api_host":"ok"}`},
		{"storage unavailable", true, http.StatusOK, "", http.StatusServiceUnavailable, `{"storage":"unavailable","api_host":"ok"}`},
		{"api host degraded", false, http.StatusInternalServerError, "", http.StatusServiceUnavailable, `{"storage":"ok","api_host":"degraded"}`},
		{"api host unreachable", false, 0, "invalid_url", http.StatusServiceUnavailable, `{"storage":"ok","api_host":"unreachable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiURL := tt.apiURL
			if apiURL == "" {
				srv := apiServer(tt.apiStatus)
				defer srv.Close()
				apiURL = srv.URL
			}

			healthChecker := server.NewHealthChecker(&MockPinger{ShouldFail: tt.storageFails}, apiURL, http.DefaultClient, logger)

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rr := httptest.NewRecorder()

			healthChecker.ServeHTTP(rr, req)

			require.Equal(t, tt.wantCode, rr.Code)
			require.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.Logins.WithLabelValues("success").Inc()

	health := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router := server.NewRouter(reg, health)

	t.Run("metrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `horae_logins_total{outcome="success"} 1`)
	})

	t.Run("healthz", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusTeapot, rr.Code)
	})

	t.Run("unknown path", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug", nil))

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
