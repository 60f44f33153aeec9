package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/horae/internal/client"
	"github.com/UnknownOlympus/horae/internal/models"
	"github.com/UnknownOlympus/horae/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct {
	storage.Memory
}

func (f *failingStorage) GetItem(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

// mockRoundTripper helps to imitate errors on transport level
type mockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func newTransport(t *testing.T, baseURL string, store storage.Storage) *client.Transport {
	t.Helper()

	tr, err := client.NewTransport(slog.New(slog.DiscardHandler), http.DefaultClient, baseURL, store, storage.DefaultTokenKey)
	require.NoError(t, err)

	return tr
}

func TestNewTransport_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, baseURL := range []string{"", "localhost:7178", "://bad", "/relative"} {
		_, err := client.NewTransport(slog.New(slog.DiscardHandler), http.DefaultClient, baseURL,
			storage.NewMemory(), storage.DefaultTokenKey)
		require.ErrorIs(t, err, client.ErrInvalidBaseURL, "base URL %q", baseURL)
	}
}

func TestTransport_AttachesBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx := context.Background()
	store := storage.NewMemory()
	tr := newTransport(t, server.URL, store)

	_, err := tr.Get(ctx, "api/employees/managers")
	require.NoError(t, err)

	require.NoError(t, store.SetItem(ctx, storage.DefaultTokenKey, "jwt-123"))
	_, err = tr.Get(ctx, "api/employees/managers")
	require.NoError(t, err)

	require.NoError(t, store.RemoveItem(ctx, storage.DefaultTokenKey))
	_, err = tr.Get(ctx, "api/employees/managers")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer jwt-123", ""}, gotAuth)
}

func TestTransport_RequestShape(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/attendanceReports/42", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, models.UserAgent, r.Header.Get("User-Agent"))

		_, err := uuid.Parse(r.Header.Get(client.RequestIDHeader))
		assert.NoError(t, err, "request id must be a UUID")

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"Status":"Approved"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"id": 42})
	}))
	defer server.Close()

	tr := newTransport(t, server.URL, storage.NewMemory())

	resp, err := tr.Put(context.Background(), "/api/attendanceReports/42", models.ReportUpdate{Status: models.StatusApproved})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":42}`, string(resp.Body))
	assert.NotEmpty(t, resp.RequestID)
}

func TestTransport_StatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad credentials"))
	}))
	defer server.Close()

	tr := newTransport(t, server.URL, storage.NewMemory())

	resp, err := tr.Post(context.Background(), "api/Auth/login", models.Credentials{Email: "a@b.com", Password: "x"})

	require.Nil(t, resp)
	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "text/plain", statusErr.ContentType)
	assert.Equal(t, "bad credentials", string(statusErr.Body))
	assert.EqualError(t, err, "POST api/Auth/login failed with status code 401")
}

func TestTransport_NetworkError(t *testing.T) {
	t.Parallel()

	httpClient := &http.Client{Transport: &mockRoundTripper{
		RoundTripFunc: func(*http.Request) (*http.Response, error) {
			return nil, errors.New("simulated network error")
		},
	}}
	tr, err := client.NewTransport(slog.New(slog.DiscardHandler), httpClient, "http://example.com",
		storage.NewMemory(), storage.DefaultTokenKey)
	require.NoError(t, err)

	_, err = tr.Get(context.Background(), "api/employees/managers")

	require.ErrorContains(t, err, "failed to request")
	require.ErrorContains(t, err, "simulated network error")
}

func TestTransport_UnreadableTokenIsSkipped(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	tr := newTransport(t, server.URL, &failingStorage{})

	resp, err := tr.Get(context.Background(), "api/employees/managers")

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestTransport_UnencodableBody(t *testing.T) {
	t.Parallel()

	tr := newTransport(t, "http://example.com", storage.NewMemory())

	_, err := tr.Post(context.Background(), "api/AttendanceReports", map[string]any{"bad": make(chan int)})

	require.ErrorContains(t, err, "failed to encode request body")
}
