package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UnknownOlympus/horae/internal/api"
	"github.com/UnknownOlympus/horae/internal/auth"
	"github.com/UnknownOlympus/horae/internal/client"
	"github.com/UnknownOlympus/horae/internal/metrics"
	"github.com/UnknownOlympus/horae/internal/models"
	"github.com/UnknownOlympus/horae/internal/session"
	"github.com/UnknownOlympus/horae/internal/storage"
	"github.com/UnknownOlympus/horae/internal/validate"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service *auth.Service
	storage *storage.Memory
	store   *session.Store
	metrics *metrics.Metrics
	ctx     context.Context
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.DiscardHandler)
	mem := storage.NewMemory()
	m := metrics.NewMetrics(prometheus.NewRegistry())

	tr, err := client.NewTransport(logger, server.Client(), server.URL, mem, storage.DefaultTokenKey)
	require.NoError(t, err)

	store := session.NewStore()

	return &fixture{
		service: auth.NewService(logger, api.NewGateway(logger, tr, m), mem, storage.DefaultTokenKey, validate.New(), m),
		storage: mem,
		store:   store,
		metrics: m,
		ctx:     session.NewContext(context.Background(), store),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ptr[T any](v T) *T { return &v }

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/Auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds models.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, models.Credentials{Email: "a@b.com", Password: "secret1"}, creds)

		writeJSON(w, http.StatusOK, models.LoginResponse{
			Token:    "jwt-token",
			Employee: &models.Employee{ID: 9, FirstName: "Ann", LastName: "Lee", Role: "Employee", ManagerID: ptr(5)},
			AttendanceReports: []models.AttendanceReport{
				{ID: 1, EmployeeID: 9, Status: models.StatusPending},
			},
			IsReportExists: false,
		})
	})

	err := fx.service.Login(fx.ctx, models.Credentials{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	token, ok, err := fx.storage.GetItem(context.Background(), storage.DefaultTokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jwt-token", token)

	employee := fx.store.Employee()
	require.NotNil(t, employee)
	assert.Equal(t, 9, employee.ID)
	assert.True(t, employee.HasManager())
	assert.Len(t, fx.store.Reports(), 1)
	assert.False(t, fx.store.IsReportExists())
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.Logins.WithLabelValues("success")), 0)
}

func TestLogin_ValidationErrorsAreNotSent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	fx := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	err := fx.service.Login(fx.ctx, models.Credentials{Email: "", Password: "123"})

	var errs validate.Errors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
	assert.Zero(t, calls.Load())
	assert.Nil(t, fx.store.Employee())
}

func TestLogin_Rejected(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := fx.service.Login(fx.ctx, models.Credentials{Email: "a@b.com", Password: "wrong12"})

	require.ErrorIs(t, err, auth.ErrLogin)
	assert.ErrorContains(t, err, "unauthorized")
	_, ok, _ := fx.storage.GetItem(context.Background(), storage.DefaultTokenKey)
	assert.False(t, ok)
	assert.Nil(t, fx.store.Employee())
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.Logins.WithLabelValues("failure")), 0)
}

func TestLogin_ResponseWithoutToken(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"employee": map[string]any{"id": 1}})
	})

	err := fx.service.Login(fx.ctx, models.Credentials{Email: "a@b.com", Password: "secret1"})

	require.ErrorIs(t, err, auth.ErrLogin)
	assert.Nil(t, fx.store.Employee())
}

func TestLogin_OutsideSessionPanics(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	assert.Panics(t, func() {
		_ = fx.service.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "secret1"})
	})
}

func TestLogout_RemovesTokenAndSubsequentRequestsAreAnonymous(t *testing.T) {
	t.Parallel()

	var lastAuth atomic.Value
	fx := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		lastAuth.Store(r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/Auth/login":
			writeJSON(w, http.StatusOK, models.LoginResponse{Token: "jwt-token", Employee: &models.Employee{ID: 1}})
		default:
			writeJSON(w, http.StatusOK, []models.Manager{})
		}
	})

	require.NoError(t, fx.service.Login(fx.ctx, models.Credentials{Email: "a@b.com", Password: "secret1"}))

	fx.service.Managers(fx.ctx)
	assert.Equal(t, "Bearer jwt-token", lastAuth.Load())

	require.NoError(t, fx.service.Logout(fx.ctx))

	_, ok, _ := fx.storage.GetItem(context.Background(), storage.DefaultTokenKey)
	assert.False(t, ok)
	assert.Nil(t, fx.store.Employee())

	fx.service.Managers(fx.ctx)
	assert.Equal(t, "", lastAuth.Load())
}

type brokenStorage struct {
	*storage.Memory
}

func (b *brokenStorage) RemoveItem(context.Context, string) error {
	return errors.New("read-only filesystem")
}

func TestLogout_StorageFailureStillResetsSession(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	broken := &brokenStorage{Memory: storage.NewMemory()}
	svc := auth.NewService(logger, nil, broken, storage.DefaultTokenKey, validate.New(), m)

	store := session.NewStore()
	store.SetEmployee(&models.Employee{ID: 1})
	ctx := session.NewContext(context.Background(), store)

	err := svc.Logout(ctx)

	require.ErrorContains(t, err, "read-only filesystem")
	assert.Nil(t, store.Employee())
}

func TestInspectToken(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := fx.service.InspectToken(fx.ctx)
	require.ErrorIs(t, err, auth.ErrNoToken)

	expiresAt := time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "9",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	require.NoError(t, fx.storage.SetItem(context.Background(), storage.DefaultTokenKey, signed))

	info, err := fx.service.InspectToken(fx.ctx)
	require.NoError(t, err)
	assert.Equal(t, "9", info.Subject)
	assert.True(t, expiresAt.Equal(info.ExpiresAt))
	assert.False(t, info.Expired(expiresAt.Add(-time.Minute)))
	assert.True(t, info.Expired(expiresAt.Add(time.Minute)))

	require.NoError(t, fx.storage.SetItem(context.Background(), storage.DefaultTokenKey, "not-a-jwt"))
	_, err = fx.service.InspectToken(fx.ctx)
	require.ErrorContains(t, err, "failed to parse token")
}

func TestTokenInfo_NoExpiryNeverExpires(t *testing.T) {
	t.Parallel()

	assert.False(t, auth.TokenInfo{}.Expired(time.Now()))
}
