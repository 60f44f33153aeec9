package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/horae/internal/api"
	"github.com/UnknownOlympus/horae/internal/lib/logger/sl"
	"github.com/UnknownOlympus/horae/internal/metrics"
	"github.com/UnknownOlympus/horae/internal/models"
	"github.com/UnknownOlympus/horae/internal/session"
	"github.com/UnknownOlympus/horae/internal/storage"
	"github.com/UnknownOlympus/horae/internal/validate"
)

var (
	ErrLogin        = errors.New("login failed")
	ErrRegistration = errors.New("registration failed")
)

// User-facing outcomes, as the forms display them.
const (
	MsgLoginFailed          = "Invalid login credentials."
	MsgRegistrationComplete = "Registration Complete"
	MsgRegistrationFailed   = "Registration Failed, please try again."
)

// Service signs users in and out and registers new accounts.
type Service struct {
	log       *slog.Logger
	gateway   *api.Gateway
	storage   storage.Storage
	tokenKey  string
	validator *validate.Validator
	metrics   *metrics.Metrics
}

func NewService(
	log *slog.Logger,
	gateway *api.Gateway,
	store storage.Storage,
	tokenKey string,
	validator *validate.Validator,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		log:       log,
		gateway:   gateway,
		storage:   store,
		tokenKey:  tokenKey,
		validator: validator,
		metrics:   metrics,
	}
}

func (s *Service) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "auth"),
	)
}

// Login validates creds, posts them and, on success, persists the bearer token and
// populates the session store found in ctx. Validation failures return validate.Errors
// without touching the network; every other failure wraps ErrLogin.
func (s *Service) Login(ctx context.Context, creds models.Credentials) error {
	const opn = "Auth.Login"
	log := s.initLogger(opn)
	store := session.MustFromContext(ctx)

	if err := s.validator.Struct(creds); err != nil {
		return err
	}

	res := api.Create[*models.LoginResponse](ctx, s.gateway, api.PathLogin, creds)
	if !res.OK() {
		s.metrics.Logins.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: %s: %w", ErrLogin, res.Kind, res.Err)
	}
	if res.Value == nil || res.Value.Token == "" {
		s.metrics.Logins.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: response carries no token", ErrLogin)
	}
	if res.Value.Employee == nil {
		s.metrics.Logins.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: response carries no employee", ErrLogin)
	}

	if err := s.storage.SetItem(ctx, s.tokenKey, res.Value.Token); err != nil {
		s.metrics.Logins.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: failed to persist token: %w", ErrLogin, err)
	}

	store.SetEmployee(res.Value.Employee)
	store.SetReports(res.Value.AttendanceReports)
	store.SetIsReportExists(res.Value.IsReportExists)

	s.metrics.Logins.WithLabelValues("success").Inc()
	log.InfoContext(ctx, "Successfuly logged in",
		"reports", len(res.Value.AttendanceReports), "report_exists", res.Value.IsReportExists)

	return nil
}

// Logout removes the persisted token and discards the session. The session is
// discarded even when the token cannot be removed.
func (s *Service) Logout(ctx context.Context) error {
	const opn = "Auth.Logout"
	log := s.initLogger(opn)

	session.MustFromContext(ctx).Reset()

	if err := s.storage.RemoveItem(ctx, s.tokenKey); err != nil {
		log.ErrorContext(ctx, "Failed to remove token", sl.Err(err))
		return fmt.Errorf("failed to remove token: %w", err)
	}
	log.InfoContext(ctx, "Logged out")

	return nil
}
