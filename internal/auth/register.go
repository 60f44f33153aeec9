package auth

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/horae/internal/api"
	"github.com/UnknownOlympus/horae/internal/models"
)

// Register validates the sign-up form and submits it. It returns the server's
// message on success. A response without a message counts as a failure.
func (s *Service) Register(ctx context.Context, form models.Registration) (string, error) {
	const opn = "Auth.Register"
	log := s.initLogger(opn)

	if err := s.validator.Struct(form); err != nil {
		return "", err
	}

	res := api.Create[models.RegisterResponse](ctx, s.gateway, api.PathRegister, form)
	if !res.OK() {
		return "", fmt.Errorf("%w: %s: %w", ErrRegistration, res.Kind, res.Err)
	}
	if res.Value.Message == "" {
		return "", fmt.Errorf("%w: response carries no message", ErrRegistration)
	}

	log.InfoContext(ctx, "Registered new employee", "role", form.Role)
	return res.Value.Message, nil
}

// Managers lists the managers a new employee can report to. Any failure yields an
// empty list; the form then only offers "No Manager".
func (s *Service) Managers(ctx context.Context) []models.Manager {
	res := api.Read[[]models.Manager](ctx, s.gateway, api.PathManagers)
	if !res.OK() {
		return nil
	}
	return res.Value
}
