// Package auth manages the Google sign-in flow and the local JWT
// session.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/joelwehr/ppclog/internal/creds"
	"github.com/joelwehr/ppclog/internal/events"
	"github.com/joelwehr/ppclog/internal/models"
	"github.com/joelwehr/ppclog/internal/transport"
)

// API paths, relative to the configured base URL.
const (
	pathGoogleAuth   = "auth/google/"
	pathTokenRefresh = "auth/token/refresh/"
	pathDashboard    = "dashboard/dashboard/"
)

// Authorizer obtains a Google authorization code from the user. The
// CLI implements this with a browser URL and a pasted code.
type Authorizer interface {
	Authorize(ctx context.Context) (code string, err error)
}

// Runner is the background job tied to the session lifecycle. It
// starts on sign-in and stops on sign-out.
type Runner interface {
	Start()
	Stop()
}

// Service exchanges Google authorization codes for API tokens and
// keeps the transport's bearer token current.
type Service struct {
	client     transport.Client
	creds      creds.Store
	authorizer Authorizer
	runner     Runner
	logger     *events.Logger
}

// NewService creates an auth service.
func NewService(client transport.Client, credStore creds.Store, authorizer Authorizer, logger *events.Logger) *Service {
	return &Service{
		client:     client,
		creds:      credStore,
		authorizer: authorizer,
		logger:     logger.WithField("service", "auth"),
	}
}

// SetRunner attaches the job started on sign-in and stopped on
// sign-out.
func (s *Service) SetRunner(r Runner) {
	s.runner = r
}

// SignIn runs the authorization flow, exchanges the resulting code
// for a token pair, and persists the session.
func (s *Service) SignIn(ctx context.Context) error {
	code, err := s.authorizer.Authorize(ctx)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}

	var tokens models.TokenPair
	payload := map[string]string{"access_token": code}
	if err := s.client.PostJSON(ctx, pathGoogleAuth, payload, &tokens); err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	if err := s.saveTokens(&tokens); err != nil {
		return err
	}
	s.client.SetToken(tokens.Access)

	s.logger.Info("Signed in")
	if s.runner != nil {
		s.runner.Start()
	}
	return nil
}

// SignOut clears the stored session and stops the background job.
func (s *Service) SignOut() error {
	if s.runner != nil {
		s.runner.Stop()
	}

	if err := s.creds.Delete(models.KeyAccessToken); err != nil {
		return fmt.Errorf("clear access token: %w", err)
	}
	if err := s.creds.Delete(models.KeyRefreshToken); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	s.client.SetToken("")

	s.logger.Info("Signed out")
	return nil
}

// TryRestoreSession loads stored tokens and validates them against
// the API. It returns false when no session exists, when the session
// is definitively invalid, or when the probe cannot reach the server.
// Stored tokens are only deleted on a definitive rejection, so an
// unreachable server keeps the session for the next attempt.
func (s *Service) TryRestoreSession(ctx context.Context) (bool, error) {
	access, err := s.creds.Get(models.KeyAccessToken)
	if err != nil {
		return false, fmt.Errorf("load access token: %w", err)
	}
	if access == "" {
		return false, nil
	}

	s.client.SetToken(access)

	err = s.client.GetJSON(ctx, pathDashboard, nil)
	switch {
	case err == nil:
		// Token still valid.
	case models.IsUnauthorized(err):
		if err := s.Refresh(ctx); err != nil {
			s.logger.WithError(err).Info("Session not restored")
			s.client.SetToken("")
			return false, nil
		}
	default:
		s.logger.WithError(err).Warn("Session check failed")
		s.client.SetToken("")
		return false, nil
	}

	s.logger.Info("Session restored")
	if s.runner != nil {
		s.runner.Start()
	}
	return true, nil
}

// Refresh exchanges the stored refresh token for a new access token.
// The session is cleared only when the server definitively rejects the
// refresh token (or none is stored); a transport failure leaves every
// token in place so the next attempt can succeed.
func (s *Service) Refresh(ctx context.Context) error {
	refresh, err := s.creds.Get(models.KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("load refresh token: %w", err)
	}
	if refresh == "" {
		s.clearSession()
		return models.ErrRefreshFailed
	}

	var tokens models.TokenPair
	payload := map[string]string{"refresh": refresh}
	if err := s.client.PostJSON(ctx, pathTokenRefresh, payload, &tokens); err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			s.logger.WithError(err).Warn("Token refresh rejected")
			s.clearSession()
			return models.ErrRefreshFailed
		}
		return fmt.Errorf("refresh token: %w", err)
	}

	// The server may rotate the refresh token; keep the old one when
	// it does not.
	if tokens.Refresh == "" {
		tokens.Refresh = refresh
	}
	if err := s.saveTokens(&tokens); err != nil {
		return err
	}
	s.client.SetToken(tokens.Access)

	s.logger.Debug("Access token refreshed")
	return nil
}

// IsAuthenticated reports whether a bearer token is loaded.
func (s *Service) IsAuthenticated() bool {
	return s.client.Token() != ""
}

// Token returns the current bearer token, or "" when signed out.
func (s *Service) Token() string {
	return s.client.Token()
}

func (s *Service) saveTokens(tokens *models.TokenPair) error {
	if err := s.creds.Set(models.KeyAccessToken, tokens.Access); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if tokens.Refresh != "" {
		if err := s.creds.Set(models.KeyRefreshToken, tokens.Refresh); err != nil {
			return fmt.Errorf("store refresh token: %w", err)
		}
	}
	return nil
}

func (s *Service) clearSession() {
	if err := s.creds.Delete(models.KeyAccessToken); err != nil {
		s.logger.WithError(err).Warn("Failed to clear access token")
	}
	if err := s.creds.Delete(models.KeyRefreshToken); err != nil {
		s.logger.WithError(err).Warn("Failed to clear refresh token")
	}
	s.client.SetToken("")
}
