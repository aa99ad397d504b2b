package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/retailops/backend/internal/domain/credential"
	"github.com/retailops/backend/internal/domain/integration"
	"github.com/retailops/backend/internal/domain/notification"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/config"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AccessToken reads the order system bearer token. A missing or expired
// token yields shared.ErrCredentialUnavailable with a hint to refresh.
func AccessToken(ctx context.Context, store credential.Store) (string, error) {
	token, err := store.Get(ctx, credential.KeyOrderSystemToken)
	if errors.Is(err, credential.ErrCredentialUnavailable) {
		return "", shared.ErrCredentialUnavailable.WithMessage("Order system token is missing or expired, run refresh first")
	}
	if err != nil {
		return "", fmt.Errorf("read order system token: %w", err)
	}
	return token, nil
}

// ConnectionResult is the outcome of a connection test
type ConnectionResult struct {
	OK        bool      `json:"ok"`
	CheckedAt time.Time `json:"checked_at"`
}

// CredentialService keeps the order system token fresh
type CredentialService struct {
	client   integration.OrderSystemClient
	store    credential.Store
	cfg      config.OrderSystemConfig
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewCredentialService creates a new CredentialService
func NewCredentialService(
	client integration.OrderSystemClient,
	store credential.Store,
	cfg config.OrderSystemConfig,
	notifier Notifier,
	logger *zap.Logger,
) *CredentialService {
	return &CredentialService{
		client:   client,
		store:    store,
		cfg:      cfg,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Refresh logs in and stores a new token. When the smoke test after login
// fails the token stays stored, the result says verified=false and an error
// is returned alongside it.
func (s *CredentialService) Refresh(ctx context.Context) (*integration.RefreshResult, error) {
	log := logger.LOr(ctx, s.logger)

	username, password, err := s.loginCredentials(ctx)
	if err != nil {
		return nil, err
	}

	login, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.notifyFailure(ctx, "Order system login failed", err)
		return nil, fmt.Errorf("order system login: %w", err)
	}

	lifetime, fromUpstream := integration.TokenLifetime(login.ExpiresIn, s.cfg.TokenLifetime)
	expiresAt := s.now().Add(lifetime).UTC()
	if err := s.store.Put(ctx, credential.KeyOrderSystemToken, login.AccessToken, &expiresAt); err != nil {
		return nil, fmt.Errorf("store order system token: %w", err)
	}

	result := &integration.RefreshResult{
		ExpiresAt:    expiresAt,
		Lifetime:     lifetime.String(),
		FromUpstream: fromUpstream,
	}
	if err := s.client.Ping(ctx, login.AccessToken); err != nil {
		result.VerifyError = err.Error()
		s.notifyFailure(ctx, "Order system token check failed", err)
		return result, fmt.Errorf("verify refreshed token: %w", err)
	}
	result.Verified = true

	log.Info("Order system token refreshed",
		zap.Time("expires_at", expiresAt),
		zap.Bool("lifetime_from_upstream", fromUpstream))
	return result, nil
}

// loginCredentials prefers stored credentials and falls back to config
func (s *CredentialService) loginCredentials(ctx context.Context) (string, string, error) {
	username, err := s.secretOr(ctx, credential.KeyOrderSystemUsername, s.cfg.Username)
	if err != nil {
		return "", "", err
	}
	password, err := s.secretOr(ctx, credential.KeyOrderSystemPassword, s.cfg.Password)
	if err != nil {
		return "", "", err
	}
	if username == "" || password == "" {
		return "", "", shared.ErrCredentialUnavailable.WithMessage("Order system username and password are not configured")
	}
	return username, password, nil
}

func (s *CredentialService) secretOr(ctx context.Context, key, fallback string) (string, error) {
	v, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, credential.ErrCredentialUnavailable):
		return fallback, nil
	default:
		return "", fmt.Errorf("read %s: %w", key, err)
	}
}

// UpdateCredentials stores the order system username and password without expiry
func (s *CredentialService) UpdateCredentials(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return shared.ErrInvalidInput.WithMessage("Username and password are required")
	}
	if err := s.store.Put(ctx, credential.KeyOrderSystemUsername, username, nil); err != nil {
		return fmt.Errorf("store username: %w", err)
	}
	if err := s.store.Put(ctx, credential.KeyOrderSystemPassword, password, nil); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	logger.LOr(ctx, s.logger).Info("Order system credentials updated")
	return nil
}

// TestConnection runs the smoke test with the current token
func (s *CredentialService) TestConnection(ctx context.Context) (*ConnectionResult, error) {
	token, err := AccessToken(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if err := s.client.Ping(ctx, token); err != nil {
		return nil, fmt.Errorf("order system connection test: %w", err)
	}
	return &ConnectionResult{OK: true, CheckedAt: s.now().UTC()}, nil
}

// Describe returns metadata for every order system secret. Values are never included.
func (s *CredentialService) Describe(ctx context.Context) ([]credential.Metadata, error) {
	keys := []string{
		credential.KeyOrderSystemToken,
		credential.KeyOrderSystemUsername,
		credential.KeyOrderSystemPassword,
	}
	out := make([]credential.Metadata, 0, len(keys))
	for _, k := range keys {
		md, err := s.store.Describe(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", k, err)
		}
		out = append(out, md)
	}
	return out, nil
}

func (s *CredentialService) notifyFailure(ctx context.Context, title string, cause error) {
	logger.LOr(ctx, s.logger).Error(title, zap.Error(cause))
	if _, err := s.notifier.Notify(ctx, notification.TypeCredential, notification.SeverityError, title, cause.Error()); err != nil {
		logger.LOr(ctx, s.logger).Error("Failed to record credential notification", zap.Error(err))
	}
}
