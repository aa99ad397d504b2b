package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retailops/backend/internal/domain/credential"
	"github.com/retailops/backend/internal/domain/integration"
	"github.com/retailops/backend/internal/domain/notification"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCredentialFixture(cfg config.OrderSystemConfig) (*CredentialService, *MockOrderSystemClient, *memoryStore, *recordingNotifier) {
	client := new(MockOrderSystemClient)
	store := newMemoryStore()
	notes := &recordingNotifier{}
	svc := NewCredentialService(client, store, cfg, notes, nil)
	return svc, client, store, notes
}

func TestCredentialService_Refresh(t *testing.T) {
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

	t.Run("prefers upstream lifetime", func(t *testing.T) {
		svc, client, store, _ := newCredentialFixture(config.OrderSystemConfig{Username: "cfg-user", Password: "cfg-pass", TokenLifetime: time.Hour})
		svc.now = func() time.Time { return now }
		store.now = svc.now

		client.On("Login", mock.Anything, "cfg-user", "cfg-pass").Return(&integration.LoginResult{AccessToken: "t1", ExpiresIn: 2 * time.Hour}, nil)
		client.On("Ping", mock.Anything, "t1").Return(nil)

		res, err := svc.Refresh(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Verified)
		assert.True(t, res.FromUpstream)
		assert.Equal(t, now.Add(2*time.Hour), res.ExpiresAt)

		token, err := store.Get(context.Background(), credential.KeyOrderSystemToken)
		require.NoError(t, err)
		assert.Equal(t, "t1", token)
	})

	t.Run("falls back to configured lifetime", func(t *testing.T) {
		svc, client, _, _ := newCredentialFixture(config.OrderSystemConfig{Username: "u", Password: "p", TokenLifetime: 45 * time.Minute})
		svc.now = func() time.Time { return now }

		client.On("Login", mock.Anything, "u", "p").Return(&integration.LoginResult{AccessToken: "t2"}, nil)
		client.On("Ping", mock.Anything, "t2").Return(nil)

		res, err := svc.Refresh(context.Background())
		require.NoError(t, err)
		assert.False(t, res.FromUpstream)
		assert.Equal(t, now.Add(45*time.Minute), res.ExpiresAt)
	})

	t.Run("stored credentials win over config", func(t *testing.T) {
		svc, client, _, _ := newCredentialFixture(config.OrderSystemConfig{Username: "cfg-user", Password: "cfg-pass"})
		require.NoError(t, svc.UpdateCredentials(context.Background(), "db-user", "db-pass"))

		client.On("Login", mock.Anything, "db-user", "db-pass").Return(&integration.LoginResult{AccessToken: "t3"}, nil)
		client.On("Ping", mock.Anything, "t3").Return(nil)

		_, err := svc.Refresh(context.Background())
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("no credentials anywhere", func(t *testing.T) {
		svc, client, _, _ := newCredentialFixture(config.OrderSystemConfig{})
		_, err := svc.Refresh(context.Background())
		assert.ErrorIs(t, err, shared.ErrCredentialUnavailable)
		client.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed smoke test keeps token and reports unverified", func(t *testing.T) {
		svc, client, store, notes := newCredentialFixture(config.OrderSystemConfig{Username: "u", Password: "p"})
		client.On("Login", mock.Anything, "u", "p").Return(&integration.LoginResult{AccessToken: "t4"}, nil)
		client.On("Ping", mock.Anything, "t4").Return(errors.New("403 forbidden"))

		res, err := svc.Refresh(context.Background())
		require.Error(t, err)
		require.NotNil(t, res)
		assert.False(t, res.Verified)
		assert.Contains(t, res.VerifyError, "403")

		token, getErr := store.Get(context.Background(), credential.KeyOrderSystemToken)
		require.NoError(t, getErr)
		assert.Equal(t, "t4", token)

		sent := notes.all()
		require.Len(t, sent, 1)
		assert.Equal(t, notification.TypeCredential, sent[0].Type)
		assert.Equal(t, notification.SeverityError, sent[0].Severity)
	})

	t.Run("login failure", func(t *testing.T) {
		svc, client, store, notes := newCredentialFixture(config.OrderSystemConfig{Username: "u", Password: "p"})
		client.On("Login", mock.Anything, "u", "p").Return(nil, integration.ErrUpstreamAuthFailed)

		_, err := svc.Refresh(context.Background())
		assert.ErrorIs(t, err, integration.ErrUpstreamAuthFailed)
		_, getErr := store.Get(context.Background(), credential.KeyOrderSystemToken)
		assert.ErrorIs(t, getErr, credential.ErrCredentialUnavailable)
		assert.Len(t, notes.all(), 1)
	})
}

func TestCredentialService_TestConnection(t *testing.T) {
	t.Run("expired token is treated as missing", func(t *testing.T) {
		svc, client, store, _ := newCredentialFixture(config.OrderSystemConfig{})
		past := time.Now().Add(-time.Second)
		require.NoError(t, store.Put(context.Background(), credential.KeyOrderSystemToken, "old", &past))

		_, err := svc.TestConnection(context.Background())
		assert.ErrorIs(t, err, shared.ErrCredentialUnavailable)
		client.AssertNotCalled(t, "Ping", mock.Anything, mock.Anything)
	})

	t.Run("valid token", func(t *testing.T) {
		svc, client, store, _ := newCredentialFixture(config.OrderSystemConfig{})
		future := time.Now().Add(time.Hour)
		require.NoError(t, store.Put(context.Background(), credential.KeyOrderSystemToken, "good", &future))
		client.On("Ping", mock.Anything, "good").Return(nil)

		res, err := svc.TestConnection(context.Background())
		require.NoError(t, err)
		assert.True(t, res.OK)
	})
}

func TestCredentialService_UpdateCredentialsValidates(t *testing.T) {
	svc, _, _, _ := newCredentialFixture(config.OrderSystemConfig{})
	assert.ErrorIs(t, svc.UpdateCredentials(context.Background(), " ", "p"), shared.ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdateCredentials(context.Background(), "u", ""), shared.ErrInvalidInput)
}
