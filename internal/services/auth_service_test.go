package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/config"
)

func newTestAuth() *AuthService {
	return NewAuthService(config.AuthConfig{
		Username:   "admin",
		Password:   "secret",
		SessionTTL: time.Hour,
	}, quietLogger())
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestAuth()

	token, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NoError(t, svc.Validate(token))
	assert.Equal(t, 1, svc.ActiveSessions())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuth()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"wrong username", "root", "secret"},
		{"both wrong", "root", "nope"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLoginRejectsWhenNoPasswordConfigured(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{Username: "admin", SessionTTL: time.Hour}, quietLogger())

	_, err := svc.Login(context.Background(), "admin", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateUnknownToken(t *testing.T) {
	svc := newTestAuth()

	assert.ErrorIs(t, svc.Validate(""), ErrUnauthorized)
	assert.ErrorIs(t, svc.Validate("bogus"), ErrUnauthorized)
}

func TestValidateExpiredSession(t *testing.T) {
	svc := newTestAuth()

	token, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.ErrorIs(t, svc.Validate(token), ErrSessionExpired)

	// expired sessions are pruned
	assert.ErrorIs(t, svc.Validate(token), ErrUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newTestAuth()

	token, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	svc.Logout(context.Background(), token)
	assert.ErrorIs(t, svc.Validate(token), ErrUnauthorized)
}
