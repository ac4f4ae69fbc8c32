package services

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"finboard/internal/config"
)

// AuthService validates the single dashboard credential pair and issues
// bearer session tokens kept in memory. Sessions expire after the
// configured TTL or on logout.
type AuthService struct {
	cfg    config.AuthConfig
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]time.Time

	now func() time.Time
}

// NewAuthService creates an auth service.
func NewAuthService(cfg config.AuthConfig, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "auth_service")),
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Login checks the credentials and returns a new session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	if !userOK || !passOK || s.cfg.Password == "" {
		s.logger.WarnContext(ctx, "login rejected", slog.String("username", username))
		return "", ErrInvalidCredentials
	}

	token := uuid.New().String()

	s.mu.Lock()
	s.sessions[token] = s.now().Add(s.cfg.SessionTTL)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "login accepted", slog.String("username", username))
	return token, nil
}

// Validate reports whether token belongs to a live session. Expired
// sessions are pruned on sight.
func (s *AuthService) Validate(token string) error {
	if token == "" {
		return ErrUnauthorized
	}

	s.mu.RLock()
	expiry, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return ErrUnauthorized
	}
	if s.now().After(expiry) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return ErrSessionExpired
	}
	return nil
}

// Logout revokes the session token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session revoked")
}

// ActiveSessions returns the number of live sessions.
func (s *AuthService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	live := 0
	now := s.now()
	for _, expiry := range s.sessions {
		if now.Before(expiry) {
			live++
		}
	}
	return live
}
