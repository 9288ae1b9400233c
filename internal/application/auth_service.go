package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService gates the whole application behind a single shared access
// password. A correct password yields a bearer token; sessions live in memory
// and expire after the configured TTL.
type AuthService struct {
	passwordHash   string
	verifyPassword PasswordVerifier
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger

	mu       sync.Mutex
	sessions map[string]time.Time
}

// NewAuthService constructs an AuthService. passwordHash must be a PHC
// formatted argon2id hash, typically produced by HashAccessPassword at startup.
func NewAuthService(passwordHash string, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		passwordHash:   passwordHash,
		verifyPassword: VerifyAccessPassword,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
		sessions:       make(map[string]time.Time),
	}
}

// Login verifies the access password and issues a session token.
func (s *AuthService) Login(ctx context.Context, password string) (Session, error) {
	if s == nil || s.passwordHash == "" {
		return Session{}, fmt.Errorf("access password not configured")
	}

	logger := serviceLogger(ctx, s.logger, "auth", "login")
	if password == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := s.verifyPassword(s.passwordHash, password); err != nil {
		logger.WarnContext(ctx, "login rejected", "kind", ErrorKind(ErrInvalidCredentials))
		return Session{}, ErrInvalidCredentials
	}

	session := Session{
		Token:     s.tokenGenerator(),
		ExpiresAt: s.now().Add(s.sessionTTL),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[session.Token] = session.ExpiresAt
	s.mu.Unlock()

	logger.InfoContext(ctx, "session issued", "expires_at", session.ExpiresAt)
	return session, nil
}

// ValidateToken reports whether the token identifies a live session. Expired
// and unknown tokens both return ErrUnauthorized.
func (s *AuthService) ValidateToken(ctx context.Context, token string) error {
	if s == nil {
		return ErrUnauthorized
	}
	if token == "" {
		return ErrUnauthorized
	}

	s.mu.Lock()
	expires, ok := s.sessions[token]
	if ok && !expires.After(s.now()) {
		delete(s.sessions, token)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// Logout revokes the session. Revoking an unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if s == nil || token == "" {
		return
	}
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// pruneLocked drops expired sessions. Caller holds mu.
func (s *AuthService) pruneLocked() {
	reference := s.now()
	for token, expires := range s.sessions {
		if !expires.After(reference) {
			delete(s.sessions, token)
		}
	}
}
