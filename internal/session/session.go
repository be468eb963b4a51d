// Package session owns the bearer token used to talk to the club API: where
// it is persisted, whether it is still usable, and what happens when the
// server rejects it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/five82/plantel/internal/fault"
)

// TokenKey is the store key of the bearer token.
const TokenKey = "auth_token"

// Session hands out the stored token and clears it when it stops working.
type Session struct {
	store Store
	now   func() time.Time
	log   *slog.Logger

	mu        sync.Mutex
	onExpired []func(reason error)
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New wraps store.
func New(store Store, opts ...Option) *Session {
	s := &Session{store: store, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the stored token. It fails with fault.ErrNoToken when no
// token is stored or when the token is a JWT whose exp claim has passed.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, ok, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	if !ok || strings.TrimSpace(token) == "" {
		return "", fault.ErrNoToken
	}
	if exp, ok := Expiry(token); ok && !s.now().Before(exp) {
		return "", fmt.Errorf("token expired at %s: %w", exp.Format(time.RFC3339), fault.ErrNoToken)
	}
	return token, nil
}

// LoggedIn reports whether a usable token is stored.
func (s *Session) LoggedIn(ctx context.Context) bool {
	_, err := s.Token(ctx)
	return err == nil
}

// Login stores token. Expired JWTs are rejected.
func (s *Session) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return fault.Invalid("token", "required")
	}
	if exp, ok := Expiry(token); ok && !s.now().Before(exp) {
		return fault.Invalid("token", "expired at "+exp.Format(time.RFC3339))
	}
	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.log.Info("session token stored")
	return nil
}

// Logout removes the stored token.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	s.log.Info("session token removed")
	return nil
}

// OnExpired registers a hook run by Invalidate. Hooks run on the caller's
// goroutine and must not block.
func (s *Session) OnExpired(fn func(reason error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = append(s.onExpired, fn)
}

// Invalidate handles an auth failure reported by the server: the stored token
// is removed and every OnExpired hook is told so the user can sign in again.
// A missing token is not removed again but still reported.
func (s *Session) Invalidate(ctx context.Context, reason error) {
	if !errors.Is(reason, fault.ErrNoToken) {
		if err := s.store.Delete(ctx, TokenKey); err != nil {
			s.log.Warn("clear rejected token", "error", err)
		}
	}
	s.log.Warn("session invalidated", "reason", reason)

	s.mu.Lock()
	hooks := append([]func(error){}, s.onExpired...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(reason)
	}
}

// Expiry reads the exp claim of a JWT without verifying its signature; the
// server is the one that verifies. ok is false for opaque tokens and for
// JWTs without exp.
func Expiry(token string) (exp time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
