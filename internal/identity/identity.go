// Package identity exposes the signed-in state and credential the push
// channel and cloud store calls are authorized with. The actual sign-in
// flow (obtaining the token) belongs to the external identity provider;
// this package only stores the result and answers two questions:
// is the user signed in, and what credential do we attach.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/repositories/prefs"
	"github.com/golang-jwt/jwt/v5"
)

// Provider answers the two questions the protocol layers ask.
type Provider interface {
	// IsSignedIn reports whether a usable session exists.
	IsSignedIn(ctx context.Context) bool

	// Credential returns the auth token, or common.ErrNoCredential.
	Credential(ctx context.Context) (string, error)

	// Username returns the signed-in account name, "" when signed out.
	Username(ctx context.Context) string
}

// Session is a Provider persisted in the prefs store. Tokens are JWTs
// issued by the identity provider; expiry is read from the token's own
// claims without signature verification, since the signing key lives with
// the provider.
type Session struct {
	prefs prefs.Repository
	now   func() time.Time
}

func NewSession(prefs prefs.Repository) *Session {
	return &Session{prefs: prefs, now: time.Now}
}

// SignIn stores the account name and credential.
func (s *Session) SignIn(ctx context.Context, username, token string) error {
	if username == "" || token == "" {
		return common.ErrInvalidToken
	}
	if err := s.prefs.Set(ctx, prefs.KeySessionUsername, username); err != nil {
		return err
	}
	return s.prefs.Set(ctx, prefs.KeySessionToken, token)
}

// SignOut drops the session.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.prefs.Delete(ctx, prefs.KeySessionToken); err != nil {
		return err
	}
	return s.prefs.Delete(ctx, prefs.KeySessionUsername)
}

func (s *Session) IsSignedIn(ctx context.Context) bool {
	_, err := s.Credential(ctx)
	return err == nil
}

func (s *Session) Credential(ctx context.Context) (string, error) {
	token, err := s.prefs.Get(ctx, prefs.KeySessionToken)
	if errors.Is(err, common.ErrorNotFound) {
		return "", common.ErrNoCredential
	}
	if err != nil {
		return "", err
	}
	if err := s.checkExpiry(token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Session) Username(ctx context.Context) string {
	name, err := s.prefs.Get(ctx, prefs.KeySessionUsername)
	if err != nil {
		return ""
	}
	return name
}

// checkExpiry parses the JWT claims and rejects an expired token. Opaque
// (non-JWT) tokens are accepted as-is.
func (s *Session) checkExpiry(token string) error {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Not a JWT; nothing to check locally.
		return nil //nolint:nilerr
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if exp != nil && exp.Before(s.now()) {
		return common.ErrTokenExpired
	}
	return nil
}
