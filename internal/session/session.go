// Package session maps the signed session cookie of a request to a user id.
//
// A token is an HS256 JWT whose ID claim names a server-side session record.
// The signature keeps forged tokens out, the server-side record makes logout
// effective before the token itself expires.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Store maps opaque session tokens to user identities.
type Store interface {
	Create(ctx context.Context, userID int64) (string, error)
	Resolve(ctx context.Context, token string) (userID int64, ok bool, err error)
	Invalidate(ctx context.Context, token string) error
}

// Backend persists session records keyed by session id.
type Backend interface {
	Save(ctx context.Context, sid string, userID int64, ttl time.Duration) error
	Load(ctx context.Context, sid string) (userID int64, ok bool, err error)
	Delete(ctx context.Context, sid string) error
}

// Manager is the Store used by the application.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	backend Backend
	now     func() time.Time
}

// NewManager creates a Manager signing tokens with secret.
func NewManager(secret []byte, ttl time.Duration, backend Backend) *Manager {
	return &Manager{
		secret:  secret,
		ttl:     ttl,
		backend: backend,
		now:     time.Now,
	}
}

// Create starts a new session for userID and returns its signed token.
func (m *Manager) Create(ctx context.Context, userID int64) (string, error) {
	sid := uuid.New().String()
	now := m.now()

	claims := jwt.RegisteredClaims{
		ID:        sid,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := m.backend.Save(ctx, sid, userID, m.ttl); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

// Resolve returns the user bound to token. A malformed, forged, expired or
// revoked token resolves to ok == false without an error; err is reserved
// for backend failures.
func (m *Manager) Resolve(ctx context.Context, token string) (int64, bool, error) {
	if token == "" {
		return 0, false, nil
	}
	claims, err := m.parse(token, jwt.WithTimeFunc(m.now))
	if err != nil {
		return 0, false, nil
	}
	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, false, nil
	}

	userID, ok, err := m.backend.Load(ctx, claims.ID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok || userID != subject {
		return 0, false, nil
	}
	return userID, true, nil
}

// Invalidate revokes the session behind token. Unknown or unparsable
// tokens are ignored.
func (m *Manager) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := m.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	if err := m.backend.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (m *Manager) parse(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, errors.New("session token has no id")
	}
	return claims, nil
}
