// Package session issues and resolves admin session tokens.
package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"nigaran-engine/internal/apperr"
)

const (
	DefaultTTL = 12 * time.Hour
	CookieName = "admin_session"
	tokenBytes = 32
)

var ErrNoSession = errors.New("session not found")

type Session struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

type Store interface {
	Save(ctx context.Context, s Session) error
	// Load returns ErrNoSession for unknown or expired tokens.
	Load(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// Credentials is the single admin identity.
type Credentials struct {
	Email    string
	Password string
}

type Gate struct {
	store Store
	creds Credentials
	ttl   time.Duration
	now   func() time.Time
	log   *zap.Logger
}

func NewGate(store Store, creds Credentials, ttl time.Duration, logger *zap.Logger) *Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		store: store,
		creds: creds,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
		log:   logger.Named("session"),
	}
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Login checks the credential and issues a fresh session. A wrong
// credential is (Session{}, false, nil); err is reserved for store failures.
func (g *Gate) Login(ctx context.Context, identifier, secret string) (Session, bool, error) {
	if g.creds.Password == "" {
		g.log.Warn("login refused: no admin password configured")
		return Session{}, false, nil
	}
	id := strings.ToLower(strings.TrimSpace(identifier))
	want := strings.ToLower(strings.TrimSpace(g.creds.Email))
	idOK := equal(id, want)
	pwOK := equal(secret, g.creds.Password)
	if !idOK || !pwOK {
		g.log.Info("login rejected", zap.String("identifier", id))
		return Session{}, false, nil
	}

	token, err := randomToken(tokenBytes)
	if err != nil {
		return Session{}, false, apperr.New(apperr.KindPersistence, "issue session token", err)
	}
	now := g.now()
	s := Session{Token: token, Subject: want, IssuedAt: now, ExpiresAt: now.Add(g.ttl)}
	if err := g.store.Save(ctx, s); err != nil {
		return Session{}, false, apperr.Persistence("save session", err)
	}
	g.log.Info("login", zap.String("subject", s.Subject), zap.Time("expires_at", s.ExpiresAt))
	return s, true, nil
}

// Logout forgets token. Unknown tokens are ignored.
func (g *Gate) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := g.store.Delete(ctx, token); err != nil {
		return apperr.Persistence("delete session", err)
	}
	return nil
}

// Resolve returns the live session for token or an unauthorized error.
func (g *Gate) Resolve(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, apperr.Unauthorized("Authentication required")
	}
	s, err := g.store.Load(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return Session{}, apperr.Unauthorized("Session expired or invalid")
	}
	if err != nil {
		return Session{}, apperr.Persistence("load session", err)
	}
	if s.Expired(g.now()) {
		_ = g.store.Delete(ctx, token)
		return Session{}, apperr.Unauthorized("Session expired or invalid")
	}
	return s, nil
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
