package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nigaran-engine/internal/apperr"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newGate(t *testing.T) (*Gate, *MemoryStore, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = c.now
	g := NewGate(store, Credentials{Email: "admin@nigaransolar.com", Password: "s3cret-pass"}, time.Hour, nil)
	g.now = c.now
	return g, store, c
}

func TestLogin_IssuesToken(t *testing.T) {
	g, _, c := newGate(t)
	ctx := context.Background()

	s, ok, err := g.Login(ctx, " Admin@NigaranSolar.com ", "s3cret-pass")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, s.Token, 64)
	assert.Equal(t, c.t.Add(time.Hour), s.ExpiresAt)

	got, err := g.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@nigaransolar.com", got.Subject)
}

func TestLogin_WrongCredential(t *testing.T) {
	g, store, _ := newGate(t)
	ctx := context.Background()

	for _, tc := range []struct{ id, pw string }{
		{"admin@nigaransolar.com", "wrong"},
		{"someone@else.com", "s3cret-pass"},
		{"", ""},
	} {
		_, ok, err := g.Login(ctx, tc.id, tc.pw)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Zero(t, store.Len())
}

func TestLogin_NoPasswordConfigured(t *testing.T) {
	g := NewGate(NewMemoryStore(), Credentials{Email: "admin@x.com"}, 0, nil)
	_, ok, err := g.Login(context.Background(), "admin@x.com", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokensAreDistinct(t *testing.T) {
	g, _, _ := newGate(t)
	a, _, _ := g.Login(context.Background(), "admin@nigaransolar.com", "s3cret-pass")
	b, _, _ := g.Login(context.Background(), "admin@nigaransolar.com", "s3cret-pass")
	assert.NotEqual(t, a.Token, b.Token)
}

func TestResolve_ExpiredAndUnknown(t *testing.T) {
	g, _, c := newGate(t)
	ctx := context.Background()

	_, err := g.Resolve(ctx, "")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, err = g.Resolve(ctx, "deadbeef")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	s, _, _ := g.Login(ctx, "admin@nigaransolar.com", "s3cret-pass")
	c.t = c.t.Add(time.Hour)
	_, err = g.Resolve(ctx, s.Token)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestLogout(t *testing.T) {
	g, _, _ := newGate(t)
	ctx := context.Background()

	s, _, _ := g.Login(ctx, "admin@nigaransolar.com", "s3cret-pass")
	require.NoError(t, g.Logout(ctx, s.Token))
	require.NoError(t, g.Logout(ctx, s.Token))
	require.NoError(t, g.Logout(ctx, ""))

	_, err := g.Resolve(ctx, s.Token)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestMemoryStore_Sweep(t *testing.T) {
	g, store, c := newGate(t)
	ctx := context.Background()

	_, _, _ = g.Login(ctx, "admin@nigaransolar.com", "s3cret-pass")
	c.t = c.t.Add(30 * time.Minute)
	_, _, _ = g.Login(ctx, "admin@nigaransolar.com", "s3cret-pass")
	c.t = c.t.Add(45 * time.Minute)

	assert.Equal(t, 1, store.Sweep(ctx))
	assert.Equal(t, 1, store.Len())
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := NewContext(context.Background(), Session{Subject: "admin"})
	s, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "admin", s.Subject)
}

// Runs against a real server when NIGARAN_TEST_REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("NIGARAN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("NIGARAN_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	r := NewRedisStore(RedisOptions{Addr: addr})
	defer r.Close()
	require.NoError(t, r.Ping(ctx))

	s := Session{Token: "test-token", Subject: "admin", ExpiresAt: time.Now().Add(time.Minute).UTC()}
	require.NoError(t, r.Save(ctx, s))

	got, err := r.Load(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.Subject, got.Subject)

	require.NoError(t, r.Delete(ctx, s.Token))
	_, err = r.Load(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}
