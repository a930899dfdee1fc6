// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "signin/cli/internal/errors"
	"signin/cli/internal/kv"
)

// fakeClock is a settable clock for expiry tests.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock { return &fakeClock{t: time.UnixMilli(1_700_000_000_000)} }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*TokenStore, *kv.Memory, *fakeClock) {
	t.Helper()
	mem := kv.NewMemory()
	clock := newFakeClock()
	s, err := NewTokenStore(mem, zerolog.Nop(), WithClock(clock.Now))
	require.NoError(t, err)
	return s, mem, clock
}

func TestNewTokenStore_NilBackend(t *testing.T) {
	_, err := NewTokenStore(nil, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Initialization))
}

func TestTokenStore_SaveWritesAllKeys(t *testing.T) {
	ctx := context.Background()
	s, mem, clock := newTestStore(t)

	require.NoError(t, s.Save(ctx, "a", "r", "Bearer", 3600))

	assert.Equal(t, []string{KeyAccessToken, KeyExpiresIn, KeyIsLoggedIn, KeyLoginTime, KeyRefreshToken, KeyTokenType}, mem.Keys())
	r := s.Record(ctx)
	assert.Equal(t, Record{
		AccessToken:  "a",
		RefreshToken: "r",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
		LoginTime:    clock.Now().UnixMilli(),
		LoggedIn:     true,
	}, r)
}

func TestTokenStore_AuthorizationHeaderRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	_, ok := s.AuthorizationHeaderValue(ctx)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, "a", "b", "Bearer", 3600))
	h, ok := s.AuthorizationHeaderValue(ctx)
	require.True(t, ok)
	assert.Equal(t, "Bearer a", h)
}

func TestTokenStore_TokenTypeDefaultsToBearer(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	assert.Equal(t, "Bearer", s.TokenType(ctx))
	require.NoError(t, s.Save(ctx, "a", "", "", 60))
	assert.Equal(t, "Bearer", s.TokenType(ctx))
	h, _ := s.AuthorizationHeaderValue(ctx)
	assert.Equal(t, "Bearer a", h)
}

func TestTokenStore_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newTestStore(t)
	require.NoError(t, s.Save(ctx, "a", "r", "Bearer", 3600))

	clock.Advance(3600 * time.Second)
	assert.False(t, s.IsExpired(ctx), "exact expiry instant is still valid")
	assert.Equal(t, int64(0), s.RemainingMinutes(ctx))

	clock.Advance(time.Millisecond)
	assert.True(t, s.IsExpired(ctx))
	assert.Equal(t, int64(0), s.RemainingMinutes(ctx))
}

func TestTokenStore_RemainingMinutes(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newTestStore(t)

	assert.Equal(t, int64(0), s.RemainingMinutes(ctx), "logged out")

	require.NoError(t, s.Save(ctx, "a", "r", "Bearer", 3600))
	assert.Equal(t, int64(60), s.RemainingMinutes(ctx))

	clock.Advance(90 * time.Second)
	assert.Equal(t, int64(58), s.RemainingMinutes(ctx), "58.5 minutes floors to 58")
}

func TestTokenStore_IsLoggedInNeedsFlagAndToken(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestStore(t)

	assert.False(t, s.IsLoggedIn(ctx))
	assert.True(t, s.IsExpired(ctx), "not logged in counts as expired")

	require.NoError(t, s.Save(ctx, "a", "r", "Bearer", 3600))
	assert.True(t, s.IsLoggedIn(ctx))

	// Partially cleared store: flag without token.
	require.NoError(t, mem.Delete(ctx, []string{KeyAccessToken}))
	assert.False(t, s.IsLoggedIn(ctx))

	// Token without flag.
	require.NoError(t, mem.Set(ctx, map[string]string{KeyAccessToken: "a", KeyIsLoggedIn: "false"}))
	assert.False(t, s.IsLoggedIn(ctx))
}

func TestTokenStore_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newTestStore(t)
	require.NoError(t, s.Save(ctx, "a", "r", "Bearer", 60))
	before := s.Record(ctx)

	clock.Advance(2 * time.Minute)
	require.True(t, s.IsExpired(ctx))

	require.NoError(t, s.UpdatePartial(ctx, "a2", 120))
	after := s.Record(ctx)

	assert.Equal(t, "a2", after.AccessToken)
	assert.Equal(t, int64(120), after.ExpiresIn)
	assert.Equal(t, before.RefreshToken, after.RefreshToken)
	assert.Equal(t, before.LoggedIn, after.LoggedIn)
	assert.Equal(t, before.TokenType, after.TokenType)
	assert.Equal(t, clock.Now().UnixMilli(), after.LoginTime)
	assert.Greater(t, after.LoginTime, before.LoginTime)
	assert.False(t, s.IsExpired(ctx))
}

func TestTokenStore_Clear(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestStore(t)
	require.NoError(t, s.Save(ctx, "a", "r", "Bearer", 3600))

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, mem.Keys())
	assert.False(t, s.IsLoggedIn(ctx))
	_, ok := s.AccessToken(ctx)
	assert.False(t, ok)
	_, ok = s.AuthorizationHeaderValue(ctx)
	assert.False(t, ok)
}

// brokenStore fails every operation.
type brokenStore struct{ kv.Memory }

var errBroken = errors.New("disk on fire")

func (*brokenStore) Get(context.Context, []string) (map[string]string, error) {
	return nil, errBroken
}

func (*brokenStore) Set(context.Context, map[string]string) error { return errBroken }

func TestTokenStore_ReadFailureIsAbsent(t *testing.T) {
	ctx := context.Background()
	s, err := NewTokenStore(&brokenStore{}, zerolog.Nop())
	require.NoError(t, err)

	assert.False(t, s.IsLoggedIn(ctx))
	assert.True(t, s.IsExpired(ctx))
	_, ok := s.AccessToken(ctx)
	assert.False(t, ok)
	assert.Equal(t, "Bearer", s.TokenType(ctx))
	assert.ErrorIs(t, s.Save(ctx, "a", "r", "Bearer", 1), errBroken)
}

func TestTokenStore_GarbageNumbersReadAsZero(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestStore(t)
	require.NoError(t, mem.Set(ctx, map[string]string{
		KeyAccessToken: "a",
		KeyIsLoggedIn:  "true",
		KeyExpiresIn:   "soon",
		KeyLoginTime:   "yesterday",
	}))

	r := s.Record(ctx)
	assert.Equal(t, int64(0), r.ExpiresIn)
	assert.Equal(t, int64(0), r.LoginTime)
	assert.True(t, s.IsExpired(ctx))
}
