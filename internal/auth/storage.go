// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	apperrors "signin/cli/internal/errors"
	"signin/cli/internal/kv"
)

// Persisted keys. All six are written by Save and removed by Clear.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyTokenType    = "token_type"
	KeyExpiresIn    = "expires_in"
	KeyLoginTime    = "login_time"
	KeyIsLoggedIn   = "is_logged_in"
)

// DefaultTokenType is reported when no token type was stored.
const DefaultTokenType = "Bearer"

var allKeys = []string{KeyAccessToken, KeyRefreshToken, KeyTokenType, KeyExpiresIn, KeyLoginTime, KeyIsLoggedIn}

// TokenStore persists session tokens in a kv.Store and computes expiry.
// Reads never fail: a backend read error is logged and treated as absent.
type TokenStore struct {
	kv  kv.Store
	now func() time.Time
	log zerolog.Logger
}

// StoreOption customises a TokenStore.
type StoreOption func(*TokenStore)

// WithClock replaces time.Now, e.g. for expiry tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *TokenStore) { s.now = now }
}

// NewTokenStore wraps store. A nil store is an Initialization error.
func NewTokenStore(store kv.Store, log zerolog.Logger, opts ...StoreOption) (*TokenStore, error) {
	if store == nil {
		return nil, apperrors.New(apperrors.Initialization, "token store has no backing storage")
	}
	s := &TokenStore{kv: store, now: time.Now, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save records a fresh session: issue time is now and the logged-in flag is set.
func (s *TokenStore) Save(ctx context.Context, accessToken, refreshToken, tokenType string, expiresIn int64) error {
	return s.kv.Set(ctx, map[string]string{
		KeyAccessToken:  accessToken,
		KeyRefreshToken: refreshToken,
		KeyTokenType:    tokenType,
		KeyExpiresIn:    strconv.FormatInt(expiresIn, 10),
		KeyLoginTime:    strconv.FormatInt(s.now().UnixMilli(), 10),
		KeyIsLoggedIn:   strconv.FormatBool(true),
	})
}

// UpdatePartial replaces the access token and expiry and restarts the expiry
// window. The refresh token and logged-in flag are left alone.
func (s *TokenStore) UpdatePartial(ctx context.Context, accessToken string, expiresIn int64) error {
	return s.kv.Set(ctx, map[string]string{
		KeyAccessToken: accessToken,
		KeyExpiresIn:   strconv.FormatInt(expiresIn, 10),
		KeyLoginTime:   strconv.FormatInt(s.now().UnixMilli(), 10),
	})
}

// Clear erases every persisted field.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, allKeys)
}

// Record reads all fields in one backend call.
func (s *TokenStore) Record(ctx context.Context) Record {
	vals, err := s.kv.Get(ctx, allKeys)
	if err != nil {
		s.log.Warn().Err(err).Msg("token store read failed; treating session as absent")
		return Record{}
	}
	r := Record{
		AccessToken:  vals[KeyAccessToken],
		RefreshToken: vals[KeyRefreshToken],
		TokenType:    vals[KeyTokenType],
		ExpiresIn:    s.parseInt(vals, KeyExpiresIn),
		LoginTime:    s.parseInt(vals, KeyLoginTime),
	}
	r.LoggedIn, _ = strconv.ParseBool(vals[KeyIsLoggedIn])
	return r
}

func (s *TokenStore) parseInt(vals map[string]string, key string) int64 {
	raw, ok := vals[key]
	if !ok || raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.log.Warn().Str("key", key).Msg("stored value is not an integer; using 0")
		return 0
	}
	return n
}

func (s *TokenStore) AccessToken(ctx context.Context) (string, bool) {
	r := s.Record(ctx)
	return r.AccessToken, r.AccessToken != ""
}

func (s *TokenStore) RefreshToken(ctx context.Context) (string, bool) {
	r := s.Record(ctx)
	return r.RefreshToken, r.RefreshToken != ""
}

// TokenType returns the stored type, or DefaultTokenType.
func (s *TokenStore) TokenType(ctx context.Context) string {
	return s.Record(ctx).Type()
}

// AuthorizationHeaderValue returns "{type} {token}" only when a token is present.
func (s *TokenStore) AuthorizationHeaderValue(ctx context.Context) (string, bool) {
	return s.Record(ctx).AuthorizationHeaderValue()
}

func (s *TokenStore) IsLoggedIn(ctx context.Context) bool {
	return s.Record(ctx).IsLoggedIn()
}

func (s *TokenStore) IsExpired(ctx context.Context) bool {
	return s.Record(ctx).IsExpired(s.now())
}

func (s *TokenStore) RemainingMinutes(ctx context.Context) int64 {
	return s.Record(ctx).RemainingMinutes(s.now())
}

// Ping checks the backing store.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Close releases the backing store.
func (s *TokenStore) Close() error {
	return s.kv.Close()
}

// Now returns the store's clock reading.
func (s *TokenStore) Now() time.Time { return s.now() }
