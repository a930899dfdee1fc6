// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth owns the session lifecycle: the token store with its expiry
// arithmetic, and the session service that logs in, logs out and answers
// "is this session still valid".
package auth

import (
	"time"
)

// Record is one snapshot of the persisted session.
// LoginTime is the issue instant in Unix milliseconds.
type Record struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
	LoginTime    int64
	LoggedIn     bool
}

// IsLoggedIn requires both the flag and a token; a partially cleared store
// is not a session.
func (r Record) IsLoggedIn() bool {
	return r.LoggedIn && r.AccessToken != ""
}

// Type returns the token type, defaulting to Bearer.
func (r Record) Type() string {
	if r.TokenType == "" {
		return DefaultTokenType
	}
	return r.TokenType
}

func (r Record) AuthorizationHeaderValue() (string, bool) {
	if r.AccessToken == "" {
		return "", false
	}
	return r.Type() + " " + r.AccessToken, true
}

// elapsedMillis is the time since issue at now.
func (r Record) elapsedMillis(now time.Time) int64 {
	return now.UnixMilli() - r.LoginTime
}

// IsExpired reports true when not logged in or when more than ExpiresIn
// seconds have elapsed. The exact expiry millisecond is still valid.
func (r Record) IsExpired(now time.Time) bool {
	if !r.IsLoggedIn() {
		return true
	}
	return r.elapsedMillis(now) > r.ExpiresIn*1000
}

// RemainingMinutes is whole minutes left, or 0 when logged out or expired.
func (r Record) RemainingMinutes(now time.Time) int64 {
	if r.IsExpired(now) {
		return 0
	}
	return (r.ExpiresIn*1000 - r.elapsedMillis(now)) / 60000
}

// IssuedAt returns the login time, or the zero time when unknown.
func (r Record) IssuedAt() time.Time {
	if r.LoginTime == 0 {
		return time.Time{}
	}
	return time.UnixMilli(r.LoginTime)
}

// ExpiresAt returns IssuedAt plus ExpiresIn, or the zero time when unknown.
func (r Record) ExpiresAt() time.Time {
	if r.LoginTime == 0 {
		return time.Time{}
	}
	return r.IssuedAt().Add(time.Duration(r.ExpiresIn) * time.Second)
}

// Status is the session summary printed by `signin status`.
type Status struct {
	LoggedIn         bool           `json:"logged_in"`
	TokenStatus      string         `json:"token_status"`
	TokenType        string         `json:"token_type,omitempty"`
	LoginTime        *time.Time     `json:"login_time,omitempty"`
	ExpiresAt        *time.Time     `json:"expires_at,omitempty"`
	RemainingMinutes int64          `json:"remaining_minutes"`
	HasRefreshToken  bool           `json:"has_refresh_token"`
	Claims           map[string]any `json:"claims,omitempty"`
}

// Token status labels.
const (
	TokenValid   = "Valid"
	TokenExpired = "Expired"
	TokenNone    = "None"
)

// statusFrom builds a Status from a snapshot taken at now.
func statusFrom(r Record, now time.Time) Status {
	st := Status{
		LoggedIn:        r.IsLoggedIn() && !r.IsExpired(now),
		TokenStatus:     TokenNone,
		HasRefreshToken: r.RefreshToken != "",
	}
	if !r.IsLoggedIn() {
		return st
	}
	st.TokenType = r.Type()
	st.RemainingMinutes = r.RemainingMinutes(now)
	if r.IsExpired(now) {
		st.TokenStatus = TokenExpired
	} else {
		st.TokenStatus = TokenValid
	}
	if r.LoginTime != 0 {
		issued, expires := r.IssuedAt(), r.ExpiresAt()
		st.LoginTime, st.ExpiresAt = &issued, &expires
	}
	return st
}
