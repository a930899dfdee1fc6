// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"signin/cli/internal/backend"
	"signin/cli/internal/httperrors"
	"signin/cli/internal/result"
)

// Terminal messages produced by the service itself.
const (
	MsgNoRefreshToken        = "No refresh token available"
	MsgRefreshNotImplemented = "Token refresh not implemented"
	MsgSessionNotSaved       = "Login succeeded but the session could not be saved. Please try again."
)

// Service centralizes session operations against the backend and the token store.
// It exclusively owns its TokenStore.
type Service struct {
	be     backend.API
	tokens *TokenStore
	log    zerolog.Logger
}

// NewService constructs a session Service.
func NewService(be backend.API, tokens *TokenStore, log zerolog.Logger) *Service {
	return &Service{be: be, tokens: tokens, log: log}
}

// Tokens exposes the underlying store for read-only reporting.
func (s *Service) Tokens() *TokenStore { return s.tokens }

// Login authenticates in the background. The returned channel already holds
// Loading; exactly one terminal Result follows and then the channel is closed.
// The channel is buffered, so a caller that stops reading does not leak the
// worker goroutine. No retries are attempted.
func (s *Service) Login(ctx context.Context, identifier, secret string) <-chan result.Result[backend.LoginResponse] {
	ch := make(chan result.Result[backend.LoginResponse], 2)
	ch <- result.Loading[backend.LoginResponse]()
	go func() {
		defer close(ch)
		ch <- s.login(ctx, identifier, secret)
	}()
	return ch
}

func (s *Service) login(ctx context.Context, identifier, secret string) result.Result[backend.LoginResponse] {
	resp, err := s.be.Login(ctx, backend.LoginRequest{PhoneNumber: identifier, Password: secret})
	if err != nil {
		var se *backend.StatusError
		if errors.As(err, &se) {
			c := httperrors.ClassifyResponse(se.StatusCode, se.Body)
			s.log.Debug().Int("status", se.StatusCode).Str("code", c.Code).Msg("login rejected")
			return result.Error[backend.LoginResponse](c.Message)
		}
		c := httperrors.ClassifyTransport(err)
		s.log.Debug().Err(err).Bool("network", c.IsNetworkIssue).Msg("login transport failure")
		return result.Error[backend.LoginResponse](c.Message)
	}
	if resp == nil || resp.AccessToken == "" {
		s.log.Debug().Msg("login response carried no access token")
		return result.Error[backend.LoginResponse](httperrors.ClassifyResponse(0, nil).Message)
	}

	if err := s.tokens.Save(ctx, resp.AccessToken, resp.RefreshToken, resp.TokenType, resp.ExpiresIn); err != nil {
		s.log.Error().Err(err).Msg("persist session")
		return result.Error[backend.LoginResponse](MsgSessionNotSaved)
	}
	s.log.Debug().Int64("expires_in", resp.ExpiresIn).Msg("session saved")
	return result.Success(*resp)
}

// Logout clears the local session. It always succeeds; a storage failure is
// logged and otherwise ignored since there is no server-side session to revoke.
func (s *Service) Logout(ctx context.Context) result.Result[struct{}] {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("clear session")
	}
	return result.Success(struct{}{})
}

// IsLoggedIn is the single authoritative validity check: a token is present,
// the flag is set, and the token has not expired.
func (s *Service) IsLoggedIn(ctx context.Context) bool {
	r := s.tokens.Record(ctx)
	return r.IsLoggedIn() && !r.IsExpired(s.tokens.Now())
}

// AccessToken returns the token only while the session is valid.
func (s *Service) AccessToken(ctx context.Context) (string, bool) {
	r := s.tokens.Record(ctx)
	if !r.IsLoggedIn() || r.IsExpired(s.tokens.Now()) {
		return "", false
	}
	return r.AccessToken, true
}

// AuthorizationHeader returns "{type} {token}" only while the session is valid.
func (s *Service) AuthorizationHeader(ctx context.Context) (string, bool) {
	r := s.tokens.Record(ctx)
	if !r.IsLoggedIn() || r.IsExpired(s.tokens.Now()) {
		return "", false
	}
	return r.AuthorizationHeaderValue()
}

// RefreshToken never calls the network: the refresh endpoint is not supported.
func (s *Service) RefreshToken(ctx context.Context) result.Result[backend.LoginResponse] {
	if _, ok := s.tokens.RefreshToken(ctx); !ok {
		return result.Error[backend.LoginResponse](MsgNoRefreshToken)
	}
	return result.Error[backend.LoginResponse](MsgRefreshNotImplemented)
}

// Status summarizes the stored session. JWT claims are included when the
// access token is a parseable JWT.
func (s *Service) Status(ctx context.Context) Status {
	r := s.tokens.Record(ctx)
	st := statusFrom(r, s.tokens.Now())
	if r.AccessToken != "" {
		if claims, err := Claims(r.AccessToken); err == nil {
			st.Claims = claims
		}
	}
	return st
}
