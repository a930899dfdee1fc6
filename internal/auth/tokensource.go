// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

// ErrNotLoggedIn is returned by the token source when no valid session exists.
var ErrNotLoggedIn = errors.New("not logged in")

type sessionTokenSource struct {
	ctx context.Context
	s   *Service
}

// Token returns the stored session as an oauth2 token.
func (ts sessionTokenSource) Token() (*oauth2.Token, error) {
	r := ts.s.tokens.Record(ts.ctx)
	if !r.IsLoggedIn() || r.IsExpired(ts.s.tokens.Now()) {
		return nil, ErrNotLoggedIn
	}
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.Type(),
		RefreshToken: r.RefreshToken,
		Expiry:       r.ExpiresAt(),
	}, nil
}

// TokenSource exposes the stored session to oauth2-aware clients.
func (s *Service) TokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, sessionTokenSource{ctx: ctx, s: s})
}

// HTTPClient returns a client that sends the session's Authorization header
// on every request. base supplies the transport, timeout, redirect policy and
// cookie jar, and may be nil.
//
// The header is formatted like Record.AuthorizationHeaderValue, with the
// stored token type verbatim; oauth2.Token.SetAuthHeader would rewrite
// "bearer" to "Bearer".
func (s *Service) HTTPClient(ctx context.Context, base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	next := base.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	return &http.Client{
		Transport:     &sessionTransport{src: s.TokenSource(ctx), next: next},
		Timeout:       base.Timeout,
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
	}
}

// sessionTransport sets the Authorization header from a token source.
type sessionTransport struct {
	src  oauth2.TokenSource
	next http.RoundTripper
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.src.Token()
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}
	header, ok := Record{AccessToken: tok.AccessToken, TokenType: tok.TokenType}.AuthorizationHeaderValue()
	if !ok {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, ErrNotLoggedIn
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", header)
	return t.next.RoundTrip(req)
}
