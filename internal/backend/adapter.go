// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the
// remote credential endpoint. It defines the API contract for the password login and
// the HTTP implementation behind it.
package backend

import (
	"context"
	"fmt"
)

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	// Login exchanges credentials for a session. A non-2xx reply is returned
	// as *StatusError; any other error means no response was received.
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

// LoginRequest is the JSON body sent to the token endpoint.
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// LoginResponse is the session issued by a successful login.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// StatusError reports that the server answered with a status the caller
// did not accept. Body holds the raw response body, possibly empty.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}
