// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signin/cli/internal/config"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *HTTP {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/api/oauth/token", handler).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewHTTP(Options{BaseURL: srv.URL + "/", LoginPath: "api/oauth/token", UserAgent: "signin-test"}, zerolog.Nop())
}

func TestLogin_Success(t *testing.T) {
	var got LoginRequest
	var headers http.Header
	h := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken":"a","refreshToken":"r","tokenType":"Bearer","expiresIn":3600}`))
	})

	resp, err := h.Login(context.Background(), LoginRequest{PhoneNumber: "012345678", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, &LoginResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 3600}, resp)

	assert.Equal(t, LoginRequest{PhoneNumber: "012345678", Password: "secret1"}, got)
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "signin-test", headers.Get("User-Agent"))
	_, err = uuid.Parse(headers.Get("X-Request-ID"))
	assert.NoError(t, err, "X-Request-ID should be a UUID")
}

func TestLogin_SnakeCaseFallback(t *testing.T) {
	h := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"a","token_type":"Bearer","expires_in":"60"}`))
	})

	resp, err := h.Login(context.Background(), LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, "a", resp.AccessToken)
	assert.Equal(t, int64(60), resp.ExpiresIn)
	assert.Empty(t, resp.RefreshToken)
}

func TestLogin_NonSuccessStatus(t *testing.T) {
	h := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := h.Login(context.Background(), LoginRequest{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Empty(t, se.Body)
}

func TestLogin_ErrorBodyIsKept(t *testing.T) {
	h := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Phone number is not registered"}`))
	})

	_, err := h.Login(context.Background(), LoginRequest{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.JSONEq(t, `{"message":"Phone number is not registered"}`, string(se.Body))
}

func TestLogin_SuccessWithUnusableBody(t *testing.T) {
	h := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := h.Login(context.Background(), LoginRequest{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusOK, se.StatusCode)
}

func TestLogin_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	h := NewHTTP(Options{BaseURL: url, LoginPath: "api/oauth/token", Timeout: time.Second}, zerolog.Nop())
	_, err := h.Login(context.Background(), LoginRequest{})
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se), "no response means no StatusError")
}

func TestLoggingTransport_MasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	r := mux.NewRouter()
	r.HandleFunc("/api/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accessToken":"eyJ.secret.token","expiresIn":60}`))
	}).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	defer srv.Close()

	h := NewHTTP(Options{BaseURL: srv.URL, LoginPath: "/api/oauth/token"}, log)
	resp, err := h.Login(context.Background(), LoginRequest{PhoneNumber: "012345678", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "eyJ.secret.token", resp.AccessToken, "body must still reach the caller")

	out := buf.String()
	assert.Contains(t, out, "--> request")
	assert.Contains(t, out, "<-- response")
	assert.NotContains(t, out, "hunter22")
	assert.NotContains(t, out, "eyJ.secret.token")
	assert.True(t, strings.Contains(out, "request_id"))
}

func TestLoggingTransport_LargeBodyStreamsThrough(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	full := strings.Repeat("x", 3*maxLoggedBody)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(full))
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewLoggingTransport(nil, "signin-test", log)}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, full, string(got))

	out := buf.String()
	assert.Contains(t, out, strings.Repeat("x", maxLoggedBody))
	assert.NotContains(t, out, strings.Repeat("x", maxLoggedBody+1))
}

func TestNew_UsesConfig(t *testing.T) {
	h := New(config.APIConfig{BaseURL: "https://api.example/", LoginPath: "/v2/token", TimeoutSeconds: 7}, "ua", zerolog.Nop())
	assert.Equal(t, "https://api.example", h.BaseURL())
	assert.Equal(t, "/v2/token", h.loginPath)
	assert.Equal(t, 7*time.Second, h.Client().Timeout)
}
