// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds connect, read and write of a single request.
const DefaultTimeout = 30 * time.Second

// Options configures the HTTP client.
type Options struct {
	// BaseURL is the API root, e.g. "https://learn-api.cambofreelance.com/".
	BaseURL string
	// LoginPath is joined to BaseURL for the token endpoint.
	LoginPath string
	Timeout   time.Duration
	UserAgent string
	// Transport overrides the underlying round tripper; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// HTTP implements API over REST endpoints.
type HTTP struct {
	// baseURL has no trailing slash.
	baseURL   string
	loginPath string
	// client is the underlying HTTP client with configured timeout and logging transport
	client *http.Client
	log    zerolog.Logger
}

// NewHTTP is the exported constructor used by tests and by commands that need
// the concrete client.
func NewHTTP(opts Options, log zerolog.Logger) *HTTP {
	return newHTTP(opts, log)
}

func newHTTP(opts Options, log zerolog.Logger) *HTTP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		loginPath: "/" + strings.TrimLeft(opts.LoginPath, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: NewLoggingTransport(opts.Transport, opts.UserAgent, log),
		},
		log: log,
	}
}

// Client returns the configured *http.Client so other callers share the
// same timeout, request IDs and logging.
func (h *HTTP) Client() *http.Client { return h.client }

// BaseURL returns the API root without a trailing slash.
func (h *HTTP) BaseURL() string { return h.baseURL }

// setStandardHeaders sets headers shared by every JSON request.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
}
