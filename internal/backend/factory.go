// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"signin/cli/internal/config"

	"github.com/rs/zerolog"
)

// New creates the HTTP backend for the configured endpoint.
func New(cfg config.APIConfig, userAgent string, log zerolog.Logger) *HTTP {
	return newHTTP(Options{
		BaseURL:   cfg.BaseURL,
		LoginPath: cfg.LoginPath,
		Timeout:   cfg.Timeout(),
		UserAgent: userAgent,
	}, log)
}
