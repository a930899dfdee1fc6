// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"signin/cli/internal/logging"
)

// maxLoggedBody truncates bodies written to the debug log.
const maxLoggedBody = 2048

// loggingTransport stamps every request with X-Request-ID and User-Agent and,
// at debug level, logs method, URL, status, latency and masked bodies.
type loggingTransport struct {
	next      http.RoundTripper
	userAgent string
	log       zerolog.Logger
}

// NewLoggingTransport wraps next (http.DefaultTransport when nil).
func NewLoggingTransport(next http.RoundTripper, userAgent string, log zerolog.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, userAgent: userAgent, log: log}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	req = req.Clone(req.Context())
	reqID := req.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = uuid.NewString()
		req.Header.Set("X-Request-ID", reqID)
	}
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	debug := t.log.Debug().Enabled()
	if debug {
		ev := t.log.Debug().Str("request_id", reqID).Str("method", req.Method).Str("url", req.URL.String())
		if req.Body != nil && req.GetBody != nil {
			if rc, err := req.GetBody(); err == nil {
				b, _ := io.ReadAll(io.LimitReader(rc, maxLoggedBody))
				_ = rc.Close()
				ev = ev.Str("body", logging.Mask(string(b)))
			}
		}
		if auth := req.Header.Get("Authorization"); auth != "" {
			ev = ev.Str("authorization", logging.Mask(auth))
		}
		ev.Msg("--> request")
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		t.log.Debug().Str("request_id", reqID).Dur("elapsed", elapsed).Err(err).Msg("<-- transport error")
		return nil, err
	}

	if debug {
		ev := t.log.Debug().Str("request_id", reqID).Int("status", resp.StatusCode).Dur("elapsed", elapsed)
		if resp.Body != nil {
			// Only the logged prefix is buffered; the rest streams through.
			orig := resp.Body
			b, rerr := io.ReadAll(io.LimitReader(orig, maxLoggedBody))
			resp.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(b), orig), Closer: orig}
			if rerr == nil {
				ev = ev.Str("body", logging.Mask(string(b)))
			}
		}
		ev.Msg("<-- response")
	}
	return resp, nil
}

// replayBody serves an already-read prefix followed by the unread remainder.
type replayBody struct {
	io.Reader
	io.Closer
}
