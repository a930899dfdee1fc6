// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Login posts {phoneNumber, password} to the token endpoint.
// A 2xx reply is decoded into LoginResponse; when it cannot be decoded the
// reply is returned as *StatusError so the caller can classify it.
func (h *HTTP) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.loginPath, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	out, ok := parseLoginResponse(body)
	if !ok {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	if out.AccessToken == "" {
		if token := findBearerTokenInHeaders(resp.Header); token != "" {
			out.AccessToken = token
		}
	}
	return out, nil
}
