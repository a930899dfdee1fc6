// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// parseLoginResponse decodes a login reply. The documented camelCase fields
// are tried first; snake_case variants are accepted as a fallback.
// ok is false when the body is not a JSON object.
func parseLoginResponse(body []byte) (*LoginResponse, bool) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, false
	}
	return &LoginResponse{
		AccessToken:  extractAccessToken(raw),
		RefreshToken: extractRefreshToken(raw),
		TokenType:    extractString(raw, "tokenType", "token_type"),
		ExpiresIn:    extractInt(raw, "expiresIn", "expires_in"),
	}, true
}

// extractAccessToken extracts the access token from the response payload.
// It tries multiple common field names to be resilient to different response formats.
func extractAccessToken(result map[string]any) string {
	return extractString(result, "accessToken", "access_token", "token")
}

// extractRefreshToken extracts the refresh token from the response payload.
// Returns empty string if no refresh token is present.
func extractRefreshToken(result map[string]any) string {
	return extractString(result, "refreshToken", "refresh_token")
}

func extractString(result map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := result[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// extractInt accepts JSON numbers and numeric strings.
func extractInt(result map[string]any, keys ...string) int64 {
	for _, k := range keys {
		switch v := result[k].(type) {
		case float64:
			return int64(v)
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

// parseBearerToken extracts token from a value like "Bearer <token>" case-insensitively.
// Returns the token string without the "Bearer " prefix, or empty string if invalid format.
func parseBearerToken(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 7 {
		return ""
	}
	if strings.EqualFold(v[0:6], "bearer") {
		if rest := strings.TrimSpace(v[6:]); rest != "" {
			return rest
		}
	}
	return ""
}

// findBearerTokenInHeaders returns the token carried in the Authorization
// header, or empty string if none.
func findBearerTokenInHeaders(h http.Header) string {
	return parseBearerToken(h.Get("Authorization"))
}
