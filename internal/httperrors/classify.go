// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	apperrors "signin/cli/internal/errors"
)

// Messages shown for failed logins that never reached a usable response.
const (
	MsgNetworkFailure = "Network error. Please check your internet connection."
	MsgLoginFailed    = "Login failed. Please try again."
)

const msgUnexpected = "An unexpected error occurred. Please try again."

// statusMessages has one message per status-code bucket.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request. Please check your input.",
	http.StatusUnauthorized:        "Invalid credentials. Please check your phone number and password.",
	http.StatusForbidden:           "Access denied. You don't have permission to perform this action.",
	http.StatusNotFound:            "Service not found. Please try again later.",
	http.StatusRequestTimeout:      "Request timeout. Please check your internet connection.",
	http.StatusUnprocessableEntity: "Invalid data provided. Please check your input.",
	http.StatusTooManyRequests:     "Too many requests. Please wait a moment and try again.",
	http.StatusInternalServerError: "Server error. Please try again later.",
	http.StatusBadGateway:          "Service temporarily unavailable. Please try again later.",
	http.StatusServiceUnavailable:  "Service unavailable. Please try again later.",
	http.StatusGatewayTimeout:      "Request timeout. Please try again later.",
}

// ErrorBody is the optional structured error payload returned by the API.
type ErrorBody struct {
	Message   string `json:"message"`
	Code      string `json:"code"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Classification is the user-facing view of a failed request.
type Classification struct {
	Message        string
	Code           string
	IsNetworkIssue bool
	Kind           apperrors.Kind
}

// Message maps a status code to its fixed message. Every code has one.
func Message(statusCode int) string {
	if msg, ok := statusMessages[statusCode]; ok {
		return msg
	}
	return msgUnexpected
}

// KindForStatus buckets a status code into the error taxonomy.
func KindForStatus(statusCode int) apperrors.Kind {
	if statusCode >= 500 {
		return apperrors.Server
	}
	return apperrors.Authentication
}

// wireErrorBody accepts any JSON scalar per field; servers disagree on
// whether code and timestamp are strings or numbers.
type wireErrorBody struct {
	Message   json.RawMessage `json:"message"`
	Code      json.RawMessage `json:"code"`
	Details   json.RawMessage `json:"details"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// ParseErrorBody decodes body as an ErrorBody. ok is false when the body is
// empty, malformed, or carries a blank message.
func ParseErrorBody(body []byte) (ErrorBody, bool) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return ErrorBody{}, false
	}
	var w wireErrorBody
	if err := json.Unmarshal(body, &w); err != nil {
		return ErrorBody{}, false
	}
	eb := ErrorBody{
		Message:   scalarText(w.Message),
		Code:      scalarText(w.Code),
		Details:   scalarText(w.Details),
		Timestamp: scalarText(w.Timestamp),
	}
	if strings.TrimSpace(eb.Message) == "" {
		return eb, false
	}
	return eb, true
}

// scalarText renders a JSON string as its value and any other scalar
// (number, bool) as its literal text. null, objects and arrays are "".
func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch v.(type) {
	case float64, bool:
		return strings.TrimSpace(string(raw))
	}
	return ""
}

// ClassifyResponse prefers a message parsed from the error body and falls
// back to the status-code table. It never fails.
func ClassifyResponse(statusCode int, body []byte) Classification {
	c := Classification{Kind: KindForStatus(statusCode)}
	if eb, ok := ParseErrorBody(body); ok {
		c.Message = eb.Message
		c.Code = eb.Code
		return c
	}
	c.Message = Message(statusCode)
	c.Code = strconv.Itoa(statusCode)
	// 408 and 504 mean the request did not complete in time.
	c.IsNetworkIssue = statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout
	return c
}

// ClassifyTransport classifies a failure where no response was received.
func ClassifyTransport(err error) Classification {
	if IsNetworkFailure(err) {
		return Classification{Message: MsgNetworkFailure, IsNetworkIssue: true, Kind: apperrors.Transport}
	}
	return Classification{Message: MsgLoginFailed, Kind: apperrors.Transport}
}
