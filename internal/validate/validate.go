// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package validate checks login credentials before any network attempt.
package validate

import (
	"fmt"
	"strings"

	apperrors "signin/cli/internal/errors"
)

// Summary is shown alongside per-field messages when validation fails.
const Summary = "Please fix the errors and try again"

const (
	FieldPhone    = "phone"
	FieldPassword = "password"
)

const (
	minPhoneLength    = 8
	minPasswordLength = 6
)

// FieldError describes one invalid input.
type FieldError struct {
	Field   string
	Message string
}

// Error collects every invalid field, phone first.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return Summary + " (" + strings.Join(parts, "; ") + ")"
}

// Message returns the message for field, or "" when the field is valid.
func (e *Error) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Phone returns a message when phone is unusable, or "".
func Phone(phone string) string {
	p := strings.TrimSpace(phone)
	switch {
	case p == "":
		return "Phone number is required"
	case len(p) < minPhoneLength:
		return "Please enter a valid phone number"
	}
	return ""
}

// Password returns a message when password is unusable, or "".
// Length is measured on the raw value; only blankness ignores whitespace.
func Password(password string) string {
	switch {
	case strings.TrimSpace(password) == "":
		return "Password is required"
	case len(password) < minPasswordLength:
		return "Password must be at least 6 characters"
	}
	return ""
}

// Credentials validates both fields. The returned error is an
// *apperrors.E of kind Validation wrapping *Error.
func Credentials(phone, password string) error {
	var fields []FieldError
	if msg := Phone(phone); msg != "" {
		fields = append(fields, FieldError{Field: FieldPhone, Message: msg})
	}
	if msg := Password(password); msg != "" {
		fields = append(fields, FieldError{Field: FieldPassword, Message: msg})
	}
	if len(fields) == 0 {
		return nil
	}
	return apperrors.Wrap(apperrors.Validation, Summary, &Error{Fields: fields})
}
