// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "signin/cli/internal/errors"
)

func TestCredentials(t *testing.T) {
	tests := []struct {
		name      string
		phone     string
		password  string
		wantPhone string
		wantPass  string
	}{
		{name: "valid", phone: "012345678", password: "secret1"},
		{name: "phone trimmed before length check", phone: "  12345678  ", password: "secret1"},
		{name: "empty phone", phone: "", password: "secret1", wantPhone: "Phone number is required"},
		{name: "blank phone", phone: "   ", password: "secret1", wantPhone: "Phone number is required"},
		{name: "short phone", phone: " 1234567 ", password: "secret1", wantPhone: "Please enter a valid phone number"},
		{name: "blank password", phone: "012345678", password: "      ", wantPass: "Password is required"},
		{name: "short password", phone: "012345678", password: "abc", wantPass: "Password must be at least 6 characters"},
		{
			name: "both invalid", phone: "1", password: "",
			wantPhone: "Please enter a valid phone number", wantPass: "Password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Credentials(tt.phone, tt.password)
			if tt.wantPhone == "" && tt.wantPass == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.Validation))

			var ve *Error
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantPhone, ve.Message(FieldPhone))
			assert.Equal(t, tt.wantPass, ve.Message(FieldPassword))
			assert.Contains(t, ve.Error(), Summary)
		})
	}
}
