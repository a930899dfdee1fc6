// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims decodes the payload of a JWT access token without verifying its
// signature. It is for display only and must never gate access.
func Claims(token string) (map[string]any, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
