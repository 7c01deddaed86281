// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package auth

import (
	"net/http"
	"strings"
)

// TokenCookie carries the identity-provider token for browser clients that
// cannot attach an Authorization header (e.g. EventSource).
const TokenCookie = "reservo_token"

// ExtractToken retrieves the caller's identity-provider token from the request.
// 1. Authorization: Bearer <token>
// 2. Cookie: reservo_token
func ExtractToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	if auth := r.Header.Get("Authorization"); len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// SetBearer sets the Authorization header. An empty token leaves the request untouched.
func SetBearer(req *http.Request, token string) {
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
