// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// Principal identifies the owner of a flow session without retaining the token.
type Principal struct {
	// ID is a stable digest of the identity-provider token.
	ID string
}

// NewPrincipal derives a Principal from a raw token. Tokens rotate, so the ID
// is only stable for the lifetime of one token; sessions are short-lived anyway.
func NewPrincipal(token string) Principal {
	if token == "" {
		return Principal{}
	}
	hash := sha256.Sum256([]byte(token))
	return Principal{ID: "t_" + hex.EncodeToString(hash[:])[:16]}
}

// Anonymous reports whether the principal carries no identity.
func (p Principal) Anonymous() bool {
	return p.ID == ""
}
