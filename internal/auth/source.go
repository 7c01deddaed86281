// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package auth supplies bearer tokens for reservation service calls.
//
// Tokens are owned by the external identity provider. Sources here never cache
// a token between calls: each upstream request asks its source again, so a
// rotated token is picked up on the very next request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// ErrNoToken is returned when a source has no token to offer.
var ErrNoToken = errors.New("auth: no token available")

// TokenSource yields the bearer token for one upstream request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken always returns the same token. Meant for tests and service accounts.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

type tokenCtxKey struct{}

type sourceCtxKey struct{}

// ContextWithToken attaches a caller token, e.g. the one a browser sent to reservod.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

// TokenFromContext returns the token attached with ContextWithToken.
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(tokenCtxKey{}).(string)
	return v
}

// ContextWithSource attaches a source consulted by ContextSource when the
// context carries no literal token. Background loops use it with a Holder.
func ContextWithSource(ctx context.Context, src TokenSource) context.Context {
	return context.WithValue(ctx, sourceCtxKey{}, src)
}

// ContextSource reads the token from the context: a literal token first,
// then an attached source.
type ContextSource struct{}

func (ContextSource) Token(ctx context.Context) (string, error) {
	if t := TokenFromContext(ctx); t != "" {
		return t, nil
	}
	if ctx != nil {
		if src, ok := ctx.Value(sourceCtxKey{}).(TokenSource); ok && src != nil {
			return src.Token(ctx)
		}
	}
	return "", ErrNoToken
}

// Holder keeps the latest token a caller handed over. Each front-end request
// replaces it, so a poll loop started earlier uses the rotated token on its
// next request.
type Holder struct {
	v atomic.Value
}

// Set stores t. Empty values are ignored so an unauthenticated request cannot
// wipe a good token.
func (h *Holder) Set(t string) {
	if t = strings.TrimSpace(t); t != "" {
		h.v.Store(t)
	}
}

func (h *Holder) Token(context.Context) (string, error) {
	if t, _ := h.v.Load().(string); t != "" {
		return t, nil
	}
	return "", ErrNoToken
}

// FileSource re-reads a token file on every call. The identity provider's
// refresh agent owns the file.
type FileSource struct {
	Path string
}

func (s FileSource) Token(context.Context) (string, error) {
	// #nosec G304 -- path is operator-provided configuration
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("auth: read token file: %w", err)
	}
	t := strings.TrimSpace(string(b))
	if t == "" {
		return "", ErrNoToken
	}
	return t, nil
}

// EnvSource reads the token from an environment variable on every call.
type EnvSource struct {
	Key string
}

func (s EnvSource) Token(context.Context) (string, error) {
	t := strings.TrimSpace(os.Getenv(s.Key))
	if t == "" {
		return "", ErrNoToken
	}
	return t, nil
}

// Chain tries sources in order and returns the first token found.
type Chain []TokenSource

func (c Chain) Token(ctx context.Context) (string, error) {
	var lastErr error = ErrNoToken
	for _, s := range c {
		t, err := s.Token(ctx)
		if err == nil && t != "" {
			return t, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	return "", lastErr
}

// Shared collapses concurrent fetches from an expensive source into one call.
// Nothing is kept once the in-flight fetch returns, so tokens stay fresh.
type Shared struct {
	Source TokenSource
	group  singleflight.Group
}

func (s *Shared) Token(ctx context.Context) (string, error) {
	v, err, _ := s.group.Do("token", func() (any, error) {
		return s.Source.Token(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
