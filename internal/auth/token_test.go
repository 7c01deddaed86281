// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToken_PriorityOrder(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://example.local/api/flow", nil)
	r.Header.Set("Authorization", "Bearer bearer-token ")
	r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie-token"})

	assert.Equal(t, "bearer-token", ExtractToken(r))
}

func TestExtractToken_CookieFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://example.local/api/flow", nil)
	r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie-token"})

	assert.Equal(t, "cookie-token", ExtractToken(r))
	assert.Equal(t, "", ExtractToken(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, "", ExtractToken(nil))
}

func TestSetBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	SetBearer(req, "")
	assert.Empty(t, req.Header.Get("Authorization"))

	SetBearer(req, "abc")
	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
}

func TestNewPrincipal_StableDigest(t *testing.T) {
	a := NewPrincipal("tok")
	b := NewPrincipal("tok")
	c := NewPrincipal("other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotContains(t, a.ID, "tok")
	assert.True(t, NewPrincipal("").Anonymous())
}

func TestFileSource_RereadsEveryCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o600))

	src := FileSource{Path: path}
	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", tok)

	require.NoError(t, os.WriteFile(path, []byte("second"), 0o600))
	tok, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", tok, "rotated token must be visible on the next call")
}

func TestContextSourceAndChain(t *testing.T) {
	ctx := ContextWithToken(context.Background(), "from-ctx")

	tok, err := ContextSource{}.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-ctx", tok)

	_, err = ContextSource{}.Token(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)

	chain := Chain{ContextSource{}, StaticToken("fallback")}
	tok, err = chain.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fallback", tok)

	_, err = Chain{StaticToken("")}.Token(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestShared_CollapsesConcurrentFetches(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	shared := &Shared{Source: TokenFunc(func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "tok", nil
	})}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := shared.Token(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "tok", tok)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(5))

	// Nothing is cached once the flight lands.
	before := calls.Load()
	_, err := shared.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before+1, calls.Load())
}

func TestHolder_RotatesThroughContext(t *testing.T) {
	var h Holder
	ctx := ContextWithSource(context.Background(), &h)

	_, err := ContextSource{}.Token(ctx)
	require.ErrorIs(t, err, ErrNoToken)

	h.Set("first")
	tok, err := ContextSource{}.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", tok)

	h.Set("  ")
	h.Set("second")
	tok, _ = ContextSource{}.Token(ctx)
	assert.Equal(t, "second", tok)

	tok, _ = ContextSource{}.Token(ContextWithToken(ctx, "literal"))
	assert.Equal(t, "literal", tok)
}
