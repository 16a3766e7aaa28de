//go:build integration

package cache

import (
	"context"
	"testing"

	"github.com/rosterd/rosterd/internal/testutil"
)

func TestIntegrationCache_SigningKeysRoundTrip(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	doc := []byte(`{"keys":[{"kty":"RSA","kid":"test-key"}]}`)
	if err := c.SetSigningKeys(ctx, doc); err != nil {
		t.Fatalf("SetSigningKeys failed: %v", err)
	}

	got, err := c.GetSigningKeys(ctx)
	if err != nil {
		t.Fatalf("GetSigningKeys failed: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("document mismatch: got %s", got)
	}
}

func TestIntegrationCache_SigningKeysMiss(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	got, err := c.GetSigningKeys(ctx)
	if err != nil {
		t.Fatalf("GetSigningKeys failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil on cache miss, got %s", got)
	}
}

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, c
}
