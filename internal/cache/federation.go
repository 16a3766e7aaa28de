package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// federationKeysKey is the Redis key holding the provider JWKS document.
	federationKeysKey = "federation:jwks:google"
	// federationKeysTTL bounds how long provider keys are served from cache.
	federationKeysTTL = time.Hour
)

// GetSigningKeys retrieves the cached provider JWKS document.
// Returns (nil, nil) on cache miss so the verifier falls back to a fetch.
func (c *Cache) GetSigningKeys(ctx context.Context) ([]byte, error) {
	doc, err := c.client.Get(ctx, federationKeysKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		// Cache being down degrades to a direct fetch, not a failure.
		return nil, nil //nolint:nilerr
	}
	return doc, nil
}

// SetSigningKeys caches the provider JWKS document with a bounded TTL.
func (c *Cache) SetSigningKeys(ctx context.Context, doc []byte) error {
	return c.client.Set(ctx, federationKeysKey, doc, federationKeysTTL).Err()
}
