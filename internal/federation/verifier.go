// Package federation verifies identity tokens issued by an external
// identity provider (Google) against the provider's published signing keys.
// It is a pure verification boundary: it never creates or mutates local state.
package federation

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Google endpoints and issuer values for ID token verification.
const (
	GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

	issuerGoogle       = "https://accounts.google.com"
	issuerGoogleLegacy = "accounts.google.com"
)

// ErrVerificationFailed indicates the provider token could not be verified:
// the signature does not chain to the provider's published keys, the audience
// does not match, or the token is expired or malformed.
var ErrVerificationFailed = errors.New("federated identity verification failed")

// fetchTimeout bounds the JWKS fetch so provider latency surfaces as a
// verification failure instead of hanging the request.
const fetchTimeout = 10 * time.Second

// signingKeysTTL is how long fetched provider keys are trusted before refresh.
const signingKeysTTL = time.Hour

// Identity holds the verified claims extracted from a provider token.
type Identity struct {
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}

// KeyCache caches the provider's raw JWKS document across processes.
// A miss is reported as (nil, nil); cache failures degrade to a direct fetch.
type KeyCache interface {
	GetSigningKeys(ctx context.Context) ([]byte, error)
	SetSigningKeys(ctx context.Context, doc []byte) error
}

// Config holds configuration for a Verifier.
type Config struct {
	// Audience is the OAuth client ID tokens must be issued for.
	Audience string
	// JWKSURL overrides the provider key endpoint (tests). Defaults to Google's.
	JWKSURL string
	// HTTPClient overrides the client used for key fetches.
	HTTPClient *http.Client
	// KeyCache optionally caches the JWKS document (e.g. in Redis).
	KeyCache KeyCache
}

// Verifier validates provider-issued ID tokens.
type Verifier struct {
	audience string
	jwksURL  string
	client   *http.Client
	cache    KeyCache

	mu         sync.RWMutex
	keys       map[string]*rsa.PublicKey
	keysExpiry time.Time
}

// NewVerifier creates a Verifier for the given configuration.
func NewVerifier(cfg Config) *Verifier {
	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = GoogleJWKSURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}

	return &Verifier{
		audience: cfg.Audience,
		jwksURL:  jwksURL,
		client:   client,
		cache:    cfg.KeyCache,
	}
}

// idTokenClaims is the subset of Google ID token claims the service needs.
type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

// Verify validates the ID token and returns the identity it asserts.
// All failure modes collapse to ErrVerificationFailed so callers cannot
// leak which check rejected the token.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	claims := &idTokenClaims{}

	token, err := jwt.ParseWithClaims(idToken, claims, v.keyfunc(ctx),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrVerificationFailed
	}

	if claims.Issuer != issuerGoogle && claims.Issuer != issuerGoogleLegacy {
		return nil, ErrVerificationFailed
	}
	if claims.Email == "" {
		return nil, ErrVerificationFailed
	}

	return &Identity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		EmailVerified: claims.EmailVerified,
	}, nil
}

// keyfunc resolves the token's kid header against the provider's signing
// keys, forcing one refresh when the kid is unknown (key rotation).
func (v *Verifier) keyfunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, ErrVerificationFailed
		}

		keys, err := v.signingKeys(ctx, false)
		if err == nil {
			if key, ok := keys[kid]; ok {
				return key, nil
			}
		}

		keys, err = v.signingKeys(ctx, true)
		if err != nil {
			return nil, err
		}
		key, ok := keys[kid]
		if !ok {
			return nil, ErrVerificationFailed
		}
		return key, nil
	}
}

// signingKeys returns the current kid -> public key map, consulting the
// in-process copy, then the key cache, then the provider endpoint.
func (v *Verifier) signingKeys(ctx context.Context, forceRefresh bool) (map[string]*rsa.PublicKey, error) {
	if !forceRefresh {
		v.mu.RLock()
		if v.keys != nil && time.Now().Before(v.keysExpiry) {
			keys := v.keys
			v.mu.RUnlock()
			return keys, nil
		}
		v.mu.RUnlock()
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if !forceRefresh && v.keys != nil && time.Now().Before(v.keysExpiry) {
		return v.keys, nil
	}

	if !forceRefresh && v.cache != nil {
		if doc, err := v.cache.GetSigningKeys(ctx); err == nil && doc != nil {
			if keys, err := parseJWKS(doc); err == nil && len(keys) > 0 {
				v.keys = keys
				v.keysExpiry = time.Now().Add(signingKeysTTL)
				return keys, nil
			}
		}
	}

	doc, err := v.fetchJWKS(ctx)
	if err != nil {
		return nil, err
	}

	keys, err := parseJWKS(doc)
	if err != nil || len(keys) == 0 {
		return nil, ErrVerificationFailed
	}

	if v.cache != nil {
		// Cache write failures are non-fatal; the next miss refetches.
		_ = v.cache.SetSigningKeys(ctx, doc)
	}

	v.keys = keys
	v.keysExpiry = time.Now().Add(signingKeysTTL)
	return keys, nil
}
