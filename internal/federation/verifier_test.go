package federation

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testAudience = "roster-client-id.apps.googleusercontent.com"

// testProvider simulates the identity provider: it holds a signing key and
// serves the matching JWKS document.
type testProvider struct {
	key    *rsa.PrivateKey
	kid    string
	server *httptest.Server

	mu       sync.Mutex
	requests int
}

func newTestProvider(t *testing.T) *testProvider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate RSA key: %v", err)
	}

	p := &testProvider{key: key, kid: "test-key-1"}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.requests++
		p.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(p.jwks())
	}))
	t.Cleanup(p.server.Close)

	return p
}

func (p *testProvider) jwks() []byte {
	doc := jwksDocument{
		Keys: []jwksKey{{
			Kty: "RSA",
			Kid: p.kid,
			Use: "sig",
			N:   base64.RawURLEncoding.EncodeToString(p.key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString([]byte{1, 0, 1}),
		}},
	}
	data, _ := json.Marshal(doc)
	return data
}

func (p *testProvider) requestCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests
}

// sign creates an RS256 ID token with the provider's key.
func (p *testProvider) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = p.kid

	signed, err := token.SignedString(p.key)
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":            "https://accounts.google.com",
		"aud":            testAudience,
		"sub":            "google-user-1",
		"email":          "student@example.com",
		"email_verified": true,
		"name":           "Pat Student",
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
	}
}

func newTestVerifier(p *testProvider) *Verifier {
	return NewVerifier(Config{
		Audience: testAudience,
		JWKSURL:  p.server.URL,
	})
}

func TestVerifier_ValidToken(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	verifier := newTestVerifier(provider)

	identity, err := verifier.Verify(context.Background(), provider.sign(t, validClaims()))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if identity.Email != "student@example.com" {
		t.Errorf("expected email student@example.com, got %s", identity.Email)
	}
	if identity.Name != "Pat Student" {
		t.Errorf("expected name Pat Student, got %s", identity.Name)
	}
	if identity.Subject != "google-user-1" {
		t.Errorf("expected subject google-user-1, got %s", identity.Subject)
	}
	if !identity.EmailVerified {
		t.Error("expected email_verified to carry through")
	}
}

func TestVerifier_AudienceMismatch(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	verifier := newTestVerifier(provider)

	claims := validClaims()
	claims["aud"] = "some-other-client-id"

	if _, err := verifier.Verify(context.Background(), provider.sign(t, claims)); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("expected ErrVerificationFailed for audience mismatch, got %v", err)
	}
}

func TestVerifier_WrongIssuer(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	verifier := newTestVerifier(provider)

	claims := validClaims()
	claims["iss"] = "https://evil.example.com"

	if _, err := verifier.Verify(context.Background(), provider.sign(t, claims)); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("expected ErrVerificationFailed for wrong issuer, got %v", err)
	}
}

func TestVerifier_ExpiredToken(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	verifier := newTestVerifier(provider)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	if _, err := verifier.Verify(context.Background(), provider.sign(t, claims)); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("expected ErrVerificationFailed for expired token, got %v", err)
	}
}

func TestVerifier_MissingExpiry(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	verifier := newTestVerifier(provider)

	claims := validClaims()
	delete(claims, "exp")

	if _, err := verifier.Verify(context.Background(), provider.sign(t, claims)); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("expected ErrVerificationFailed for missing exp, got %v", err)
	}
}

func TestVerifier_MissingEmail(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	verifier := newTestVerifier(provider)

	claims := validClaims()
	delete(claims, "email")

	if _, err := verifier.Verify(context.Background(), provider.sign(t, claims)); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("expected ErrVerificationFailed for missing email, got %v", err)
	}
}

func TestVerifier_UnknownSigningKey(t *testing.T) {
	t.Parallel()

	// Token signed with a key the provider never published.
	provider := newTestProvider(t)
	rogue := newTestProvider(t)
	rogue.kid = "rogue-key"

	verifier := newTestVerifier(provider)

	if _, err := verifier.Verify(context.Background(), rogue.sign(t, validClaims())); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("expected ErrVerificationFailed for unknown kid, got %v", err)
	}
}

func TestVerifier_MalformedToken(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	verifier := newTestVerifier(provider)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := verifier.Verify(context.Background(), token); !errors.Is(err, ErrVerificationFailed) {
			t.Errorf("expected ErrVerificationFailed for %q, got %v", token, err)
		}
	}
}

func TestVerifier_ProviderUnreachable(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	token := provider.sign(t, validClaims())

	verifier := newTestVerifier(provider)
	provider.server.Close()

	if _, err := verifier.Verify(context.Background(), token); err == nil {
		t.Error("expected verification to fail when provider is unreachable")
	}
}

func TestVerifier_KeysCachedInProcess(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	verifier := newTestVerifier(provider)

	for i := 0; i < 3; i++ {
		if _, err := verifier.Verify(context.Background(), provider.sign(t, validClaims())); err != nil {
			t.Fatalf("Verify %d failed: %v", i, err)
		}
	}

	if got := provider.requestCount(); got != 1 {
		t.Errorf("expected a single JWKS fetch, got %d", got)
	}
}

// memoryKeyCache is a KeyCache backed by a map for tests.
type memoryKeyCache struct {
	mu  sync.Mutex
	doc []byte
}

func (m *memoryKeyCache) GetSigningKeys(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc, nil
}

func (m *memoryKeyCache) SetSigningKeys(ctx context.Context, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc
	return nil
}

func TestVerifier_UsesKeyCache(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	cache := &memoryKeyCache{doc: provider.jwks()}

	// Provider endpoint is gone; the cached JWKS document must suffice.
	token := provider.sign(t, validClaims())
	provider.server.Close()

	verifier := NewVerifier(Config{
		Audience: testAudience,
		JWKSURL:  provider.server.URL,
		KeyCache: cache,
	})

	if _, err := verifier.Verify(context.Background(), token); err != nil {
		t.Fatalf("Verify with cached keys failed: %v", err)
	}
}

func TestParseJWKS_SkipsNonRSAKeys(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"keys":[
		{"kty":"EC","kid":"ec-key","x":"AA","y":"AA"},
		{"kty":"RSA","kid":"","n":"AQAB","e":"AQAB"}
	]}`)

	keys, err := parseJWKS(doc)
	if err != nil {
		t.Fatalf("parseJWKS failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no usable keys, got %d", len(keys))
	}
}
