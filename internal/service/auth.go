// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rosterd/rosterd/internal/auth"
	"github.com/rosterd/rosterd/internal/federation"
	"github.com/rosterd/rosterd/internal/metrics"
	"github.com/rosterd/rosterd/internal/model"
	"github.com/rosterd/rosterd/internal/repository"
)

// Service errors. Handlers translate these into generic client-facing
// messages; nothing below this boundary leaks which check failed.
var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFederationFailed   = errors.New("federated login failed")
)

// AccountStore is the slice of the repository the auth service needs.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
}

// IdentityVerifier validates provider-issued identity tokens.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*federation.Identity, error)
}

// LoginResult is returned on successful login or federated login.
type LoginResult struct {
	Token string
	Name  string
}

// AuthService orchestrates signup, local login, and federated login.
// It is stateless per request; all durable state lives in the store.
type AuthService struct {
	store      AccountStore
	tokens     *auth.TokenIssuer
	federation IdentityVerifier
	logger     *slog.Logger
	metrics    metrics.Recorder

	// decoyHash is verified when a login targets an unknown email, so the
	// work done is comparable to a real verification and response timing
	// does not reveal account existence.
	decoyHash string
}

// NewAuthService creates an AuthService.
func NewAuthService(store AccountStore, tokens *auth.TokenIssuer, verifier IdentityVerifier, logger *slog.Logger, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	decoyHash, err := auth.HashPassword(ulid.Make().String())
	if err != nil {
		// Verification against an empty hash still fails closed.
		decoyHash = ""
	}

	return &AuthService{
		store:      store,
		tokens:     tokens,
		federation: verifier,
		logger:     logger,
		metrics:    recorder,
		decoyHash:  decoyHash,
	}
}

// NormalizeEmail applies the account email policy: emails are trimmed and
// lowercased before any store call, making lookups case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a local-password account. No session token is issued;
// signup and login are distinct operations.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) error {
	email = NormalizeEmail(email)

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.metrics.IncSignup(metrics.OutcomeError)
		return fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		ID:           ulid.Make().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncSignup(metrics.OutcomeRejected)
			return ErrEmailTaken
		}
		s.metrics.IncSignup(metrics.OutcomeError)
		return fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account created",
		slog.String("account_id", account.ID),
	)
	s.metrics.IncSignup(metrics.OutcomeSuccess)

	return nil
}

// Login verifies local credentials and issues a session token.
// An unknown email and a wrong password both return ErrInvalidCredentials;
// the two cases must stay indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)

	account, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			_, _ = auth.VerifyPassword(password, s.decoyHash)
			s.metrics.IncLogin(metrics.OutcomeRejected)
			return nil, ErrInvalidCredentials
		}
		s.metrics.IncLogin(metrics.OutcomeError)
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	// A federated-only account stores the sentinel hash, which never
	// verifies, so it falls through to the same rejection.
	match, err := auth.VerifyPassword(password, account.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLogin(metrics.OutcomeRejected)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		s.metrics.IncLogin(metrics.OutcomeError)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("login succeeded",
		slog.String("account_id", account.ID),
	)
	s.metrics.IncLogin(metrics.OutcomeSuccess)
	s.metrics.IncTokenIssued()

	return &LoginResult{Token: token, Name: account.Name}, nil
}

// FederatedLogin verifies a provider-issued token and issues a session
// token for the matching account, creating one on first sight of the email.
//
// Identity is unified by email: a federated login for an email that already
// has a local-password account reuses that account. This trusts the
// provider's email claim as proof of ownership, matching the reference
// behavior.
func (s *AuthService) FederatedLogin(ctx context.Context, providerToken string) (*LoginResult, error) {
	identity, err := s.federation.Verify(ctx, providerToken)
	if err != nil {
		s.metrics.IncFederatedLogin(metrics.OutcomeRejected)
		return nil, ErrFederationFailed
	}

	account, err := s.findOrCreateAccount(ctx, identity)
	if err != nil {
		s.metrics.IncFederatedLogin(metrics.OutcomeError)
		return nil, err
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		s.metrics.IncFederatedLogin(metrics.OutcomeError)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("federated login succeeded",
		slog.String("account_id", account.ID),
	)
	s.metrics.IncFederatedLogin(metrics.OutcomeSuccess)
	s.metrics.IncTokenIssued()

	return &LoginResult{Token: token, Name: identity.Name}, nil
}

// findOrCreateAccount resolves a verified federated identity to an account.
// Repeated calls for the same email always resolve to the same account,
// including when a concurrent request created it first.
func (s *AuthService) findOrCreateAccount(ctx context.Context, identity *federation.Identity) (*model.Account, error) {
	email := NormalizeEmail(identity.Email)

	account, err := s.store.GetAccountByEmail(ctx, email)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	account = &model.Account{
		ID:           ulid.Make().String(),
		Name:         identity.Name,
		Email:        email,
		PasswordHash: auth.SentinelFederatedHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		// Lost the create race - another request linked this email first.
		if errors.Is(err, repository.ErrEmailExists) {
			return s.store.GetAccountByEmail(ctx, email)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account created via federated login",
		slog.String("account_id", account.ID),
	)

	return account, nil
}
