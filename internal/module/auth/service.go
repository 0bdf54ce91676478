package auth

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/soundmint/internal/domain"
)

// TokenIssuer signs and revokes session tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
	Revoke(raw string) error
}

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	Register(ctx context.Context, in RegisterRequest) (*TokenResponse, error)
	WalletNonce(ctx context.Context) (*WalletNonceResponse, error)
	WalletLogin(ctx context.Context, in WalletLoginRequest) (*TokenResponse, error)
	ExternalLoginURL(state string) (string, error)
	ExternalCallback(ctx context.Context, code string) (*TokenResponse, error)
	Logout(ctx context.Context, raw string) error
}

// authService implements Service.
type authService struct {
	issuer   TokenIssuer
	users    domain.UserRepository
	accounts AccountRepository
	nonces   *nonceStore
	external ExternalProvider
}

// NewService creates a new auth Service. external may be nil when no
// external login provider is configured.
func NewService(issuer TokenIssuer, users domain.UserRepository, accounts AccountRepository, nonceTTL time.Duration, external ExternalProvider) Service {
	return &authService{
		issuer:   issuer,
		users:    users,
		accounts: accounts,
		nonces:   newNonceStore(nonceTTL),
		external: external,
	}
}

// Login authenticates a user by email and password and returns a JWT token.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		// Don't reveal whether the user exists.
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	return s.session(user)
}

// validateRegisterInput validates registration input. name and email are expected
// to be pre-trimmed by callers; TrimSpace here ensures the validator is self-contained.
func validateRegisterInput(name, email, password string) error {
	nameLen := utf8.RuneCountInString(strings.TrimSpace(name))
	if nameLen == 0 {
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	}
	if nameLen > 100 {
		return domain.NewAppError(domain.CodeValidation, "name must not exceed 100 characters", nil)
	}
	trimmedEmail := strings.TrimSpace(email)
	if len(trimmedEmail) == 0 {
		return domain.NewAppError(domain.CodeValidation, "email is required", nil)
	}
	addr, err := mail.ParseAddress(trimmedEmail)
	if err != nil || addr.Name != "" || addr.Address != trimmedEmail {
		return domain.NewAppError(domain.CodeValidation, "email must be a valid email address", nil)
	}
	if len(password) < 8 {
		return domain.NewAppError(domain.CodeValidation, "password must be at least 8 characters", nil)
	}
	if len(password) > 72 {
		return domain.NewAppError(domain.CodeValidation, "password must not exceed 72 characters", nil)
	}
	return nil
}

// Register creates a password account, links it to its referrer when a
// referral code is given, and signs the new user in.
func (s *authService) Register(ctx context.Context, in RegisterRequest) (*TokenResponse, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if err := validateRegisterInput(name, email, in.Password); err != nil {
		return nil, err
	}

	var referrerID *uint
	if code := strings.ToUpper(strings.TrimSpace(in.ReferralCode)); code != "" {
		referrer, err := s.users.GetByReferralCode(ctx, code)
		if err != nil {
			if domain.IsNotFound(err) {
				return nil, domain.NewAppError(domain.CodeValidation, "unknown referral code", nil)
			}
			return nil, err
		}
		referrerID = &referrer.ID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        &email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		ReferralCode: domain.NewReferralCode(),
	}
	if err := s.accounts.CreateAccount(ctx, user, referrerID); err != nil {
		return nil, err
	}

	return s.session(user)
}

// WalletNonce issues a single-use challenge for wallet login.
func (s *authService) WalletNonce(_ context.Context) (*WalletNonceResponse, error) {
	nonce, deadline := s.nonces.Issue()
	return &WalletNonceResponse{
		Nonce:     nonce,
		Message:   walletMessage(nonce),
		ExpiresAt: deadline.Unix(),
	}, nil
}

// WalletLogin verifies a signed challenge and signs the wallet's account in,
// creating it on first use.
func (s *authService) WalletLogin(ctx context.Context, in WalletLoginRequest) (*TokenResponse, error) {
	publicKey := strings.TrimSpace(in.PublicKey)
	nonce, ok := messageNonce(in.Message)
	if !ok {
		return nil, domain.NewAppError(domain.CodeValidation, "message does not contain a nonce", nil)
	}
	if err := verifyWalletSignature(publicKey, strings.TrimSpace(in.Signature), in.Message); err != nil {
		return nil, err
	}
	if !s.nonces.Consume(nonce) {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "nonce expired or already used", nil)
	}

	user, err := s.users.GetByWallet(ctx, publicKey)
	if err == nil {
		return s.session(user)
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}

	user = &domain.User{
		Name:          "wallet-" + publicKey[:8],
		WalletAddress: &publicKey,
		Role:          domain.RoleUser,
		ReferralCode:  domain.NewReferralCode(),
	}
	if err := s.accounts.CreateAccount(ctx, user, nil); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "wallet account created", slog.Uint64("user_id", uint64(user.ID)))
	return s.session(user)
}

var errExternalDisabled = domain.NewAppError(domain.CodeNotFound, "external login is not enabled", nil)

// ExternalLoginURL returns the provider consent URL for state.
func (s *authService) ExternalLoginURL(state string) (string, error) {
	if s.external == nil {
		return "", errExternalDisabled
	}
	return s.external.AuthCodeURL(state), nil
}

// ExternalCallback resolves an authorization code to an account. Known
// subjects sign in directly; a verified email matching an existing account
// links the subject to it; otherwise a new account is created.
func (s *authService) ExternalCallback(ctx context.Context, code string) (*TokenResponse, error) {
	if s.external == nil {
		return nil, errExternalDisabled
	}
	if strings.TrimSpace(code) == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "missing authorization code", nil)
	}

	ident, err := s.external.Identify(ctx, code)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "external login failed", err)
	}

	user, err := s.users.GetByExternalID(ctx, ident.Subject)
	if err == nil {
		return s.session(user)
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}

	email := normalizeEmail(ident.Email)
	if email != "" && ident.EmailVerified {
		existing, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			existing.ExternalID = &ident.Subject
			if err := s.users.Update(ctx, existing); err != nil {
				return nil, err
			}
			return s.session(existing)
		case !domain.IsNotFound(err):
			return nil, err
		}
	}

	name := strings.TrimSpace(ident.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	if name == "" {
		name = "listener"
	}
	user = &domain.User{
		Name:         truncate(name, 100),
		Email:        domain.StringPtr(email),
		ExternalID:   &ident.Subject,
		Role:         domain.RoleUser,
		ReferralCode: domain.NewReferralCode(),
	}
	if !ident.EmailVerified {
		user.Email = nil
	}
	if err := s.accounts.CreateAccount(ctx, user, nil); err != nil {
		return nil, err
	}
	return s.session(user)
}

// Logout revokes the session token so it stops authenticating before it
// expires.
func (s *authService) Logout(_ context.Context, raw string) error {
	if raw == "" {
		return domain.NewAppError(domain.CodeUnauthorized, "authentication required", nil)
	}
	return s.issuer.Revoke(raw)
}

func (s *authService) session(user *domain.User) (*TokenResponse, error) {
	tok, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to generate token", err)
	}
	return &TokenResponse{Token: tok, ExpiresAt: expiresAt.Unix(), User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
