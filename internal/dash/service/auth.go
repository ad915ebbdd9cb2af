package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/datadash-io/datadash/internal/dash/domain"
	"github.com/datadash-io/datadash/internal/dash/store"
	"github.com/datadash-io/datadash/pkg/cryptox"
	"github.com/datadash-io/datadash/pkg/idx"
	"github.com/datadash-io/datadash/pkg/jwtx"
	"github.com/datadash-io/datadash/pkg/slogx"
)

var (
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignup      = errors.New("email and password are required")
)

// AuthService handles signup and login against the account store and mints
// session tokens on successful login.
type AuthService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Issuer     string
	SessionTTL time.Duration
}

// Signup creates a new account with role "user". The email must not already
// be registered; collisions fail with ErrDuplicateAccount and leave the
// store untouched.
func (s *AuthService) Signup(ctx context.Context, email, password string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return domain.Account{}, ErrInvalidSignup
	}

	// Check up front for the clean error; the unique index still backs this
	// up if two signups race.
	_, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err == nil {
		log.Warn("signup attempted with existing email")
		return domain.Account{}, ErrDuplicateAccount
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.Account{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Account{}, err
	}

	now := time.Now().UTC()
	acct := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrDuplicateAccount
		}
		log.Error("failed to create account", slog.Any("error", err))
		return domain.Account{}, err
	}

	log.Info("account created", slog.String("account_id", acct.ID))
	return acct, nil
}

// Login verifies the email/password pair and returns the account with a
// fresh session token. Unknown email and wrong password are deliberately
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Account, string, error) {
	log := slogx.FromContext(ctx)

	acct, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, "", ErrInvalidCredentials
		}
		log.Error("failed to fetch account", slog.Any("error", err))
		return domain.Account{}, "", err
	}

	if err := cryptox.VerifyPassword(password, acct.PasswordHash); err != nil {
		log.Warn("login failed", slog.String("account_id", acct.ID))
		return domain.Account{}, "", ErrInvalidCredentials
	}

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	claims := jwtx.NewSessionClaims(acct.ID, acct.Email, acct.Role, s.Issuer, ttl, time.Now().UTC())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return domain.Account{}, "", err
	}

	log.Info("login succeeded", slog.String("account_id", acct.ID))
	return acct, token, nil
}
