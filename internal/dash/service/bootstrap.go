package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/datadash-io/datadash/internal/dash/domain"
	"github.com/datadash-io/datadash/internal/dash/store"
	"github.com/datadash-io/datadash/pkg/cryptox"
	"github.com/datadash-io/datadash/pkg/idx"
	"github.com/datadash-io/datadash/pkg/slogx"
)

// BootstrapService seeds the first admin account. There is no HTTP path to
// mint an admin, so a fresh deployment configures one through the
// environment.
type BootstrapService struct {
	Store store.Store
}

// SeedAdmin creates an admin account with the given credentials when the
// store holds no accounts yet. On an already-populated store it does
// nothing, so restarts are safe.
func (s *BootstrapService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	log := slogx.FromContext(ctx)

	empty, err := s.Store.Accounts().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, nil
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	acct := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, acct); err != nil {
		return false, err
	}

	log.Info("admin account seeded", slog.String("account_id", acct.ID))
	return true, nil
}
