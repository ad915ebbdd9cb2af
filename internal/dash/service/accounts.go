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
	"github.com/datadash-io/datadash/pkg/slogx"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidRole     = errors.New("invalid role")
)

// AccountService is the account management API: CRUD over accounts and
// their embedded data entries. Authorization happens at the HTTP layer;
// every operation here assumes the caller is allowed.
type AccountService struct {
	Store store.Store
}

// GetAccount fetches one account with its data entries populated.
func (s *AccountService) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	acct, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return s.attachEntries(ctx, acct)
}

// ListAccounts returns every account including its data entries, in
// creation order. The result set is unbounded; this is an administrative
// surface, not a public one.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.Store.Accounts().ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range accounts {
		accounts[i], err = s.attachEntries(ctx, accounts[i])
		if err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

// CreateAccount is the administrative creation path. The account is issued
// a generated temporary password, returned exactly once to the caller;
// there is no other way to recover it.
func (s *AccountService) CreateAccount(ctx context.Context, name, email, role string) (domain.Account, string, error) {
	log := slogx.FromContext(ctx)

	if email == "" {
		return domain.Account{}, "", ErrInvalidSignup
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return domain.Account{}, "", ErrInvalidRole
	}

	tempPassword, err := cryptox.GeneratePassword()
	if err != nil {
		return domain.Account{}, "", err
	}
	hash, err := cryptox.HashPassword(tempPassword)
	if err != nil {
		return domain.Account{}, "", err
	}

	now := time.Now().UTC()
	acct := domain.Account{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, "", ErrDuplicateAccount
		}
		log.Error("failed to create account", slog.Any("error", err))
		return domain.Account{}, "", err
	}

	log.Info("account created by admin",
		slog.String("account_id", acct.ID),
		slog.String("role", role),
	)
	return acct, tempPassword, nil
}

// UpdateAccount applies the provided fields and returns the updated account.
// Empty strings leave a field unchanged.
func (s *AccountService) UpdateAccount(ctx context.Context, id, name, role string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	if role != "" {
		if !domain.ValidRole(role) {
			return domain.Account{}, ErrInvalidRole
		}
		if err := s.Store.Accounts().UpdateAccountRole(ctx, id, role); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Account{}, ErrAccountNotFound
			}
			log.Error("failed to update role", slog.Any("error", err))
			return domain.Account{}, err
		}
		log.Info("account role updated",
			slog.String("account_id", id),
			slog.String("role", role),
		)
	}

	if name != "" {
		if err := s.Store.Accounts().UpdateAccountName(ctx, id, name); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Account{}, ErrAccountNotFound
			}
			log.Error("failed to update name", slog.Any("error", err))
			return domain.Account{}, err
		}
	}

	return s.GetAccount(ctx, id)
}

// DeleteAccount removes the account and everything it owns. Entries and
// stored-file records go with it atomically (single-statement cascade).
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	log := slogx.FromContext(ctx)

	if err := s.Store.Accounts().DeleteAccount(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		log.Error("failed to delete account", slog.Any("error", err))
		return err
	}

	log.Info("account deleted", slog.String("account_id", id))
	return nil
}

// AppendEntry adds a data entry to the account and returns the updated
// account. The insert is a single statement keyed by the account id, so
// concurrent appends to one account cannot overwrite each other.
func (s *AccountService) AppendEntry(ctx context.Context, accountID, title, content string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Accounts().GetAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}

	entry := domain.DataEntry{
		ID:        idx.New().String(),
		AccountID: accountID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Store.Entries().AppendEntry(ctx, entry); err != nil {
		log.Error("failed to append entry", slog.Any("error", err))
		return domain.Account{}, err
	}

	log.Debug("data entry appended",
		slog.String("account_id", accountID),
		slog.String("entry_id", entry.ID),
	)
	return s.GetAccount(ctx, accountID)
}

// DeleteEntry removes one data entry and returns the updated account.
// Unknown entry ids are a silent no-op; only an unknown account fails.
func (s *AccountService) DeleteEntry(ctx context.Context, accountID, entryID string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Accounts().GetAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}

	if err := s.Store.Entries().DeleteEntry(ctx, accountID, entryID); err != nil {
		log.Error("failed to delete entry", slog.Any("error", err))
		return domain.Account{}, err
	}

	return s.GetAccount(ctx, accountID)
}

func (s *AccountService) attachEntries(ctx context.Context, acct domain.Account) (domain.Account, error) {
	entries, err := s.Store.Entries().ListByAccount(ctx, acct.ID)
	if err != nil {
		return domain.Account{}, err
	}
	if entries == nil {
		entries = []domain.DataEntry{} // serialize as [], not null
	}
	acct.UploadedData = entries
	return acct, nil
}
