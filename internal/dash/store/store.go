package store

import (
	"context"
	"errors"

	"github.com/datadash-io/datadash/internal/dash/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Accounts() Accounts
	Entries() Entries
	Files() Files

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns the account without its entries.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail is used during login and duplicate checks.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// ListAccounts returns all accounts ordered by id (creation order),
	// entries not populated.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// CreateAccount inserts a new account (id assigned by the caller via
	// ULID). Returns ErrAlreadyExists on an email collision.
	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdateAccountRole sets the role and bumps updated_at. ErrNotFound when
	// the id does not resolve.
	UpdateAccountRole(ctx context.Context, id, role string) error

	// UpdateAccountName sets the display name and bumps updated_at.
	UpdateAccountName(ctx context.Context, id, name string) error

	// DeleteAccount removes the account. Entries cascade per schema.
	DeleteAccount(ctx context.Context, id string) error

	// IsEmpty reports whether the accounts table has no rows.
	IsEmpty(ctx context.Context) (bool, error)
}

type Entries interface {
	// ListByAccount returns the account's entries in creation order.
	ListByAccount(ctx context.Context, accountID string) ([]domain.DataEntry, error)

	// AppendEntry inserts a new entry for the account. The insert is a
	// single statement, so concurrent appends cannot lose each other.
	AppendEntry(ctx context.Context, e domain.DataEntry) error

	// DeleteEntry removes the entry if present. Deleting an absent entry is
	// not an error; the operation is idempotent.
	DeleteEntry(ctx context.Context, accountID, entryID string) error
}

type Files interface {
	// CreateFile records an uploaded blob and its owner.
	CreateFile(ctx context.Context, f domain.StoredFile) error

	// GetFileByName resolves a stored name to its record.
	GetFileByName(ctx context.Context, storedName string) (domain.StoredFile, error)

	// ListFilesByAccount returns an account's uploads, newest first.
	ListFilesByAccount(ctx context.Context, accountID string) ([]domain.StoredFile, error)

	// ListFiles returns every recorded upload. Used by housekeeping.
	ListFiles(ctx context.Context) ([]domain.StoredFile, error)

	// DeleteFile removes the record for a stored name.
	DeleteFile(ctx context.Context, storedName string) error
}
