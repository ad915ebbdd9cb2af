package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/datadash-io/datadash/internal/dash/domain"
	"github.com/datadash-io/datadash/internal/dash/store"
	"github.com/datadash-io/datadash/internal/dash/store/drivers/sqlite"
	"github.com/datadash-io/datadash/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newAccount(email string) domain.Account {
	now := time.Now().UTC()
	return domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "hash",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAccountCreateAndFetch(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := newAccount("alice@example.com")
	require.NoError(t, st.Accounts().CreateAccount(ctx, acct))

	byID, err := st.Accounts().GetAccountByID(ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, acct.Email, byID.Email)

	byEmail, err := st.Accounts().GetAccountByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, acct.ID, byEmail.ID)
}

func TestAccountEmailUnique(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Accounts().CreateAccount(ctx, newAccount("dup@example.com")))

	err := st.Accounts().CreateAccount(ctx, newAccount("dup@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAccountNotFound(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Accounts().GetAccountByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	err = st.Accounts().UpdateAccountRole(ctx, idx.New().String(), domain.RoleAdmin)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = st.Accounts().DeleteAccount(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateAccountRole(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := newAccount("promote@example.com")
	require.NoError(t, st.Accounts().CreateAccount(ctx, acct))

	require.NoError(t, st.Accounts().UpdateAccountRole(ctx, acct.ID, domain.RoleAdmin))

	got, err := st.Accounts().GetAccountByID(ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)
}

func TestEntriesAppendListDelete(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := newAccount("entries@example.com")
	require.NoError(t, st.Accounts().CreateAccount(ctx, acct))

	first := domain.DataEntry{
		ID: idx.New().String(), AccountID: acct.ID,
		Title: "first", Content: "a,b", CreatedAt: time.Now().UTC(),
	}
	second := domain.DataEntry{
		ID: idx.New().String(), AccountID: acct.ID,
		Title: "second", Content: "c,d", CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Entries().AppendEntry(ctx, first))
	require.NoError(t, st.Entries().AppendEntry(ctx, second))

	entries, err := st.Entries().ListByAccount(ctx, acct.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "first", entries[0].Title) // creation order

	// Delete is idempotent: the second call is a silent no-op.
	require.NoError(t, st.Entries().DeleteEntry(ctx, acct.ID, first.ID))
	require.NoError(t, st.Entries().DeleteEntry(ctx, acct.ID, first.ID))

	entries, err = st.Entries().ListByAccount(ctx, acct.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "second", entries[0].Title)
}

func TestDeleteAccountCascades(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := newAccount("cascade@example.com")
	require.NoError(t, st.Accounts().CreateAccount(ctx, acct))
	require.NoError(t, st.Entries().AppendEntry(ctx, domain.DataEntry{
		ID: idx.New().String(), AccountID: acct.ID, Title: "t", CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, st.Files().CreateFile(ctx, domain.StoredFile{
		StoredName: idx.New().String(), AccountID: acct.ID,
		OriginalName: "data.csv", CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, st.Accounts().DeleteAccount(ctx, acct.ID))

	entries, err := st.Entries().ListByAccount(ctx, acct.ID)
	require.NoError(t, err)
	require.Empty(t, entries)

	files, err := st.Files().ListFilesByAccount(ctx, acct.ID)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestFilesRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := newAccount("files@example.com")
	require.NoError(t, st.Accounts().CreateAccount(ctx, acct))

	f := domain.StoredFile{
		StoredName:   idx.New().String(),
		AccountID:    acct.ID,
		OriginalName: "report.csv",
		SizeBytes:    42,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.Files().CreateFile(ctx, f))

	got, err := st.Files().GetFileByName(ctx, f.StoredName)
	require.NoError(t, err)
	require.Equal(t, "report.csv", got.OriginalName)
	require.Equal(t, acct.ID, got.AccountID)
	require.EqualValues(t, 42, got.SizeBytes)

	_, err = st.Files().GetFileByName(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := newAccount("tx@example.com")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, acct); err != nil {
			return err
		}
		return context.Canceled // force rollback
	})
	require.Error(t, err)

	_, err = st.Accounts().GetAccountByID(ctx, acct.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
