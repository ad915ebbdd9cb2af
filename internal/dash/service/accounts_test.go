package service_test

import (
	"context"
	"testing"

	"github.com/datadash-io/datadash/internal/dash/domain"
	"github.com/datadash-io/datadash/internal/dash/service"
	"github.com/datadash-io/datadash/internal/dash/store/drivers/sqlite"
	"github.com/datadash-io/datadash/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T) (*service.AccountService, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return &service.AccountService{Store: st}, st
}

func TestCreateAccountIssuesTempPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	acct, tempPassword, err := svc.CreateAccount(ctx, "Eve", "eve@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, acct.Role)
	require.Len(t, tempPassword, 12)
	require.NotEqual(t, tempPassword, acct.PasswordHash)

	// The temporary password must actually open the account.
	require.NoError(t, cryptox.VerifyPassword(tempPassword, acct.PasswordHash))

	_, _, err = svc.CreateAccount(ctx, "Eve2", "eve@example.com", domain.RoleUser)
	require.ErrorIs(t, err, service.ErrDuplicateAccount)
}

func TestCreateAccountRejectsBadRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	_, _, err := svc.CreateAccount(ctx, "Mallory", "mallory@example.com", "superuser")
	require.ErrorIs(t, err, service.ErrInvalidRole)
}

func TestGetAccountPopulatesEntries(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	acct, _, err := svc.CreateAccount(ctx, "Frank", "frank@example.com", domain.RoleUser)
	require.NoError(t, err)

	got, err := svc.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UploadedData)
	require.Empty(t, got.UploadedData)

	_, err = svc.GetAccount(ctx, "01JUNKJUNKJUNKJUNKJUNKJUNK")
	require.ErrorIs(t, err, service.ErrAccountNotFound)
}

func TestAppendAndDeleteEntry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	acct, _, err := svc.CreateAccount(ctx, "Grace", "grace@example.com", domain.RoleUser)
	require.NoError(t, err)

	updated, err := svc.AppendEntry(ctx, acct.ID, "Q1 revenue", "Label,Value\nJan,10")
	require.NoError(t, err)
	require.Len(t, updated.UploadedData, 1)

	entry := updated.UploadedData[0]
	require.Equal(t, "Q1 revenue", entry.Title)
	require.Equal(t, "Label,Value\nJan,10", entry.Content)
	require.False(t, entry.CreatedAt.IsZero())

	updated, err = svc.AppendEntry(ctx, acct.ID, "Q2 revenue", "Label,Value\nApr,20")
	require.NoError(t, err)
	require.Len(t, updated.UploadedData, 2)
	// Entries come back in insertion order.
	require.Equal(t, "Q1 revenue", updated.UploadedData[0].Title)
	require.Equal(t, "Q2 revenue", updated.UploadedData[1].Title)

	updated, err = svc.DeleteEntry(ctx, acct.ID, entry.ID)
	require.NoError(t, err)
	require.Len(t, updated.UploadedData, 1)
	require.Equal(t, "Q2 revenue", updated.UploadedData[0].Title)

	// Deleting an unknown entry id is a no-op, not an error.
	updated, err = svc.DeleteEntry(ctx, acct.ID, entry.ID)
	require.NoError(t, err)
	require.Len(t, updated.UploadedData, 1)
}

func TestAppendEntryUnknownAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	_, err := svc.AppendEntry(ctx, "01JUNKJUNKJUNKJUNKJUNKJUNK", "t", "c")
	require.ErrorIs(t, err, service.ErrAccountNotFound)

	_, err = svc.DeleteEntry(ctx, "01JUNKJUNKJUNKJUNKJUNKJUNK", "whatever")
	require.ErrorIs(t, err, service.ErrAccountNotFound)
}

func TestUpdateAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	acct, _, err := svc.CreateAccount(ctx, "Heidi", "heidi@example.com", domain.RoleUser)
	require.NoError(t, err)

	updated, err := svc.UpdateAccount(ctx, acct.ID, "", domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, updated.Role)
	require.Equal(t, "Heidi", updated.Name)

	updated, err = svc.UpdateAccount(ctx, acct.ID, "Heidi H.", "")
	require.NoError(t, err)
	require.Equal(t, "Heidi H.", updated.Name)
	require.Equal(t, domain.RoleAdmin, updated.Role)

	_, err = svc.UpdateAccount(ctx, acct.ID, "", "root")
	require.ErrorIs(t, err, service.ErrInvalidRole)

	_, err = svc.UpdateAccount(ctx, "01JUNKJUNKJUNKJUNKJUNKJUNK", "", domain.RoleUser)
	require.ErrorIs(t, err, service.ErrAccountNotFound)
}

func TestDeleteAccountCascades(t *testing.T) {
	ctx := context.Background()
	svc, st := newAccountService(t)

	acct, _, err := svc.CreateAccount(ctx, "Ivan", "ivan@example.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = svc.AppendEntry(ctx, acct.ID, "doomed", "data")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, acct.ID))

	_, err = svc.GetAccount(ctx, acct.ID)
	require.ErrorIs(t, err, service.ErrAccountNotFound)

	entries, err := st.Entries().ListByAccount(ctx, acct.ID)
	require.NoError(t, err)
	require.Empty(t, entries)

	require.ErrorIs(t, svc.DeleteAccount(ctx, acct.ID), service.ErrAccountNotFound)
}

func TestListAccountsIncludesEntries(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	a, _, err := svc.CreateAccount(ctx, "Judy", "judy@example.com", domain.RoleUser)
	require.NoError(t, err)
	_, _, err = svc.CreateAccount(ctx, "Karl", "karl@example.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = svc.AppendEntry(ctx, a.ID, "only judy has one", "x")
	require.NoError(t, err)

	accounts, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	byEmail := map[string]domain.Account{}
	for _, acct := range accounts {
		byEmail[acct.Email] = acct
	}
	require.Len(t, byEmail["judy@example.com"].UploadedData, 1)
	require.Empty(t, byEmail["karl@example.com"].UploadedData)
	require.NotNil(t, byEmail["karl@example.com"].UploadedData)
}
