package sqlite

import (
	"context"

	"github.com/datadash-io/datadash/internal/dash/domain"
)

type entriesRepo struct {
	db querier
}

func (r *entriesRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.DataEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, title, content, created_at
		 FROM data_entries WHERE account_id = ? ORDER BY id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.DataEntry
	for rows.Next() {
		var e domain.DataEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Title, &e.Content, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *entriesRepo) AppendEntry(ctx context.Context, e domain.DataEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO data_entries (id, account_id, title, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.AccountID, e.Title, e.Content, e.CreatedAt)
	return err
}

func (r *entriesRepo) DeleteEntry(ctx context.Context, accountID, entryID string) error {
	// Intentionally not checking rows affected: deleting an absent entry is
	// a silent no-op.
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM data_entries WHERE account_id = ? AND id = ?`, accountID, entryID)
	return err
}
