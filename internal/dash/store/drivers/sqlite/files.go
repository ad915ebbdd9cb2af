package sqlite

import (
	"context"

	"github.com/datadash-io/datadash/internal/dash/domain"
)

type filesRepo struct {
	db querier
}

const fileColumns = `stored_name, account_id, original_name, size_bytes, created_at`

func (r *filesRepo) CreateFile(ctx context.Context, f domain.StoredFile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stored_files (stored_name, account_id, original_name, size_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		f.StoredName, f.AccountID, f.OriginalName, f.SizeBytes, f.CreatedAt)
	return mapUnique(err)
}

func (r *filesRepo) GetFileByName(ctx context.Context, storedName string) (domain.StoredFile, error) {
	var f domain.StoredFile
	err := r.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM stored_files WHERE stored_name = ?`, storedName).
		Scan(&f.StoredName, &f.AccountID, &f.OriginalName, &f.SizeBytes, &f.CreatedAt)
	if err != nil {
		return domain.StoredFile{}, mapNotFound(err)
	}
	return f, nil
}

func (r *filesRepo) ListFilesByAccount(ctx context.Context, accountID string) ([]domain.StoredFile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM stored_files WHERE account_id = ? ORDER BY stored_name DESC`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFiles(rows)
}

func (r *filesRepo) ListFiles(ctx context.Context) ([]domain.StoredFile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM stored_files ORDER BY stored_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFiles(rows)
}

func (r *filesRepo) DeleteFile(ctx context.Context, storedName string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM stored_files WHERE stored_name = ?`, storedName)
	return err
}

func scanFiles(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]domain.StoredFile, error) {
	var files []domain.StoredFile
	for rows.Next() {
		var f domain.StoredFile
		if err := rows.Scan(&f.StoredName, &f.AccountID, &f.OriginalName, &f.SizeBytes, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
