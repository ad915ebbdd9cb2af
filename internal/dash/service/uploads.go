package service

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/datadash-io/datadash/internal/dash/domain"
	"github.com/datadash-io/datadash/internal/dash/store"
	"github.com/datadash-io/datadash/pkg/idx"
	"github.com/datadash-io/datadash/pkg/slogx"
)

var (
	ErrNoFile       = errors.New("no file provided")
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidName  = errors.New("invalid stored file name")
)

// UploadService stores opaque blobs in a flat content directory and records
// their ownership. Stored names are ULIDs, assigned here, never derived from
// the client-supplied filename.
type UploadService struct {
	Store store.Store
	Dir   string
}

// Init makes sure the content directory exists.
func (s *UploadService) Init() error {
	return os.MkdirAll(s.Dir, 0o750)
}

// StoreFile writes the full stream to the content area, then records the
// blob and its owner. The bytes are opaque: no size limit, no content
// sniffing. A write failure removes the partial file so the content area
// never holds unrecorded garbage.
func (s *UploadService) StoreFile(ctx context.Context, ownerID, originalName string, r io.Reader) (domain.StoredFile, error) {
	log := slogx.FromContext(ctx)

	if r == nil {
		return domain.StoredFile{}, ErrNoFile
	}

	storedName := idx.New().String()
	path := filepath.Join(s.Dir, storedName)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		log.Error("failed to create stored file", slog.Any("error", err))
		return domain.StoredFile{}, err
	}

	size, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		log.Error("failed to write stored file", slog.Any("error", err))
		return domain.StoredFile{}, err
	}

	file := domain.StoredFile{
		StoredName:   storedName,
		AccountID:    ownerID,
		OriginalName: originalName,
		SizeBytes:    size,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Files().CreateFile(ctx, file); err != nil {
		_ = os.Remove(path)
		log.Error("failed to record stored file", slog.Any("error", err))
		return domain.StoredFile{}, err
	}

	log.Info("file stored",
		slog.String("stored_name", storedName),
		slog.String("account_id", ownerID),
		slog.Int64("size_bytes", size),
	)
	return file, nil
}

// OpenFile resolves a stored name and opens the blob for reading. The
// caller closes the returned file. Stored names must parse as ULIDs, which
// rules out path traversal before the filesystem is ever touched.
func (s *UploadService) OpenFile(ctx context.Context, storedName string) (*os.File, domain.StoredFile, error) {
	if _, err := idx.Parse(storedName); err != nil {
		return nil, domain.StoredFile{}, ErrInvalidName
	}

	record, err := s.Store.Files().GetFileByName(ctx, storedName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.StoredFile{}, ErrFileNotFound
		}
		return nil, domain.StoredFile{}, err
	}

	f, err := os.Open(filepath.Join(s.Dir, storedName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Recorded but bytes gone; housekeeping will reap the record.
			return nil, domain.StoredFile{}, ErrFileNotFound
		}
		return nil, domain.StoredFile{}, err
	}

	return f, record, nil
}

// RemoveOrphans deletes file records whose bytes have been removed from the
// content area out-of-band. Returns the number of records reaped.
func (s *UploadService) RemoveOrphans(ctx context.Context) (int, error) {
	files, err := s.Store.Files().ListFiles(ctx)
	if err != nil {
		return 0, err
	}

	reaped := 0
	for _, f := range files {
		_, err := os.Stat(filepath.Join(s.Dir, f.StoredName))
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := s.Store.Files().DeleteFile(ctx, f.StoredName); err != nil {
			return reaped, err
		}
		reaped++
	}
	return reaped, nil
}
