package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/file"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const filesContentHashKey = "files_content_hash_key"

type fileRepositoryImpl struct {
	db *database.DB
}

func NewFileRepository(db *database.DB) file.FileRepository {
	return &fileRepositoryImpl{db: db}
}

// GetByHash implements file.FileRepository.
func (r *fileRepositoryImpl) GetByHash(ctx context.Context, contentHash string) (*file.StoredFile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, content_hash, bucket, object_key, stored_name, url, original_name, mime_type, size, created_at
		FROM files
		WHERE content_hash = $1
	`

	var f file.StoredFile
	err := q.QueryRow(ctx, query, contentHash).Scan(
		&f.ID, &f.ContentHash, &f.Bucket, &f.ObjectKey, &f.StoredName, &f.URL,
		&f.OriginalName, &f.MimeType, &f.SizeBytes, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get file by hash: %w", err)
	}

	return &f, nil
}

// Create implements file.FileRepository.
func (r *fileRepositoryImpl) Create(ctx context.Context, f file.StoredFile) (file.StoredFile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO files (content_hash, bucket, object_key, stored_name, url, original_name, mime_type, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		f.ContentHash, f.Bucket, f.ObjectKey, f.StoredName, f.URL,
		f.OriginalName, f.MimeType, f.SizeBytes,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, filesContentHashKey) {
			return file.StoredFile{}, file.ErrFileExists
		}
		return file.StoredFile{}, fmt.Errorf("failed to create file: %w", err)
	}

	return f, nil
}
