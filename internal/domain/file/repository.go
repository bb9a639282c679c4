package file

import "context"

type FileRepository interface {
	// GetByHash returns nil when no file with the content hash exists
	GetByHash(ctx context.Context, contentHash string) (*StoredFile, error)

	// Create returns ErrFileExists if the content hash is already present
	Create(ctx context.Context, f StoredFile) (StoredFile, error)
}
