package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath    = errors.New("invalid file path")
	ErrObjectNotFound = errors.New("file not found")
)

// FileStorage stores objects under slash separated keys such as
// "attendance/ab/abcdef.jpg".
type FileStorage interface {
	// Upload writes the object and returns its clean key
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	// Download opens the object for reading. Callers close it.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL the object is served at
	URL(key string) string
}
