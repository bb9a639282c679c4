package file

import "context"

// FileService stores attendance photos. Identical bytes always resolve to the
// same content hash and URL.
type FileService interface {
	StorePhoto(ctx context.Context, req StorePhotoRequest) (StoreResult, error)
}
