package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoding
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/file"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/storage"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

const (
	// MaxPhotoWidth is the widest stored photo; wider uploads are downscaled.
	MaxPhotoWidth = 1920
	jpegQuality   = 85
	storedMime    = "image/jpeg"
)

var allowedMimeTypes = []string{"image/jpeg", "image/png"}

type FileServiceImpl struct {
	file.FileRepository
	storage storage.FileStorage
	maxSize int64
}

func NewFileService(fileRepository file.FileRepository, fileStorage storage.FileStorage, maxSize int64) file.FileService {
	return &FileServiceImpl{
		FileRepository: fileRepository,
		storage:        fileStorage,
		maxSize:        maxSize,
	}
}

// ObjectKey is the content addressed key of a photo inside its bucket.
func ObjectKey(contentHash string) string {
	return path.Join(contentHash[:2], contentHash+".jpg")
}

// StorePhoto implements file.FileService.
func (s *FileServiceImpl) StorePhoto(ctx context.Context, req file.StorePhotoRequest) (file.StoreResult, error) {
	if len(req.Content) == 0 {
		return file.StoreResult{}, file.ErrEmptyFile
	}
	if s.maxSize > 0 && int64(len(req.Content)) > s.maxSize {
		return file.StoreResult{}, file.ErrFileTooLarge
	}
	if mt := mimetype.Detect(req.Content); !mimetype.EqualsAny(mt.String(), allowedMimeTypes...) {
		return file.StoreResult{}, file.ErrUnsupportedFileType
	}

	sum := sha256.Sum256(req.Content)
	contentHash := hex.EncodeToString(sum[:])
	originalName := sanitizeName(req.OriginalName)

	existing, err := s.FileRepository.GetByHash(ctx, contentHash)
	if err != nil {
		return file.StoreResult{}, err
	}
	if existing != nil {
		return duplicateResult(*existing, originalName), nil
	}

	encoded, err := reencode(req.Content)
	if err != nil {
		return file.StoreResult{}, file.ErrUnsupportedFileType.WithCause(err)
	}

	objectKey := ObjectKey(contentHash)
	storageKey := path.Join(file.BucketAttendance, objectKey)

	exists, err := s.storage.Exists(ctx, storageKey)
	if err != nil {
		return file.StoreResult{}, fmt.Errorf("failed to check stored photo: %w", err)
	}
	if !exists {
		if _, err := s.storage.Upload(ctx, bytes.NewReader(encoded), storageKey, storedMime); err != nil {
			return file.StoreResult{}, fmt.Errorf("failed to upload photo: %w", err)
		}
	}

	stored, err := s.FileRepository.Create(ctx, file.StoredFile{
		ContentHash:  contentHash,
		Bucket:       file.BucketAttendance,
		ObjectKey:    objectKey,
		StoredName:   path.Base(objectKey),
		URL:          s.storage.URL(storageKey),
		OriginalName: originalName,
		MimeType:     storedMime,
		SizeBytes:    int64(len(encoded)),
	})
	if err != nil {
		if !errors.Is(err, file.ErrFileExists) {
			return file.StoreResult{}, err
		}
		// A concurrent upload of the same bytes won the insert.
		winner, err := s.FileRepository.GetByHash(ctx, contentHash)
		if err != nil {
			return file.StoreResult{}, err
		}
		if winner == nil {
			return file.StoreResult{}, fmt.Errorf("file %s vanished after conflict", contentHash)
		}
		return duplicateResult(*winner, originalName), nil
	}

	slog.InfoContext(ctx, "photo stored",
		"content_hash", contentHash,
		"size", stored.SizeBytes,
	)

	return file.StoreResult{
		URL:          stored.URL,
		ContentHash:  contentHash,
		IsDuplicate:  false,
		OriginalName: originalName,
	}, nil
}

func duplicateResult(f file.StoredFile, originalName string) file.StoreResult {
	return file.StoreResult{
		URL:          f.URL,
		ContentHash:  f.ContentHash,
		IsDuplicate:  true,
		OriginalName: originalName,
	}
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "photo"
	}
	return name
}

// reencode decodes the upload and writes it back as JPEG, which drops any
// EXIF block. Images wider than MaxPhotoWidth are scaled down.
func reencode(content []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxPhotoWidth {
		height := bounds.Dy() * MaxPhotoWidth / bounds.Dx()
		if height < 1 {
			height = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, MaxPhotoWidth, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
