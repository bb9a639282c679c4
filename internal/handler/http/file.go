package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/file"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/storage"
	"github.com/go-chi/chi/v5"
)

type FileHandler interface {
	// GET /files/attendance/*
	ServeAttendancePhoto(w http.ResponseWriter, r *http.Request)
}

type fileHandlerImpl struct {
	storage storage.FileStorage
}

func NewFileHandler(fileStorage storage.FileStorage) FileHandler {
	return &fileHandlerImpl{storage: fileStorage}
}

// ServeAttendancePhoto implements FileHandler.
func (h *fileHandlerImpl) ServeAttendancePhoto(w http.ResponseWriter, r *http.Request) {
	key := file.BucketAttendance + "/" + chi.URLParam(r, "*")

	rc, err := h.storage.Download(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			response.NotFound(w, "File not found")
			return
		}
		response.HandleError(w, r, err)
		return
	}
	defer rc.Close()

	// Objects are content addressed, so a key never changes its bytes.
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}
