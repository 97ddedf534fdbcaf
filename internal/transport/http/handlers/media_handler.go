package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
	mediasvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/media"
	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/dto"
	httperrors "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/errors"
)

const uploadFormField = "photo"

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "photo file is required")
		return
	}
	defer file.Close()

	photo, err := h.service.Upload(r.Context(), identity.UserID, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapPhoto(photo))
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	photos, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		handleMediaError(w, err)
		return
	}

	items := make([]dto.PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		items = append(items, mapPhoto(photo))
	}

	httperrors.Write(w, http.StatusOK, dto.PhotosResponse{Items: items})
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	photoID := pathID(r, "photoID")
	if photoID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid photo id")
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, photoID); err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func handleMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid media request")
	case errors.Is(err, mediasvc.ErrTooManyFiles):
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{
			Code:    "PHOTO_LIMIT_REACHED",
			Message: "photo limit reached",
		})
	case errors.Is(err, mediasvc.ErrNotFound):
		writeNotFound(w, "PHOTO_NOT_FOUND", "photo not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process media request")
	}
}

func mapPhoto(photo mediasvc.Photo) dto.PhotoResponse {
	return dto.PhotoResponse{
		ID:         photo.ID,
		Position:   photo.Position,
		URL:        photo.URL,
		UploadedAt: photo.UploadedAt,
	}
}
