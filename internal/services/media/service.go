package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrTooManyFiles = errors.New("photo limit reached")
	ErrNotFound     = errors.New("photo not found")
)

const (
	maxPhotosPerUser = 6
	maxUploadBytes   = 5 << 20
)

type PhotoStore interface {
	Add(ctx context.Context, userID int64, objectKey string, position int) (pgrepo.PhotoRecord, error)
	ListForUser(ctx context.Context, userID int64) ([]pgrepo.PhotoRecord, error)
	Delete(ctx context.Context, userID, photoID int64) (string, error)
}

type ObjectStorage interface {
	Put(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, objectKey string) (string, error)
	Remove(ctx context.Context, objectKey string) error
}

type Photo struct {
	ID         int64
	Position   int
	URL        string
	UploadedAt time.Time
}

// Service handles profile photo upload, listing and removal. Object keys
// are namespaced per user; links are presigned on every read.
type Service struct {
	store   PhotoStore
	storage ObjectStorage
}

func NewService(store PhotoStore, storage ObjectStorage) *Service {
	return &Service{store: store, storage: storage}
}

func (s *Service) Upload(ctx context.Context, userID int64, body io.Reader, size int64, contentType string) (Photo, error) {
	if userID <= 0 || body == nil || size <= 0 {
		return Photo{}, ErrValidation
	}
	if size > maxUploadBytes {
		return Photo{}, ErrValidation
	}
	if !allowedContentType(contentType) {
		return Photo{}, ErrValidation
	}

	existing, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return Photo{}, fmt.Errorf("list photos: %w", err)
	}
	if len(existing) >= maxPhotosPerUser {
		return Photo{}, ErrTooManyFiles
	}

	objectKey := fmt.Sprintf("photos/%d/%s", userID, uuid.NewString())
	if err := s.storage.Put(ctx, objectKey, body, size, contentType); err != nil {
		return Photo{}, err
	}

	rec, err := s.store.Add(ctx, userID, objectKey, len(existing))
	if err != nil {
		// Best effort: do not leave an orphaned object behind the
		// failed row insert.
		_ = s.storage.Remove(ctx, objectKey)
		return Photo{}, fmt.Errorf("save photo record: %w", err)
	}

	return s.toPhoto(ctx, rec)
}

func (s *Service) List(ctx context.Context, userID int64) ([]Photo, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}

	records, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}

	photos := make([]Photo, 0, len(records))
	for _, rec := range records {
		photo, err := s.toPhoto(ctx, rec)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, nil
}

func (s *Service) Delete(ctx context.Context, userID, photoID int64) error {
	if userID <= 0 || photoID <= 0 {
		return ErrValidation
	}

	objectKey, err := s.store.Delete(ctx, userID, photoID)
	if err != nil {
		return fmt.Errorf("delete photo record: %w", err)
	}
	if objectKey == "" {
		return ErrNotFound
	}

	if err := s.storage.Remove(ctx, objectKey); err != nil {
		return err
	}
	return nil
}

func (s *Service) toPhoto(ctx context.Context, rec pgrepo.PhotoRecord) (Photo, error) {
	link, err := s.storage.PresignedURL(ctx, rec.ObjectKey)
	if err != nil {
		return Photo{}, err
	}
	return Photo{
		ID:         rec.ID,
		Position:   rec.Position,
		URL:        link,
		UploadedAt: rec.UploadedAt,
	}, nil
}

func allowedContentType(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}
