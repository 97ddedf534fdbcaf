package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
)

type photoStoreStub struct {
	records   []pgrepo.PhotoRecord
	addErr    error
	deleteKey string
	removedID int64
}

func (s *photoStoreStub) Add(_ context.Context, userID int64, objectKey string, position int) (pgrepo.PhotoRecord, error) {
	if s.addErr != nil {
		return pgrepo.PhotoRecord{}, s.addErr
	}
	rec := pgrepo.PhotoRecord{
		ID:         int64(len(s.records) + 1),
		UserID:     userID,
		ObjectKey:  objectKey,
		Position:   position,
		UploadedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *photoStoreStub) ListForUser(context.Context, int64) ([]pgrepo.PhotoRecord, error) {
	return s.records, nil
}

func (s *photoStoreStub) Delete(_ context.Context, _, photoID int64) (string, error) {
	s.removedID = photoID
	return s.deleteKey, nil
}

type storageStub struct {
	putKeys     []string
	removedKeys []string
	putErr      error
}

func (s *storageStub) Put(_ context.Context, objectKey string, _ io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.putKeys = append(s.putKeys, objectKey)
	return nil
}

func (s *storageStub) PresignedURL(_ context.Context, objectKey string) (string, error) {
	return "https://cdn.example/" + objectKey, nil
}

func (s *storageStub) Remove(_ context.Context, objectKey string) error {
	s.removedKeys = append(s.removedKeys, objectKey)
	return nil
}

func TestUploadStoresAndPresigns(t *testing.T) {
	store := &photoStoreStub{}
	storage := &storageStub{}
	svc := NewService(store, storage)

	body := strings.NewReader("fake-jpeg-bytes")
	photo, err := svc.Upload(context.Background(), 101, body, int64(body.Len()), "image/jpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if len(storage.putKeys) != 1 {
		t.Fatalf("expected one stored object, got %d", len(storage.putKeys))
	}
	if !strings.HasPrefix(storage.putKeys[0], "photos/101/") {
		t.Fatalf("object key not namespaced per user: %q", storage.putKeys[0])
	}
	if !strings.HasPrefix(photo.URL, "https://cdn.example/photos/101/") {
		t.Fatalf("unexpected presigned link: %q", photo.URL)
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	svc := NewService(&photoStoreStub{}, &storageStub{})

	body := strings.NewReader("x")
	if _, err := svc.Upload(context.Background(), 101, body, 1, "image/gif"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for content type, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), 101, body, maxUploadBytes+1, "image/jpeg"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for oversized upload, got %v", err)
	}
}

func TestUploadEnforcesPhotoLimit(t *testing.T) {
	store := &photoStoreStub{}
	for i := 0; i < maxPhotosPerUser; i++ {
		store.records = append(store.records, pgrepo.PhotoRecord{ID: int64(i + 1), UserID: 101})
	}
	svc := NewService(store, &storageStub{})

	body := strings.NewReader("x")
	if _, err := svc.Upload(context.Background(), 101, body, 1, "image/jpeg"); !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("expected ErrTooManyFiles, got %v", err)
	}
}

func TestUploadCleansUpOrphanedObject(t *testing.T) {
	store := &photoStoreStub{addErr: errors.New("insert failed")}
	storage := &storageStub{}
	svc := NewService(store, storage)

	body := strings.NewReader("x")
	if _, err := svc.Upload(context.Background(), 101, body, 1, "image/jpeg"); err == nil {
		t.Fatal("expected upload to fail")
	}

	if len(storage.removedKeys) != 1 || storage.removedKeys[0] != storage.putKeys[0] {
		t.Fatalf("orphaned object not removed: put %v removed %v", storage.putKeys, storage.removedKeys)
	}
}

func TestDeleteRemovesObject(t *testing.T) {
	store := &photoStoreStub{deleteKey: "photos/101/abc"}
	storage := &storageStub{}
	svc := NewService(store, storage)

	if err := svc.Delete(context.Background(), 101, 5); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.removedID != 5 {
		t.Fatalf("wrong photo deleted: %d", store.removedID)
	}
	if len(storage.removedKeys) != 1 || storage.removedKeys[0] != "photos/101/abc" {
		t.Fatalf("object not removed: %v", storage.removedKeys)
	}
}

func TestDeleteMissingPhoto(t *testing.T) {
	svc := NewService(&photoStoreStub{deleteKey: ""}, &storageStub{})

	if err := svc.Delete(context.Background(), 101, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
