package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
)

type profileStoreStub struct {
	saved *pgrepo.ProfileUpsert
	rec   pgrepo.ProfileRecord
	err   error
}

func (s *profileStoreStub) Get(context.Context, int64) (pgrepo.ProfileRecord, error) {
	if s.err != nil {
		return pgrepo.ProfileRecord{}, s.err
	}
	return s.rec, nil
}

func (s *profileStoreStub) Upsert(_ context.Context, p pgrepo.ProfileUpsert) error {
	s.saved = &p
	return nil
}

func validInput() ProfileInput {
	return ProfileInput{
		DisplayName: "Ananya",
		Birthdate:   "1998-04-12",
		Gender:      "Female",
		City:        "Pune",
		Religion:    "Hindu",
		Education:   "Masters",
		Bio:         "hello",
	}
}

func newProfilesService(store ProfileStore) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestSaveNormalizesAndPersists(t *testing.T) {
	store := &profileStoreStub{rec: pgrepo.ProfileRecord{UserID: 101, ApprovalStatus: "pending"}}
	svc := newProfilesService(store)

	rec, err := svc.Save(context.Background(), 101, validInput())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if store.saved == nil {
		t.Fatal("expected upsert to be called")
	}
	if store.saved.Gender != "female" {
		t.Fatalf("gender must be lowercased: got %q", store.saved.Gender)
	}
	if rec.ApprovalStatus != "pending" {
		t.Fatalf("fresh profile must be pending: got %q", rec.ApprovalStatus)
	}
}

func TestSaveRejectsMinors(t *testing.T) {
	svc := newProfilesService(&profileStoreStub{})

	input := validInput()
	input.Birthdate = "2010-01-01"

	if _, err := svc.Save(context.Background(), 101, input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for underage profile, got %v", err)
	}
}

func TestSaveValidatesFields(t *testing.T) {
	svc := newProfilesService(&profileStoreStub{})

	cases := []struct {
		name   string
		mutate func(*ProfileInput)
	}{
		{"blank name", func(p *ProfileInput) { p.DisplayName = "  " }},
		{"bad birthdate", func(p *ProfileInput) { p.Birthdate = "12/04/1998" }},
		{"unknown gender", func(p *ProfileInput) { p.Gender = "unknown" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			if _, err := svc.Save(context.Background(), 101, input); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestGetMissingProfile(t *testing.T) {
	svc := newProfilesService(&profileStoreStub{err: pgrepo.ErrProfileNotFound})

	if _, err := svc.Get(context.Background(), 101); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
