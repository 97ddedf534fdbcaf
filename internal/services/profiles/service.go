package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/domain/enums"
	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("profile not found")
)

const (
	minAge            = 18
	maxDisplayNameLen = 100
	maxBioLen         = 1000
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
	Upsert(ctx context.Context, p pgrepo.ProfileUpsert) error
}

type ProfileInput struct {
	DisplayName string
	Birthdate   string
	Gender      string
	City        string
	Religion    string
	Education   string
	Occupation  string
	Bio         string
}

// Service manages the user's own profile. Every edit sends the profile
// back through moderation, so stale approvals cannot linger on changed
// content.
type Service struct {
	store ProfileStore
	now   func() time.Time
}

func NewService(store ProfileStore) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Get(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error) {
	if userID <= 0 {
		return pgrepo.ProfileRecord{}, ErrValidation
	}

	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return pgrepo.ProfileRecord{}, ErrNotFound
		}
		return pgrepo.ProfileRecord{}, fmt.Errorf("get profile: %w", err)
	}
	return rec, nil
}

func (s *Service) Save(ctx context.Context, userID int64, input ProfileInput) (pgrepo.ProfileRecord, error) {
	if userID <= 0 {
		return pgrepo.ProfileRecord{}, ErrValidation
	}

	upsert, err := s.validate(userID, input)
	if err != nil {
		return pgrepo.ProfileRecord{}, err
	}

	if err := s.store.Upsert(ctx, upsert); err != nil {
		return pgrepo.ProfileRecord{}, fmt.Errorf("save profile: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *Service) validate(userID int64, input ProfileInput) (pgrepo.ProfileUpsert, error) {
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" || len(displayName) > maxDisplayNameLen {
		return pgrepo.ProfileUpsert{}, ErrValidation
	}

	birthdate, err := time.Parse("2006-01-02", strings.TrimSpace(input.Birthdate))
	if err != nil {
		return pgrepo.ProfileUpsert{}, ErrValidation
	}
	if age(birthdate, s.now()) < minAge {
		return pgrepo.ProfileUpsert{}, ErrValidation
	}

	gender := strings.ToLower(strings.TrimSpace(input.Gender))
	switch gender {
	case "male", "female", "other":
	default:
		return pgrepo.ProfileUpsert{}, ErrValidation
	}

	bio := strings.TrimSpace(input.Bio)
	if len(bio) > maxBioLen {
		return pgrepo.ProfileUpsert{}, ErrValidation
	}

	return pgrepo.ProfileUpsert{
		UserID:      userID,
		DisplayName: displayName,
		Birthdate:   &birthdate,
		Gender:      gender,
		City:        strings.TrimSpace(input.City),
		Religion:    strings.TrimSpace(input.Religion),
		Education:   strings.TrimSpace(input.Education),
		Occupation:  strings.TrimSpace(input.Occupation),
		Bio:         bio,
	}, nil
}

// IsApproved reports whether the profile cleared moderation.
func IsApproved(rec pgrepo.ProfileRecord) bool {
	return rec.ApprovalStatus == string(enums.ApprovalApproved)
}

func age(birthdate, now time.Time) int {
	years := now.Year() - birthdate.Year()
	if now.YearDay() < birthdate.YearDay() {
		years--
	}
	return years
}
