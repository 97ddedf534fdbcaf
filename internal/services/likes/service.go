package likes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/domain/rules"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrDailyLimit      = errors.New("daily likes limit reached")
	ErrDependenciesNil = errors.New("likes dependencies are not configured")
)

type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

// SwipeCountStore counts like-class swipe actions in a time window.
type SwipeCountStore interface {
	CountLikesInWindow(ctx context.Context, actorUserID int64, from, to time.Time) (int, error)
}

type Config struct {
	DailyLikeLimit  int
	DefaultTimezone string
}

// Snapshot is the quota view returned alongside swipe responses.
type Snapshot struct {
	DailyLikeCount int
	RemainingLikes int
	ResetAt        time.Time
}

// Service is the daily quota guard: it reports how many like-class actions
// an actor has spent today and whether one more is allowed. The binding
// enforcement happens in the swipe transaction; this view is advisory and
// feeds API responses.
type Service struct {
	swipes SwipeCountStore
	cfg    Config
	now    func() time.Time
}

func NewService(swipes SwipeCountStore, cfg Config) *Service {
	if cfg.DailyLikeLimit <= 0 {
		cfg.DailyLikeLimit = rules.DailyLikeLimit
	}
	if strings.TrimSpace(cfg.DefaultTimezone) == "" {
		cfg.DefaultTimezone = "UTC"
	}

	return &Service{
		swipes: swipes,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *Service) Limit() int {
	return s.cfg.DailyLikeLimit
}

// GetDailyLikeCount counts like and super-like actions by the actor within
// the calendar day containing date. Passes never count.
func (s *Service) GetDailyLikeCount(ctx context.Context, actorID int64, date time.Time, timezone string) (int, error) {
	if actorID <= 0 {
		return 0, ErrValidation
	}
	if s.swipes == nil {
		return 0, ErrDependenciesNil
	}
	if date.IsZero() {
		date = s.now().UTC()
	}

	loc, _ := s.resolveTimezone(timezone)
	from, to := rules.DayWindow(date, loc)

	count, err := s.swipes.CountLikesInWindow(ctx, actorID, from, to)
	if err != nil {
		return 0, fmt.Errorf("count daily likes: %w", err)
	}

	return count, nil
}

func (s *Service) CanLikeToday(ctx context.Context, actorID int64, date time.Time, timezone string) (bool, error) {
	count, err := s.GetDailyLikeCount(ctx, actorID, date, timezone)
	if err != nil {
		return false, err
	}
	return count < s.cfg.DailyLikeLimit, nil
}

func (s *Service) GetSnapshot(ctx context.Context, actorID int64, timezone string) (Snapshot, error) {
	if actorID <= 0 {
		return Snapshot{}, ErrValidation
	}

	now := s.now().UTC()
	loc, _ := s.resolveTimezone(timezone)

	count, err := s.GetDailyLikeCount(ctx, actorID, now, timezone)
	if err != nil {
		return Snapshot{}, err
	}

	remaining := s.cfg.DailyLikeLimit - count
	if remaining < 0 {
		remaining = 0
	}

	return Snapshot{
		DailyLikeCount: count,
		RemainingLikes: remaining,
		ResetAt:        rules.NextResetAt(now, loc),
	}, nil
}

func (s *Service) resolveTimezone(explicit string) (*time.Location, string) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" {
		candidate = strings.TrimSpace(s.cfg.DefaultTimezone)
	}
	if candidate == "" {
		candidate = "UTC"
	}

	loc, err := time.LoadLocation(candidate)
	if err != nil {
		return time.UTC, "UTC"
	}
	return loc, candidate
}
