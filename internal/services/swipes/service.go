package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/domain/rules"
	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
	likessvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/likes"
)

const (
	actionLike      = "LIKE"
	actionSuperLike = "SUPER_LIKE"
	actionPass      = "PASS"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrSelfAction        = errors.New("cannot swipe on yourself")
	ErrUnsupportedAction = errors.New("unsupported action")

	errAlreadySwiped = errors.New("already swiped")
)

type SwipeStore interface {
	LockPair(ctx context.Context, tx pgx.Tx, userA, userB int64) error
	Insert(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, action string, now time.Time) (pgrepo.SwipeRecord, bool, error)
	GetByPair(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (pgrepo.SwipeRecord, error)
	GetReciprocalLike(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (pgrepo.SwipeRecord, error)
	LinkMutual(ctx context.Context, tx pgx.Tx, firstID, secondID int64, matchedAt time.Time) error
}

type QuotaStore interface {
	ConsumeLikeWithLimit(ctx context.Context, tx pgx.Tx, userID int64, dayKey, timezone string, limit int) (int, error)
}

type ConnectionStore interface {
	Create(ctx context.Context, tx pgx.Tx, userID, targetID int64, matchedAt time.Time) (int64, error)
}

type ConversationStore interface {
	CreateForConnection(ctx context.Context, tx pgx.Tx, connectionID int64) (pgrepo.ConversationRecord, error)
}

type RateLimiter interface {
	AllowLike(ctx context.Context, userID int64) (int64, bool, error)
}

type QuotaSnapshotProvider interface {
	GetSnapshot(ctx context.Context, actorID int64, timezone string) (likessvc.Snapshot, error)
}

type Config struct {
	DailyLikeLimit  int
	DefaultTimezone string
}

type SwipeResult struct {
	Swipe         pgrepo.SwipeRecord
	AlreadySwiped bool
	MatchCreated  bool
	MatchedAt     *time.Time
	ConnectionID  int64
	Quota         likessvc.Snapshot
}

// Service records directed swipe actions and materializes mutual matches.
// Quota consume, swipe insert, reciprocal detection, linking and connection
// creation all run in one transaction, so a crashed request can never leave
// one side of a pair matched and the other not. The transaction opens with
// an advisory lock on the unordered pair, so crossing likes run one after
// the other and the later one always sees the earlier edge.
type Service struct {
	pool          *pgxpool.Pool
	swipeStore    SwipeStore
	quotaStore    QuotaStore
	connections   ConnectionStore
	conversations ConversationStore
	rateLimiter   RateLimiter
	quotaView     QuotaSnapshotProvider
	cfg           Config
	now           func() time.Time
	runTx         func(context.Context, *pgxpool.Pool, func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool          *pgxpool.Pool
	SwipeStore    SwipeStore
	QuotaStore    QuotaStore
	Connections   ConnectionStore
	Conversations ConversationStore
	RateLimiter   RateLimiter
	QuotaView     QuotaSnapshotProvider
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.DailyLikeLimit <= 0 {
		cfg.DailyLikeLimit = rules.DailyLikeLimit
	}
	if strings.TrimSpace(cfg.DefaultTimezone) == "" {
		cfg.DefaultTimezone = "UTC"
	}

	return &Service{
		pool:          deps.Pool,
		swipeStore:    deps.SwipeStore,
		quotaStore:    deps.QuotaStore,
		connections:   deps.Connections,
		conversations: deps.Conversations,
		rateLimiter:   deps.RateLimiter,
		quotaView:     deps.QuotaView,
		cfg:           cfg,
		now:           time.Now,
		runTx:         pgrepo.WithTx,
	}
}

func (s *Service) Swipe(ctx context.Context, actorID, targetID int64, action, timezone string) (SwipeResult, error) {
	if actorID <= 0 || targetID <= 0 {
		return SwipeResult{}, ErrValidation
	}
	if actorID == targetID {
		return SwipeResult{}, ErrSelfAction
	}

	normalizedAction, err := normalizeAction(action)
	if err != nil {
		return SwipeResult{}, err
	}

	if s.swipeStore == nil || s.quotaStore == nil || s.connections == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	isLikeClass := normalizedAction == actionLike || normalizedAction == actionSuperLike

	if isLikeClass && s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowLike(ctx, actorID)
		if err != nil {
			return SwipeResult{}, fmt.Errorf("apply like rate limiter: %w", err)
		}
		if !allowed {
			return SwipeResult{}, likessvc.TooFastError{RetryAfterSec: retryAfter}
		}
	}

	now := s.now().UTC()
	loc, tzName := s.resolveTimezone(timezone)
	dayKey := rules.DayKey(now, loc)

	result := SwipeResult{}
	err = s.runTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		// Serialize the unordered pair. Two crossing first-time likes
		// otherwise each miss the other's uncommitted insert and both
		// commit unmatched with no later path re-running detection.
		if err := s.swipeStore.LockPair(txCtx, tx, actorID, targetID); err != nil {
			return err
		}

		existing, err := s.swipeStore.GetByPair(txCtx, tx, actorID, targetID)
		if err == nil {
			result.Swipe = existing
			result.AlreadySwiped = true
			result.MatchCreated = false
			result.MatchedAt = existing.MatchedAt
			return nil
		}
		if !errors.Is(err, pgrepo.ErrSwipeNotFound) {
			return err
		}

		if isLikeClass {
			if _, err := s.quotaStore.ConsumeLikeWithLimit(txCtx, tx, actorID, dayKey, tzName, s.cfg.DailyLikeLimit); err != nil {
				if errors.Is(err, pgrepo.ErrLikesLimitReached) {
					return likessvc.ErrDailyLimit
				}
				return err
			}
		}

		rec, inserted, err := s.swipeStore.Insert(txCtx, tx, actorID, targetID, normalizedAction, now)
		if err != nil {
			return err
		}
		if !inserted {
			// Lost an insert race for the same pair; roll back so the
			// quota consume above is not charged for a duplicate.
			return errAlreadySwiped
		}
		result.Swipe = rec

		if !isLikeClass {
			return nil
		}

		reciprocal, err := s.swipeStore.GetReciprocalLike(txCtx, tx, actorID, targetID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrSwipeNotFound) {
				return nil
			}
			return err
		}

		matchedAt := now
		if err := s.swipeStore.LinkMutual(txCtx, tx, rec.ID, reciprocal.ID, matchedAt); err != nil {
			return err
		}

		connectionID, err := s.connections.Create(txCtx, tx, actorID, targetID, matchedAt)
		if err != nil {
			return err
		}
		if s.conversations != nil {
			if _, err := s.conversations.CreateForConnection(txCtx, tx, connectionID); err != nil {
				return err
			}
		}

		result.MatchCreated = true
		result.MatchedAt = &matchedAt
		result.ConnectionID = connectionID
		result.Swipe.IsMatch = true
		result.Swipe.MatchedAt = &matchedAt
		return nil
	})
	if errors.Is(err, errAlreadySwiped) {
		return s.loadExisting(ctx, actorID, targetID, timezone)
	}
	if err != nil {
		return SwipeResult{}, err
	}

	snapshot, err := s.snapshot(ctx, actorID, timezone)
	if err != nil {
		return SwipeResult{}, err
	}
	result.Quota = snapshot

	return result, nil
}

func (s *Service) loadExisting(ctx context.Context, actorID, targetID int64, timezone string) (SwipeResult, error) {
	result := SwipeResult{AlreadySwiped: true}
	if err := s.runTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		rec, err := s.swipeStore.GetByPair(txCtx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		result.Swipe = rec
		result.MatchedAt = rec.MatchedAt
		return nil
	}); err != nil {
		return SwipeResult{}, err
	}

	snapshot, err := s.snapshot(ctx, actorID, timezone)
	if err != nil {
		return SwipeResult{}, err
	}
	result.Quota = snapshot

	return result, nil
}

func (s *Service) snapshot(ctx context.Context, actorID int64, timezone string) (likessvc.Snapshot, error) {
	if s.quotaView == nil {
		return likessvc.Snapshot{}, nil
	}
	snapshot, err := s.quotaView.GetSnapshot(ctx, actorID, timezone)
	if err != nil {
		return likessvc.Snapshot{}, fmt.Errorf("read quota snapshot: %w", err)
	}
	return snapshot, nil
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

func normalizeAction(input string) (string, error) {
	value := strings.ToUpper(strings.TrimSpace(input))
	switch value {
	case actionLike, actionSuperLike, actionPass:
		return value, nil
	case "SUPERLIKE":
		return actionSuperLike, nil
	case "DISLIKE":
		return actionPass, nil
	default:
		return "", ErrUnsupportedAction
	}
}
