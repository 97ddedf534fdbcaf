package likes

import (
	"context"
	"testing"
	"time"
)

type swipeCountStub struct {
	count    int
	err      error
	lastFrom time.Time
	lastTo   time.Time
}

func (s *swipeCountStub) CountLikesInWindow(_ context.Context, _ int64, from, to time.Time) (int, error) {
	s.lastFrom = from
	s.lastTo = to
	return s.count, s.err
}

func newTestService(store SwipeCountStore, limit int, tz string, now time.Time) *Service {
	svc := NewService(store, Config{DailyLikeLimit: limit, DefaultTimezone: tz})
	svc.now = func() time.Time { return now }
	return svc
}

func TestGetSnapshotReportsRemainingLikes(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := &swipeCountStub{count: 3}
	svc := newTestService(store, 5, "UTC", now)

	snapshot, err := svc.GetSnapshot(context.Background(), 101, "")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}

	if snapshot.DailyLikeCount != 3 {
		t.Fatalf("daily like count: got %d want 3", snapshot.DailyLikeCount)
	}
	if snapshot.RemainingLikes != 2 {
		t.Fatalf("remaining likes: got %d want 2", snapshot.RemainingLikes)
	}

	wantReset := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !snapshot.ResetAt.Equal(wantReset) {
		t.Fatalf("reset at: got %v want %v", snapshot.ResetAt, wantReset)
	}
}

func TestGetSnapshotRemainingNeverNegative(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&swipeCountStub{count: 9}, 5, "UTC", now)

	snapshot, err := svc.GetSnapshot(context.Background(), 101, "")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if snapshot.RemainingLikes != 0 {
		t.Fatalf("remaining likes: got %d want 0", snapshot.RemainingLikes)
	}
}

func TestCanLikeTodayAtCeiling(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := &swipeCountStub{count: 5}
	svc := newTestService(store, 5, "UTC", now)

	ok, err := svc.CanLikeToday(context.Background(), 101, now, "")
	if err != nil {
		t.Fatalf("can like today: %v", err)
	}
	if ok {
		t.Fatal("expected the fifth like to exhaust the daily quota")
	}

	store.count = 4
	ok, err = svc.CanLikeToday(context.Background(), 101, now, "")
	if err != nil {
		t.Fatalf("can like today: %v", err)
	}
	if !ok {
		t.Fatal("expected one like to remain below the ceiling")
	}
}

func TestGetDailyLikeCountUsesLocalDayWindow(t *testing.T) {
	// Past local midnight in Kolkata; the counting window must follow
	// the caller's timezone, not UTC.
	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	store := &swipeCountStub{count: 1}
	svc := newTestService(store, 5, "UTC", now)

	if _, err := svc.GetDailyLikeCount(context.Background(), 101, now, "Asia/Kolkata"); err != nil {
		t.Fatalf("get daily like count: %v", err)
	}

	wantFrom := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	if !store.lastFrom.Equal(wantFrom) {
		t.Fatalf("window start: got %v want %v", store.lastFrom, wantFrom)
	}
}

func TestGetDailyLikeCountUnknownTimezoneFallsBackToDefault(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store := &swipeCountStub{}
	svc := newTestService(store, 5, "UTC", now)

	if _, err := svc.GetDailyLikeCount(context.Background(), 101, now, "Not/AZone"); err != nil {
		t.Fatalf("get daily like count: %v", err)
	}

	wantFrom := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !store.lastFrom.Equal(wantFrom) {
		t.Fatalf("window start: got %v want %v", store.lastFrom, wantFrom)
	}
}

func TestGetDailyLikeCountRejectsInvalidActor(t *testing.T) {
	svc := newTestService(&swipeCountStub{}, 5, "UTC", time.Now())

	if _, err := svc.GetDailyLikeCount(context.Background(), 0, time.Now(), ""); err != ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
