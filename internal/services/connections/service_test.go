package connections

import (
	"context"
	"errors"
	"testing"

	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
)

type connectionStoreStub struct {
	listedLimit int
	member      bool
	otherID     int64
	dissolved   bool
	lastUserID  int64
	lastTarget  int64
}

func (s *connectionStoreStub) ListActiveForUser(_ context.Context, _ int64, limit int) ([]pgrepo.ConnectionRecord, error) {
	s.listedLimit = limit
	return nil, nil
}

func (s *connectionStoreStub) IsMember(context.Context, int64, int64) (bool, int64, error) {
	return s.member, s.otherID, nil
}

func (s *connectionStoreStub) Dissolve(_ context.Context, userID, targetID int64) (bool, error) {
	s.lastUserID = userID
	s.lastTarget = targetID
	return s.dissolved, nil
}

func TestListClampsLimit(t *testing.T) {
	store := &connectionStoreStub{}
	svc := NewService(store)

	if _, err := svc.List(context.Background(), 101, 900); err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.listedLimit != defaultListLimit {
		t.Fatalf("limit not clamped: got %d", store.listedLimit)
	}
}

func TestOtherMember(t *testing.T) {
	svc := NewService(&connectionStoreStub{member: true, otherID: 202})

	otherID, err := svc.OtherMember(context.Background(), 777, 101)
	if err != nil {
		t.Fatalf("other member: %v", err)
	}
	if otherID != 202 {
		t.Fatalf("unexpected peer: %d", otherID)
	}
}

func TestOtherMemberDeniesOutsider(t *testing.T) {
	svc := NewService(&connectionStoreStub{member: false})

	if _, err := svc.OtherMember(context.Background(), 777, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnmatch(t *testing.T) {
	store := &connectionStoreStub{dissolved: true}
	svc := NewService(store)

	if err := svc.Unmatch(context.Background(), 101, 202); err != nil {
		t.Fatalf("unmatch: %v", err)
	}
	if store.lastUserID != 101 || store.lastTarget != 202 {
		t.Fatalf("unexpected dissolve args: %d %d", store.lastUserID, store.lastTarget)
	}
}

func TestUnmatchMissingConnection(t *testing.T) {
	svc := NewService(&connectionStoreStub{dissolved: false})

	if err := svc.Unmatch(context.Background(), 101, 202); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnmatchValidation(t *testing.T) {
	svc := NewService(&connectionStoreStub{dissolved: true})

	if err := svc.Unmatch(context.Background(), 101, 101); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for self unmatch, got %v", err)
	}
}
