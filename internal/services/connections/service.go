package connections

import (
	"context"
	"errors"
	"fmt"

	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("connection not found")
)

const defaultListLimit = 50

type ConnectionStore interface {
	ListActiveForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.ConnectionRecord, error)
	IsMember(ctx context.Context, connectionID, userID int64) (bool, int64, error)
	Dissolve(ctx context.Context, userID, targetID int64) (bool, error)
}

// Service exposes a user's established mutual connections.
type Service struct {
	store ConnectionStore
}

func NewService(store ConnectionStore) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]pgrepo.ConnectionRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	records, err := s.store.ListActiveForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return records, nil
}

// OtherMember resolves the peer user in a connection, verifying that the
// requesting user actually belongs to it.
func (s *Service) OtherMember(ctx context.Context, connectionID, userID int64) (int64, error) {
	if connectionID <= 0 || userID <= 0 {
		return 0, ErrValidation
	}

	ok, otherID, err := s.store.IsMember(ctx, connectionID, userID)
	if err != nil {
		return 0, fmt.Errorf("check connection membership: %w", err)
	}
	if !ok {
		return 0, ErrNotFound
	}
	return otherID, nil
}

func (s *Service) Unmatch(ctx context.Context, userID, targetID int64) error {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return ErrValidation
	}

	dissolved, err := s.store.Dissolve(ctx, userID, targetID)
	if err != nil {
		return fmt.Errorf("dissolve connection: %w", err)
	}
	if !dissolved {
		return ErrNotFound
	}
	return nil
}
