package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/domain/rules"
	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrProfileRequired = errors.New("viewer profile is not approved")
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 50
	// Candidates fetched beyond the requested page so scoring has
	// something to rank before the cut.
	candidateOverfetch = 4
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
	ListApprovedCandidates(ctx context.Context, viewerID int64, excludeIDs []int64, limit int) ([]pgrepo.ProfileRecord, error)
}

type SwipeHistoryStore interface {
	ListSwipedTargetIDs(ctx context.Context, actorUserID int64) ([]int64, error)
}

type ConnectionStore interface {
	ListConnectedUserIDs(ctx context.Context, userID int64) ([]int64, error)
}

type Candidate struct {
	Profile pgrepo.ProfileRecord
	Score   int
}

// Service assembles the browse feed: approved profiles the viewer has not
// swiped on and is not already connected to, ordered by compatibility.
type Service struct {
	profiles    ProfileStore
	swipes      SwipeHistoryStore
	connections ConnectionStore
}

type Dependencies struct {
	Profiles    ProfileStore
	Swipes      SwipeHistoryStore
	Connections ConnectionStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		profiles:    deps.Profiles,
		swipes:      deps.Swipes,
		connections: deps.Connections,
	}
}

func (s *Service) Feed(ctx context.Context, viewerID int64, limit int) ([]Candidate, error) {
	if viewerID <= 0 {
		return nil, ErrValidation
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	viewer, err := s.profiles.Get(ctx, viewerID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, fmt.Errorf("load viewer profile: %w", err)
	}
	if viewer.ApprovalStatus != "approved" {
		return nil, ErrProfileRequired
	}

	exclude, err := s.excludedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.profiles.ListApprovedCandidates(ctx, viewerID, exclude, limit*candidateOverfetch)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	viewerInput := compatInput(viewer)
	candidates := make([]Candidate, 0, len(profiles))
	for _, p := range profiles {
		candidates = append(candidates, Candidate{
			Profile: p,
			Score:   rules.CompatibilityScore(viewerInput, compatInput(p)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (s *Service) excludedIDs(ctx context.Context, viewerID int64) ([]int64, error) {
	seen := map[int64]struct{}{}

	swiped, err := s.swipes.ListSwipedTargetIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list swiped targets: %w", err)
	}
	for _, id := range swiped {
		seen[id] = struct{}{}
	}

	if s.connections != nil {
		connected, err := s.connections.ListConnectedUserIDs(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("list connected users: %w", err)
		}
		for _, id := range connected {
			seen[id] = struct{}{}
		}
	}

	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out, nil
}

func compatInput(p pgrepo.ProfileRecord) rules.CompatibilityInput {
	return rules.CompatibilityInput{
		Age:       p.Age,
		City:      p.City,
		Religion:  p.Religion,
		Education: p.Education,
	}
}
