package service

import (
	"context"
	"sort"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// DefaultLeaderboardLimit is the number of users on the public board.
const DefaultLeaderboardLimit = 10

// LeaderboardCache caches the default board. Get returns a nil slice on a
// cache miss.
type LeaderboardCache interface {
	Get(ctx context.Context) ([]domain.LeaderboardEntry, error)
	Set(ctx context.Context, entries []domain.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

// LeaderboardService serves the points ranking.
type LeaderboardService struct {
	users repository.UserRepository
	cache LeaderboardCache
}

// NewLeaderboardService constructs the service. The cache is optional.
func NewLeaderboardService(users repository.UserRepository, cache LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{users: users, cache: cache}
}

// TopUsers returns up to limit users ordered by points descending, ties
// broken by name ascending. Only the default board is cached.
func (s *LeaderboardService) TopUsers(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	useCache := s.cache != nil && limit == DefaultLeaderboardLimit
	if useCache {
		if cached, err := s.cache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	entries, err := s.users.TopByPoints(ctx, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].Name < entries[j].Name
	})

	if useCache {
		_ = s.cache.Set(ctx, entries)
	}
	return entries, nil
}

// Invalidate drops the cached board after a points-changing event.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx)
}
