package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/repository"
)

// fakeUserStore implements repository.UserRepository over a map, mirroring
// the SQL contract: ids assigned on insert, counters starting at zero,
// emails matched case-insensitively.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
	order []string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = uuid.NewString()
	user.Email = strings.ToLower(user.Email)
	user.Points = 0
	user.ItemsReported = 0
	user.ItemsAccepted = 0
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	s.users[user.ID] = &clone
	s.order = append(s.order, user.ID)
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeUserStore) TopByPoints(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]domain.LeaderboardEntry, 0, len(s.order))
	for _, id := range s.order {
		user := s.users[id]
		entries = append(entries, domain.LeaderboardEntry{
			Name:          user.Name,
			Email:         user.Email,
			Points:        user.Points,
			ItemsAccepted: user.ItemsAccepted,
			ItemsReported: user.ItemsReported,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *fakeUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// fakeItemStore implements repository.ItemRepository with the same
// transactional contract as the Postgres implementation: Create also bumps
// the reporter counter, Accept guards on pending and awards atomically.
type fakeItemStore struct {
	mu    sync.Mutex
	items map[string]*domain.Item
	users *fakeUserStore
}

func newFakeItemStore(users *fakeUserStore) *fakeItemStore {
	return &fakeItemStore{items: make(map[string]*domain.Item), users: users}
}

func (s *fakeItemStore) Create(_ context.Context, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	clone := *item
	s.items[item.ID] = &clone

	if item.ReportedBy != nil {
		s.users.mu.Lock()
		defer s.users.mu.Unlock()
		user, ok := s.users.users[*item.ReportedBy]
		if !ok {
			delete(s.items, item.ID)
			return pgx.ErrNoRows
		}
		user.ItemsReported++
	}
	return nil
}

func (s *fakeItemStore) GetByID(_ context.Context, kind domain.ItemKind, id string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || item.Kind != kind {
		return nil, pgx.ErrNoRows
	}
	clone := *item
	if item.ReportedBy != nil {
		s.users.mu.Lock()
		if user, ok := s.users.users[*item.ReportedBy]; ok {
			clone.ReporterName = &user.Name
			clone.ReporterEmail = &user.Email
		}
		s.users.mu.Unlock()
	}
	return &clone, nil
}

func (s *fakeItemStore) ListByStatus(_ context.Context, kind domain.ItemKind, status domain.ItemStatus) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.Item
	for _, item := range s.items {
		if item.Kind == kind && item.Status == status {
			result = append(result, *item)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].EventDate.After(result[j].EventDate)
	})
	return result, nil
}

func (s *fakeItemStore) IncrementViews(_ context.Context, kind domain.ItemKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || item.Kind != kind {
		return pgx.ErrNoRows
	}
	item.Views++
	return nil
}

func (s *fakeItemStore) Accept(ctx context.Context, kind domain.ItemKind, id string, points int) (*domain.Item, error) {
	s.mu.Lock()
	item, ok := s.items[id]
	if !ok || item.Kind != kind {
		s.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	if item.Status != domain.ItemStatusPending {
		s.mu.Unlock()
		return nil, repository.ErrAlreadyDecided
	}
	item.Status = domain.ItemStatusAccepted
	if item.ReportedBy != nil {
		s.users.mu.Lock()
		if user, ok := s.users.users[*item.ReportedBy]; ok {
			user.Points += points
			user.ItemsAccepted++
		}
		s.users.mu.Unlock()
	}
	s.mu.Unlock()
	return s.GetByID(ctx, kind, id)
}

func (s *fakeItemStore) Reject(_ context.Context, kind domain.ItemKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || item.Kind != kind {
		return pgx.ErrNoRows
	}
	if item.Status != domain.ItemStatusPending {
		return repository.ErrAlreadyDecided
	}
	item.Status = domain.ItemStatusRejected
	return nil
}

func (s *fakeItemStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// fakeLeaderboardCache records cache traffic.
type fakeLeaderboardCache struct {
	mu          sync.Mutex
	entries     []domain.LeaderboardEntry
	sets        int
	invalidated int
}

func (c *fakeLeaderboardCache) Get(_ context.Context) ([]domain.LeaderboardEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries, nil
}

func (c *fakeLeaderboardCache) Set(_ context.Context, entries []domain.LeaderboardEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.sets++
	return nil
}

func (c *fakeLeaderboardCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.invalidated++
	return nil
}
