package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

func seedRankedUser(t *testing.T, users *fakeUserStore, name string, points int) {
	t.Helper()
	user := &domain.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), user))
	users.mu.Lock()
	users.users[user.ID].Points = points
	users.mu.Unlock()
}

func TestTopUsersOrderingWithTieBreak(t *testing.T) {
	users := newFakeUserStore()
	svc := NewLeaderboardService(users, nil)

	seedRankedUser(t, users, "B", 5)
	seedRankedUser(t, users, "C", 10)
	seedRankedUser(t, users, "A", 10)
	seedRankedUser(t, users, "D", 3)

	entries, err := svc.TopUsers(context.Background(), 10)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	assert.Equal(t, []string{"A", "C", "B", "D"}, names)
}

func TestTopUsersDefaultsLimit(t *testing.T) {
	users := newFakeUserStore()
	svc := NewLeaderboardService(users, nil)

	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		seedRankedUser(t, users, name, 1)
	}

	entries, err := svc.TopUsers(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, DefaultLeaderboardLimit)
}

func TestTopUsersServesCachedBoard(t *testing.T) {
	users := newFakeUserStore()
	cache := &fakeLeaderboardCache{
		entries: []domain.LeaderboardEntry{{Name: "Cached", Points: 42}},
	}
	svc := NewLeaderboardService(users, cache)

	entries, err := svc.TopUsers(context.Background(), DefaultLeaderboardLimit)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Cached", entries[0].Name)
}

func TestTopUsersNonDefaultLimitBypassesCache(t *testing.T) {
	users := newFakeUserStore()
	cache := &fakeLeaderboardCache{
		entries: []domain.LeaderboardEntry{{Name: "Cached", Points: 42}},
	}
	svc := NewLeaderboardService(users, cache)

	seedRankedUser(t, users, "Real", 7)

	entries, err := svc.TopUsers(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Real", entries[0].Name)
	assert.Equal(t, 0, cache.sets)
}

func TestTopUsersPopulatesCache(t *testing.T) {
	users := newFakeUserStore()
	cache := &fakeLeaderboardCache{}
	svc := NewLeaderboardService(users, cache)

	seedRankedUser(t, users, "Solo", 9)

	_, err := svc.TopUsers(context.Background(), DefaultLeaderboardLimit)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
}
