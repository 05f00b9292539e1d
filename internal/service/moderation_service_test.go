package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lostfound-service/internal/domain"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

func newTestModerationService() (*ModerationService, *ItemService, *fakeItemStore, *fakeUserStore, *fakeLeaderboardCache) {
	users := newFakeUserStore()
	items := newFakeItemStore(users)
	cache := &fakeLeaderboardCache{}
	leaderboard := NewLeaderboardService(users, cache)
	moderation := NewModerationService(ModerationDependencies{
		ItemRepo:    items,
		Leaderboard: leaderboard,
	})
	itemSvc := NewItemService(ItemDependencies{ItemRepo: items})
	return moderation, itemSvc, items, users, cache
}

func TestAcceptAwardsPointsExactlyOnce(t *testing.T) {
	moderation, itemSvc, _, users, _ := newTestModerationService()
	ctx := context.Background()
	reporter := addTestUser(t, users, "reporter")

	item, err := itemSvc.Submit(ctx, domain.ItemKindFound, reporter.ID, validSubmitInput())
	require.NoError(t, err)

	require.NoError(t, moderation.Decide(ctx, domain.ItemKindFound, item.ID, "accepted"))

	awarded, err := users.GetByID(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, AcceptRewardPoints, awarded.Points)
	assert.Equal(t, 1, awarded.ItemsAccepted)

	err = moderation.Decide(ctx, domain.ItemKindFound, item.ID, "accepted")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	unchanged, err := users.GetByID(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, AcceptRewardPoints, unchanged.Points)
	assert.Equal(t, 1, unchanged.ItemsAccepted)
}

func TestAcceptItemWithoutReporter(t *testing.T) {
	moderation, _, items, _, _ := newTestModerationService()
	ctx := context.Background()

	items.items["orphan"] = &domain.Item{
		ID:     "orphan",
		Kind:   domain.ItemKindLost,
		Title:  "Unclaimed umbrella",
		Status: domain.ItemStatusPending,
	}

	require.NoError(t, moderation.Decide(ctx, domain.ItemKindLost, "orphan", "accepted"))

	got, err := items.GetByID(ctx, domain.ItemKindLost, "orphan")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusAccepted, got.Status)
}

func TestRejectRetainsItemForAudit(t *testing.T) {
	moderation, itemSvc, _, users, _ := newTestModerationService()
	ctx := context.Background()
	reporter := addTestUser(t, users, "reporter")
	other := addTestUser(t, users, "other")

	item, err := itemSvc.Submit(ctx, domain.ItemKindLost, reporter.ID, validSubmitInput())
	require.NoError(t, err)

	require.NoError(t, moderation.Decide(ctx, domain.ItemKindLost, item.ID, "rejected"))

	// Gone from the reporter-facing surface.
	_, err = itemSvc.GetItem(ctx, other.ID, domain.ItemKindLost, item.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	// Still listed for the admin rejected queue.
	rejected, err := moderation.ListByStatus(ctx, domain.ItemKindLost, "rejected")
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, item.ID, rejected[0].ID)

	// No points for rejected reports.
	unchanged, err := users.GetByID(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unchanged.Points)
	assert.Equal(t, 0, unchanged.ItemsAccepted)
}

func TestDecideUnknownIDLeavesStoreUnchanged(t *testing.T) {
	moderation, itemSvc, items, users, _ := newTestModerationService()
	ctx := context.Background()
	reporter := addTestUser(t, users, "reporter")

	_, err := itemSvc.Submit(ctx, domain.ItemKindFound, reporter.ID, validSubmitInput())
	require.NoError(t, err)

	err = moderation.Decide(ctx, domain.ItemKindFound, uuid.NewString(), "accepted")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	assert.Equal(t, 1, items.count())
	unchanged, err := users.GetByID(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unchanged.Points)
}

func TestDecideRejectsUnknownDecision(t *testing.T) {
	moderation, itemSvc, _, users, _ := newTestModerationService()
	ctx := context.Background()
	reporter := addTestUser(t, users, "reporter")

	item, err := itemSvc.Submit(ctx, domain.ItemKindLost, reporter.ID, validSubmitInput())
	require.NoError(t, err)

	err = moderation.Decide(ctx, domain.ItemKindLost, item.ID, "pending")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestListByStatusFallsBackToPending(t *testing.T) {
	moderation, itemSvc, _, users, _ := newTestModerationService()
	ctx := context.Background()
	reporter := addTestUser(t, users, "reporter")

	item, err := itemSvc.Submit(ctx, domain.ItemKindFound, reporter.ID, validSubmitInput())
	require.NoError(t, err)

	listed, err := moderation.ListByStatus(ctx, domain.ItemKindFound, "bogus")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, item.ID, listed[0].ID)
	assert.Equal(t, domain.ItemStatusPending, listed[0].Status)
}

func TestAcceptInvalidatesLeaderboardCache(t *testing.T) {
	moderation, itemSvc, _, users, cache := newTestModerationService()
	ctx := context.Background()
	reporter := addTestUser(t, users, "reporter")

	item, err := itemSvc.Submit(ctx, domain.ItemKindLost, reporter.ID, validSubmitInput())
	require.NoError(t, err)

	require.NoError(t, moderation.Decide(ctx, domain.ItemKindLost, item.ID, "accepted"))
	assert.Equal(t, 1, cache.invalidated)
}
