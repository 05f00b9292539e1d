package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// AcceptRewardPoints is the fixed leaderboard reward for an accepted report.
const AcceptRewardPoints = 10

// ModerationService implements the admin review workflow: listing reports by
// status and transitioning them to a terminal state.
type ModerationService struct {
	items       repository.ItemRepository
	leaderboard *LeaderboardService
	dispatcher  events.Dispatcher
}

// ModerationDependencies bundles requirements for the moderation service.
type ModerationDependencies struct {
	ItemRepo    repository.ItemRepository
	Leaderboard *LeaderboardService
	Dispatcher  events.Dispatcher
}

// NewModerationService constructs the service.
func NewModerationService(deps ModerationDependencies) *ModerationService {
	return &ModerationService{
		items:       deps.ItemRepo,
		leaderboard: deps.Leaderboard,
		dispatcher:  deps.Dispatcher,
	}
}

// ListByStatus returns items of the given kind filtered by status, newest
// event date first, with reporter name and email resolved. Unrecognized
// status values fall back to pending.
func (s *ModerationService) ListByStatus(ctx context.Context, kind domain.ItemKind, rawStatus string) ([]domain.Item, error) {
	status := domain.ParseItemStatus(rawStatus)
	items, err := s.items.ListByStatus(ctx, kind, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Decide applies a moderation decision. Acceptance sets the terminal status
// and credits the reporter in one transaction; rejection retires the item to
// the rejected state, retained for audit.
func (s *ModerationService) Decide(ctx context.Context, kind domain.ItemKind, itemID, decision string) error {
	switch domain.ItemStatus(decision) {
	case domain.ItemStatusAccepted:
		return s.accept(ctx, kind, itemID)
	case domain.ItemStatusRejected:
		return s.reject(ctx, kind, itemID)
	default:
		return apperrors.NewValidationError("status must be accepted or rejected", map[string]any{"field": "status"})
	}
}

func (s *ModerationService) accept(ctx context.Context, kind domain.ItemKind, itemID string) error {
	item, err := s.items.Accept(ctx, kind, itemID, AcceptRewardPoints)
	if err != nil {
		return s.mapDecisionError(err, itemID)
	}

	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventItemAccepted,
		Actor: events.Actor{Type: domain.SubjectTypeAdmin},
		Payload: events.ItemAcceptedPayload{
			ItemID:        item.ID,
			Kind:          kind,
			ReportedBy:    item.ReportedBy,
			PointsAwarded: AcceptRewardPoints,
		},
	})
	return nil
}

func (s *ModerationService) reject(ctx context.Context, kind domain.ItemKind, itemID string) error {
	if err := s.items.Reject(ctx, kind, itemID); err != nil {
		return s.mapDecisionError(err, itemID)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventItemRejected,
		Actor: events.Actor{Type: domain.SubjectTypeAdmin},
		Payload: events.ItemRejectedPayload{
			ItemID: itemID,
			Kind:   kind,
		},
	})
	return nil
}

func (s *ModerationService) mapDecisionError(err error, itemID string) error {
	switch err {
	case pgx.ErrNoRows:
		return apperrors.NewNotFound("item", map[string]any{"id": itemID})
	case repository.ErrAlreadyDecided:
		return apperrors.NewConflict("item already moderated", map[string]any{"id": itemID})
	default:
		return apperrors.MapError(err)
	}
}

func (s *ModerationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
