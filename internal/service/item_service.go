package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/imaging"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

const eventDateLayout = "2006-01-02"

// ItemService coordinates report submission and item reads.
type ItemService struct {
	items         repository.ItemRepository
	dispatcher    events.Dispatcher
	maxImageBytes int64
}

// ItemDependencies bundles requirements for the item service.
type ItemDependencies struct {
	ItemRepo      repository.ItemRepository
	Dispatcher    events.Dispatcher
	MaxImageBytes int64
}

// SubmitItemInput describes a report submission.
type SubmitItemInput struct {
	Title       string
	Category    string
	Description string
	Location    string
	Date        string
	Image       []byte
	ImageMime   string
}

// NewItemService constructs the service.
func NewItemService(deps ItemDependencies) *ItemService {
	maxBytes := deps.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &ItemService{
		items:         deps.ItemRepo,
		dispatcher:    deps.Dispatcher,
		maxImageBytes: maxBytes,
	}
}

// Submit validates a report and persists it in pending state. The item
// insert and the reporter counter increment happen in one transaction, so a
// failed submission leaves no partial writes behind.
func (s *ItemService) Submit(ctx context.Context, kind domain.ItemKind, authorID string, input SubmitItemInput) (*domain.Item, error) {
	item := &domain.Item{
		Kind:        kind,
		Title:       strings.TrimSpace(input.Title),
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		Status:      domain.ItemStatusPending,
		ReportedBy:  &authorID,
	}

	required := []struct {
		field   string
		value   string
		message string
	}{
		{"title", item.Title, "Title is required"},
		{"category", item.Category, "Category is required"},
		{"description", item.Description, "Description is required"},
		{"location", item.Location, "Location is required"},
	}
	for _, check := range required {
		if check.value == "" {
			return nil, apperrors.NewValidationError(check.message, map[string]any{"field": check.field})
		}
	}

	date, err := time.Parse(eventDateLayout, strings.TrimSpace(input.Date))
	if err != nil {
		return nil, apperrors.NewValidationError("A valid date is required", map[string]any{"field": "date"})
	}
	item.EventDate = date

	if len(input.Image) > 0 {
		if !strings.HasPrefix(input.ImageMime, "image/") {
			return nil, apperrors.NewValidationError("Only image files are allowed", map[string]any{"field": "image"})
		}
		if int64(len(input.Image)) > s.maxImageBytes {
			return nil, apperrors.NewValidationError("Image too large", map[string]any{"field": "image"})
		}
		processed, err := imaging.Process(input.Image)
		if err != nil {
			return nil, apperrors.NewValidationError("Only image files are allowed", map[string]any{"field": "image"})
		}
		item.ImageData = processed.Data
		item.ImageMime = &processed.Mime
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventItemSubmitted,
		Actor: events.Actor{Type: domain.SubjectTypeUser, UserID: &authorID},
		Payload: events.ItemSubmittedPayload{
			ItemID:   item.ID,
			Kind:     kind,
			Title:    item.Title,
			HasImage: len(item.ImageData) > 0,
		},
	})

	return item, nil
}

// Feed returns accepted items of both kinds, newest first.
func (s *ItemService) Feed(ctx context.Context) ([]domain.Item, error) {
	lost, err := s.items.ListByStatus(ctx, domain.ItemKindLost, domain.ItemStatusAccepted)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	found, err := s.items.ListByStatus(ctx, domain.ItemKindFound, domain.ItemStatusAccepted)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	feed := append(lost, found...)
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	return feed, nil
}

// GetItem fetches a single item for a reporter, resolving the owner and
// counting the view. Items that have not been accepted are only visible to
// their own reporter; everyone else gets a not-found.
func (s *ItemService) GetItem(ctx context.Context, requesterID string, kind domain.ItemKind, id string) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, kind, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("item", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if item.Status != domain.ItemStatusAccepted {
		if item.ReportedBy == nil || *item.ReportedBy != requesterID {
			return nil, apperrors.NewNotFound("item", map[string]any{"id": id})
		}
	}

	if err := s.items.IncrementViews(ctx, kind, id); err == nil {
		item.Views++
	}
	return item, nil
}

// GetItemForReview fetches a single item regardless of status, for the admin
// review surface. Views are not counted for review reads.
func (s *ItemService) GetItemForReview(ctx context.Context, kind domain.ItemKind, id string) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, kind, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("item", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

func (s *ItemService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
