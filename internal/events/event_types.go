package events

import (
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventItemSubmitted  EventType = "item_submitted"
	EventItemAccepted   EventType = "item_accepted"
	EventItemRejected   EventType = "item_rejected"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type   domain.SubjectType `json:"type"`
	UserID *string            `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// ItemSubmittedPayload payload.
type ItemSubmittedPayload struct {
	ItemID   string          `json:"item_id"`
	Kind     domain.ItemKind `json:"kind"`
	Title    string          `json:"title"`
	HasImage bool            `json:"has_image"`
}

// ItemAcceptedPayload payload.
type ItemAcceptedPayload struct {
	ItemID        string          `json:"item_id"`
	Kind          domain.ItemKind `json:"kind"`
	ReportedBy    *string         `json:"reported_by,omitempty"`
	PointsAwarded int             `json:"points_awarded"`
}

// ItemRejectedPayload payload.
type ItemRejectedPayload struct {
	ItemID string          `json:"item_id"`
	Kind   domain.ItemKind `json:"kind"`
}
