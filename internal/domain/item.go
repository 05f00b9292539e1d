package domain

import "time"

// ItemKind selects one of the two parallel report collections.
type ItemKind string

const (
	ItemKindLost  ItemKind = "lost"
	ItemKindFound ItemKind = "found"
)

// ParseItemKind validates a kind taken from a route parameter.
func ParseItemKind(raw string) (ItemKind, bool) {
	switch ItemKind(raw) {
	case ItemKindLost, ItemKindFound:
		return ItemKind(raw), true
	default:
		return "", false
	}
}

// ItemStatus enumerates the moderation lifecycle of a report.
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusAccepted ItemStatus = "accepted"
	ItemStatusRejected ItemStatus = "rejected"
)

// ParseItemStatus maps a query value onto the status set, falling back to
// pending for anything it does not recognize.
func ParseItemStatus(raw string) ItemStatus {
	switch ItemStatus(raw) {
	case ItemStatusPending, ItemStatusAccepted, ItemStatusRejected:
		return ItemStatus(raw)
	default:
		return ItemStatusPending
	}
}

// Item is the aggregate for a single lost or found report. The Kind field
// records which collection the record belongs to; lost and found reports
// share this shape but are never stored together.
type Item struct {
	ID          string
	Kind        ItemKind
	Title       string
	Category    string
	Description string
	Location    string
	EventDate   time.Time
	ImageData   []byte
	ImageMime   *string
	Status      ItemStatus
	ReportedBy  *string
	Views       int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// ReporterName and ReporterEmail are resolved on read for listings and
	// detail pages; they are never persisted on the item row.
	ReporterName  *string
	ReporterEmail *string
}
