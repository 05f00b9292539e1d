package dto

import (
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// ReportItemRequest captures the text fields of a report submission. The
// optional image arrives as a multipart file part.
type ReportItemRequest struct {
	Title       string `json:"title" form:"title"`
	Category    string `json:"category" form:"category"`
	Description string `json:"description" form:"description"`
	Location    string `json:"location" form:"location"`
	Date        string `json:"date" form:"date"`
}

// DecisionRequest carries the moderation decision form field.
type DecisionRequest struct {
	Status string `json:"status" form:"status"`
}

// ItemSummary response for listings.
type ItemSummary struct {
	ID            string            `json:"id"`
	Kind          domain.ItemKind   `json:"kind"`
	Title         string            `json:"title"`
	Category      string            `json:"category"`
	Location      string            `json:"location"`
	Date          string            `json:"date"`
	Status        domain.ItemStatus `json:"status"`
	ReporterName  *string           `json:"reporter_name,omitempty"`
	ReporterEmail *string           `json:"reporter_email,omitempty"`
	HasImage      bool              `json:"has_image"`
	Views         int               `json:"views"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ItemDetailResponse provides full item info including the image payload.
type ItemDetailResponse struct {
	ItemSummary
	Description string  `json:"description"`
	ImageBase64 *string `json:"image_base64,omitempty"`
	ImageMime   *string `json:"image_mime,omitempty"`
}
