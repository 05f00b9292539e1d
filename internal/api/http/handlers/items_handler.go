package handlers

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/service"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// ItemsHandler manages report submission and item reads.
type ItemsHandler struct {
	items *service.ItemService
}

// NewItemsHandler constructs handler.
func NewItemsHandler(itemService *service.ItemService) *ItemsHandler {
	return &ItemsHandler{items: itemService}
}

// Feed handles GET / and GET /dashboard: the accepted items feed.
func (h *ItemsHandler) Feed(c *fiber.Ctx) error {
	items, err := h.items.Feed(c.Context())
	if err != nil {
		return err
	}

	summaries := make([]dto.ItemSummary, 0, len(items))
	for i := range items {
		summaries = append(summaries, itemSummary(&items[i]))
	}

	response := fiber.Map{"data": summaries}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		response["is_admin"] = principal.IsAdmin()
	}
	return c.JSON(response)
}

// ReportLost handles POST /report-lost.
func (h *ItemsHandler) ReportLost(c *fiber.Ctx) error {
	return h.report(c, domain.ItemKindLost)
}

// ReportFound handles POST /report-found.
func (h *ItemsHandler) ReportFound(c *fiber.Ctx) error {
	return h.report(c, domain.ItemKindFound)
}

func (h *ItemsHandler) report(c *fiber.Ctx, kind domain.ItemKind) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("login required")
	}

	var req dto.ReportItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.SubmitItemInput{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
	}

	if fileHeader, err := c.FormFile("image"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return apperrors.NewValidationError("could not read image", map[string]any{"field": "image"})
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return apperrors.NewValidationError("could not read image", map[string]any{"field": "image"})
		}
		input.Image = data
		input.ImageMime = fileHeader.Header.Get("Content-Type")
	}

	item, err := h.items.Submit(c.Context(), kind, principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": itemSummary(item)})
}

// GetItem handles GET /:kind/:id. Admin sessions see any status; reporters
// see accepted items plus their own.
func (h *ItemsHandler) GetItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}

	kind, ok := domain.ParseItemKind(c.Params("kind"))
	if !ok {
		return apperrors.NewNotFound("item", nil)
	}

	var item *domain.Item
	var err error
	if principal.IsAdmin() {
		item, err = h.items.GetItemForReview(c.Context(), kind, c.Params("id"))
	} else if principal.User != nil {
		item, err = h.items.GetItem(c.Context(), principal.User.ID, kind, c.Params("id"))
	} else {
		return apperrors.NewUnauthorized("login required")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemDetail(item)})
}

func itemSummary(item *domain.Item) dto.ItemSummary {
	return dto.ItemSummary{
		ID:            item.ID,
		Kind:          item.Kind,
		Title:         item.Title,
		Category:      item.Category,
		Location:      item.Location,
		Date:          item.EventDate.Format("2006-01-02"),
		Status:        item.Status,
		ReporterName:  item.ReporterName,
		ReporterEmail: item.ReporterEmail,
		HasImage:      item.ImageMime != nil,
		Views:         item.Views,
		CreatedAt:     item.CreatedAt,
	}
}

func itemDetail(item *domain.Item) dto.ItemDetailResponse {
	detail := dto.ItemDetailResponse{
		ItemSummary: itemSummary(item),
		Description: item.Description,
		ImageMime:   item.ImageMime,
	}
	if len(item.ImageData) > 0 {
		encoded := base64.StdEncoding.EncodeToString(item.ImageData)
		detail.ImageBase64 = &encoded
	}
	return detail
}
