package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/service"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// AdminHandler exposes the admin login and moderation endpoints.
type AdminHandler struct {
	auth       *service.AuthService
	moderation *service.ModerationService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, moderationService *service.ModerationService) *AdminHandler {
	return &AdminHandler{auth: authService, moderation: moderationService}
}

// Login handles POST /admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	session, err := h.auth.AdminLogin(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	setSessionCookie(c, session)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Logout handles GET /admin/logout.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		if err := h.auth.Logout(c.Context(), principal.SessionID); err != nil {
			return err
		}
	}
	clearSessionCookie(c)
	return c.Redirect("/admin/login", http.StatusFound)
}

// Dashboard handles GET /admin/dashboard?status=. Both collections are
// listed; anything but an explicit pending/accepted/rejected status shows
// the pending queue.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	status := c.Query("status")

	lost, err := h.moderation.ListByStatus(c.Context(), domain.ItemKindLost, status)
	if err != nil {
		return err
	}
	found, err := h.moderation.ListByStatus(c.Context(), domain.ItemKindFound, status)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"status": domain.ParseItemStatus(status),
			"lost":   itemSummaries(lost),
			"found":  itemSummaries(found),
		},
	})
}

// Decide handles POST /admin/:kind/:id/status.
func (h *AdminHandler) Decide(c *fiber.Ctx) error {
	kind, ok := domain.ParseItemKind(c.Params("kind"))
	if !ok {
		return apperrors.NewNotFound("item", nil)
	}

	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.moderation.Decide(c.Context(), kind, c.Params("id"), req.Status); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "status": req.Status}})
}

func itemSummaries(items []domain.Item) []dto.ItemSummary {
	summaries := make([]dto.ItemSummary, 0, len(items))
	for i := range items {
		summaries = append(summaries, itemSummary(&items[i]))
	}
	return summaries
}
