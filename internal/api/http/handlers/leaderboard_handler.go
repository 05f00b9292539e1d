package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/service"
)

// LeaderboardHandler serves the public points ranking.
type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
}

// NewLeaderboardHandler constructs handler.
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboardService}
}

// Top handles GET /leaderboard.
func (h *LeaderboardHandler) Top(c *fiber.Ctx) error {
	limit := service.DefaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.leaderboard.TopUsers(c.Context(), limit)
	if err != nil {
		return err
	}

	response := fiber.Map{"data": entries}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		response["is_admin"] = principal.IsAdmin()
	}
	return c.JSON(response)
}
