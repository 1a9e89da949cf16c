package handlers

import (
	"github.com/arnold/habitus-api/internal/middleware"
	"github.com/arnold/habitus-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ActivityHandler struct {
	activity *services.ActivityService
}

func NewActivityHandler(activity *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// GetActivity returns paginated activity for the caller
func (h *ActivityHandler) GetActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	page, limit := pagination(c)

	activities, total, err := h.activity.List(c.UserContext(), userID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load activity",
		})
	}

	return c.JSON(fiber.Map{
		"activities": activities,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}
