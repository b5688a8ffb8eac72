package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// GetUserNotifications returns pending requests and the unread message count for the user
func (h *NotificationController) GetUserNotifications(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.notifications.Summary(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
