package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/services"
)

type MessageController struct {
	messages *services.MessageService
}

func NewMessageController(messages *services.MessageService) *MessageController {
	return &MessageController{messages: messages}
}

// GetMessagesBetweenUsers returns the thread between two users, oldest first
func (h *MessageController) GetMessagesBetweenUsers(c *fiber.Ctx) error {
	user1, err := paramID(c, "user1Id")
	if err != nil {
		return err
	}
	user2, err := paramID(c, "user2Id")
	if err != nil {
		return err
	}
	msgs, err := h.messages.GetMessagesBetween(c.UserContext(), user1, user2)
	if err != nil {
		return err
	}
	return c.JSON(msgs)
}

// GetConversations returns the user's inbox, most recently active first
func (h *MessageController) GetConversations(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	convs, err := h.messages.GetConversations(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(convs)
}

func (h *MessageController) CreateMessage(c *fiber.Ctx) error {
	var in services.SendMessageInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	msg, err := h.messages.SendMessage(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessageController) MarkMessagesAsRead(c *fiber.Ctx) error {
	var in services.MarkReadInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	n, err := h.messages.MarkAsRead(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Messages marked as read",
		"updated": n,
	})
}
