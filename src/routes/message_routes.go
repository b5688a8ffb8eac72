package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/controllers"
)

// MessageRoutes sets up routes for threads, conversations, sending and marking messages read
func MessageRoutes(router fiber.Router, messages *controllers.MessageController) {
	message := router.Group("/messages")

	message.Get("/conversation/:user1Id/:user2Id", messages.GetMessagesBetweenUsers)
	message.Get("/conversations/:userId", messages.GetConversations)
	message.Post("/", messages.CreateMessage)
	message.Post("/mark-read", messages.MarkMessagesAsRead)
}
