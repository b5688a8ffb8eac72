package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/controllers"
)

// ConnectionRoutes sets up routes for listing, sending and answering connection requests
func ConnectionRoutes(router fiber.Router, connections *controllers.ConnectionController) {
	connection := router.Group("/connections")

	connection.Get("/user/:userId", connections.GetConnectionsByUserID)
	connection.Get("/pending/:userId", connections.GetPendingRequests)
	connection.Get("/accepted/:userId", connections.GetAcceptedConnections)
	connection.Get("/status/:targetId", connections.GetConnectionStatus)
	connection.Post("/", connections.CreateConnection)
	connection.Patch("/:id/status", connections.UpdateConnectionStatus)
}
