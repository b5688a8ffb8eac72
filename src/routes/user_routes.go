package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/controllers"
)

// UserRoutes sets up profile, search, status, mutuals and notification routes
func UserRoutes(router fiber.Router, users *controllers.UserController, notifications *controllers.NotificationController) {
	user := router.Group("/users")

	user.Get("/", users.GetAllUsers)
	user.Get("/search", users.SearchUsers)
	user.Get("/:id", users.GetUserByID)
	user.Get("/:id/status", users.GetConnectionStatus)
	user.Get("/:id/mutuals", users.GetMutualConnections)
	user.Get("/:id/notifications", notifications.GetUserNotifications)
	user.Post("/", users.CreateUser)
	user.Patch("/:id", users.UpdateUser)
	user.Post("/:id/online-status", users.SetOnlineStatus)
}
