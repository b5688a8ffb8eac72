package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/controllers"
)

// AuthRoutes sets up the login route
func AuthRoutes(router fiber.Router, auth *controllers.AuthController) {
	router.Group("/auth").Post("/login", auth.Login)
}
