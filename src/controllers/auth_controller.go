package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/services"
)

type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login checks the credentials and returns the user. No session is issued; the client keeps the
// user id and sends it back as the viewer.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := services.ValidateStruct(req); err != nil {
		return err
	}
	user, err := h.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
