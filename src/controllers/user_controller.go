package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/apperrors"
	"github.com/codebros/codebros-backend/src/lib"
	"github.com/codebros/codebros-backend/src/middleware"
	"github.com/codebros/codebros-backend/src/models"
	"github.com/codebros/codebros-backend/src/services"
)

type UserController struct {
	users       *services.UserService
	connections *services.ConnectionService
}

func NewUserController(users *services.UserService, connections *services.ConnectionService) *UserController {
	return &UserController{users: users, connections: connections}
}

// GetAllUsers returns every user
func (h *UserController) GetAllUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// SearchUsers filters users by free text, experience level, skills and the two availability flags
func (h *UserController) SearchUsers(c *fiber.Ctx) error {
	search := models.UserSearch{
		Query:             c.Query("query"),
		Skills:            queryList(c, "skills"),
		OpenToCollaborate: c.QueryBool("openToCollaborate", false),
		IsOnline:          c.QueryBool("isOnline", false),
	}
	for _, level := range queryList(c, "experienceLevel") {
		search.ExperienceLevels = append(search.ExperienceLevels, models.ExperienceLevel(level))
	}

	users, err := h.users.SearchUsers(c.UserContext(), search)
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *UserController) GetUserByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserController) CreateUser(c *fiber.Ctx) error {
	var in services.CreateUserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.users.CreateUser(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var update models.UserUpdate
	if err := parseBody(c, &update); err != nil {
		return err
	}
	user, err := h.users.UpdateUser(c.UserContext(), id, update)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

type onlineStatusRequest struct {
	IsOnline *bool `json:"isOnline" validate:"required"`
}

func (h *UserController) SetOnlineStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req onlineStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := services.ValidateStruct(req); err != nil {
		return err
	}
	if err := h.users.SetOnlineStatus(c.UserContext(), id, *req.IsOnline); err != nil {
		return err
	}
	return c.JSON(lib.MessageResponse("Status updated"))
}

// GetConnectionStatus reports how the viewer relates to the user in the path
func (h *UserController) GetConnectionStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	rel, err := h.connections.Relationship(c.UserContext(), middleware.ViewerID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(rel)
}

type pageQuery struct {
	Skip  int `query:"skip" json:"skip" validate:"gte=0"`
	Limit int `query:"limit" json:"limit" validate:"gte=0"`
}

// GetMutualConnections lists users connected to both the viewer and the profile in the path
func (h *UserController) GetMutualConnections(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		return c.JSON(services.UserPage{
			Data:       []models.User{},
			Pagination: services.Pagination{Limit: services.DefaultPageLimit},
		})
	}

	var q pageQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.ErrBadRequest.WithMessage("Invalid pagination parameters")
	}
	if err := services.ValidateStruct(q); err != nil {
		return err
	}

	page, err := h.users.GetMutualConnections(c.UserContext(), *viewer, id, q.Skip, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(page)
}
