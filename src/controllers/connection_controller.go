package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/middleware"
	"github.com/codebros/codebros-backend/src/services"
)

type ConnectionController struct {
	connections *services.ConnectionService
}

func NewConnectionController(connections *services.ConnectionService) *ConnectionController {
	return &ConnectionController{connections: connections}
}

// GetConnectionsByUserID returns every connection row the user takes part in
func (h *ConnectionController) GetConnectionsByUserID(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	conns, err := h.connections.ListForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(conns)
}

// GetPendingRequests returns the pending requests the user has received
func (h *ConnectionController) GetPendingRequests(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	conns, err := h.connections.ListPending(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(conns)
}

// GetAcceptedConnections returns the users connected to the user
func (h *ConnectionController) GetAcceptedConnections(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	users, err := h.connections.ListAcceptedUsers(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// GetConnectionStatus reports how the viewer relates to the target user
func (h *ConnectionController) GetConnectionStatus(c *fiber.Ctx) error {
	targetID, err := paramID(c, "targetId")
	if err != nil {
		return err
	}
	rel, err := h.connections.Relationship(c.UserContext(), middleware.ViewerID(c), targetID)
	if err != nil {
		return err
	}
	return c.JSON(rel)
}

// CreateConnection sends a connection request
func (h *ConnectionController) CreateConnection(c *fiber.Ctx) error {
	var in services.CreateConnectionInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	conn, err := h.connections.CreateConnection(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(conn)
}

// UpdateConnectionStatus accepts or declines a pending request. When a viewer is known only the
// receiver may answer.
func (h *ConnectionController) UpdateConnectionStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in services.UpdateConnectionStatusInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	conn, err := h.connections.UpdateStatus(c.UserContext(), id, middleware.ViewerID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(conn)
}
