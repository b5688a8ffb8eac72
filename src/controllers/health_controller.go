package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/apperrors"
	"github.com/codebros/codebros-backend/src/log"
)

// Pinger is the part of the store the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	store Pinger
}

func NewHealthController(store Pinger) *HealthController {
	return &HealthController{store: store}
}

func (h *HealthController) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.WithComponent("health").Warn().Err(err).Msg("store ping failed")
		return apperrors.ErrServiceUnavailable.WithMessage("store unavailable")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
