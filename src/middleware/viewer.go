package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/lib"
)

const (
	ViewerHeader = "X-User-Id"
	viewerQuery  = "viewerId"
	viewerKey    = "viewerID"
)

// Viewer attaches the client-asserted viewer id to the request. A missing or malformed id leaves
// the request anonymous; nothing is rejected here.
func Viewer(c *fiber.Ctx) error {
	raw := c.Get(ViewerHeader)
	if raw == "" {
		raw = c.Query(viewerQuery)
	}
	if id, ok := lib.ParseID(raw); ok {
		c.Locals(viewerKey, id)
	}
	return c.Next()
}

// ViewerID returns the viewer set by Viewer, or nil for an anonymous request.
func ViewerID(c *fiber.Ctx) *uint {
	id, ok := c.Locals(viewerKey).(uint)
	if !ok {
		return nil
	}
	return &id
}
