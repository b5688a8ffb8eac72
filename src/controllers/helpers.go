package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/apperrors"
	"github.com/codebros/codebros-backend/src/lib"
)

// paramID parses the named route parameter as a positive id.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, ok := lib.ParseID(c.Params(name))
	if !ok {
		return 0, apperrors.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// parseBody decodes the JSON body into dst.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.ErrBadRequest.WithMessage("Invalid request body")
	}
	return nil
}

// queryList collects a repeated query parameter. Comma separated values are split too.
func queryList(c *fiber.Ctx, key string) []string {
	var values []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}
