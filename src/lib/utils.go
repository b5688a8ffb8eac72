package lib

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// MessageResponse returns a map with a message key for API responses.
func MessageResponse(message string) fiber.Map {
	return fiber.Map{
		"message": message,
	}
}

// ParseID parses a positive integer id such as a route parameter.
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
