package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/codebros/codebros-backend/src/metrics"
)

// Metrics records request counts and latency labelled by the matched route pattern. It runs
// inside Logging, so errors are still unrendered here and are mapped to their status for the
// label only.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		timer := metrics.NewTimer()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		// label values outlive the request, so they must not alias fasthttp's buffers
		route := utils.CopyString(c.Route().Path)
		method := utils.CopyString(c.Method())

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		timer.ObserveDuration(metrics.HTTPRequestDuration.WithLabelValues(method, route))
		return err
	}
}
