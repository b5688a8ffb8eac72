package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/codebros/codebros-backend/src/apperrors"
	"github.com/codebros/codebros-backend/src/log"
)

// ErrorHandler renders every error as {"message", "code", "details"?}. Service errors carry their
// own status; fiber errors (bad JSON, unknown routes) keep theirs; anything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	apiErr := toAPIError(err)
	if apiErr.StatusCode >= fiber.StatusInternalServerError {
		log.WithComponent("http").Error().
			Err(err).
			Str("request_id", RequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
	}
	return c.Status(apiErr.StatusCode).JSON(apiErr)
}

func toAPIError(err error) *apperrors.APIError {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fiberToAPIError(fe)
	}
	return apperrors.AsAPIError(err)
}

func fiberToAPIError(fe *fiber.Error) *apperrors.APIError {
	switch fe.Code {
	case fiber.StatusNotFound:
		return apperrors.ErrNotFound.WithMessage(fe.Message)
	case fiber.StatusTooManyRequests:
		return &apperrors.APIError{Code: "rate_limited", Message: fe.Message, StatusCode: fe.Code}
	case fiber.StatusServiceUnavailable:
		return apperrors.ErrServiceUnavailable.WithMessage(fe.Message)
	}
	if fe.Code >= fiber.StatusInternalServerError {
		return apperrors.ErrInternal
	}
	return &apperrors.APIError{Code: apperrors.CodeBadRequest, Message: fe.Message, StatusCode: fe.Code}
}

func statusOf(err error) int {
	return toAPIError(err).StatusCode
}
