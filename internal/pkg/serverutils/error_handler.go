package serverutils

import (
	"errors"

	"studynotes-be/pkg/genai"
	"studynotes-be/pkg/tutor"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// standard response envelope. Known domain failures map to stable status
// codes so clients can branch on them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		var apiErr *genai.APIError

		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, genai.ErrHighTraffic):
			code = fiber.StatusServiceUnavailable
			message = "The service is experiencing high traffic. Please try again in a few minutes."
		case errors.Is(err, genai.ErrEmptyResponse), errors.Is(err, genai.ErrEmptyAnalysis), errors.Is(err, genai.ErrMalformedResponse):
			code = fiber.StatusBadGateway
		case errors.Is(err, tutor.ErrTurnInProgress):
			code = fiber.StatusConflict
		case errors.Is(err, tutor.ErrEmptyMessage):
			code = fiber.StatusBadRequest
		case errors.As(err, &apiErr):
			if apiErr.Transient() {
				code = fiber.StatusServiceUnavailable
				message = "Could not complete the request right now. Please try again."
			} else {
				code = fiber.StatusBadGateway
			}
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
