package serverutils

import (
	"errors"

	"ai-agrichat-be/internal/constant"
	"ai-agrichat-be/internal/service"
	"ai-agrichat-be/pkg/chat"
	"ai-agrichat-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into
// a uniform JSON envelope. Domain errors map to a status code and a
// fixed Korean reply; everything else collapses to a generic 500 so
// internal error strings never reach the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := constant.InternalErrorReply

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, llm.ErrRateLimited):
			code = fiber.StatusTooManyRequests
			message = constant.RateLimitedReply
		case errors.Is(err, service.ErrSessionNotFound):
			code = fiber.StatusNotFound
			message = constant.SessionNotFoundReply
		case errors.Is(err, chat.ErrSessionTerminated):
			code = fiber.StatusConflict
			message = constant.SessionTerminatedReply
		case errors.Is(err, chat.ErrSessionBusy):
			code = fiber.StatusConflict
			message = constant.SessionBusyReply
		case errors.Is(err, chat.ErrTurnFailed):
			code = fiber.StatusBadGateway
			message = constant.TurnFailureReply
		}

		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}
