package httpserver

import (
	"errors"

	"github.com/darshilbhuva09/quanta/internal/errs"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// errStatus maps service errors to a status code and a generic client message.
// Internal detail never leaves the process.
func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return fiber.StatusBadRequest, "invalid request"
	case errors.Is(err, errs.ErrUnauthorized):
		return fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, errs.ErrNotFound):
		return fiber.StatusNotFound, "not found"
	case errors.Is(err, errs.ErrAlreadyExists):
		return fiber.StatusConflict, "already exists"
	case errors.Is(err, errs.ErrRateLimited):
		return fiber.StatusTooManyRequests, "too many attempts"
	case errors.Is(err, errs.ErrUpstream):
		return fiber.StatusBadGateway, "upstream failure"
	default:
		return fiber.StatusInternalServerError, "internal error"
	}
}

// fail writes the mapped error response, logging unexpected failures.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	status, msg := errStatus(err)
	if status >= fiber.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
