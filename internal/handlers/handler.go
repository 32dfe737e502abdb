package handlers

import (
	"errors"

	"github.com/veyra-social/moderation-backend/internal/dto"
	"github.com/veyra-social/moderation-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// serviceError maps the moderation error taxonomy onto HTTP responses. Every
// failure path surfaces a typed kind so clients can branch without parsing
// messages.
func serviceError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: ve.Error(),
		})
	case errors.Is(err, services.ErrDuplicateReport):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Kind: "duplicate", Message: err.Error(),
		})
	case errors.Is(err, services.ErrTargetNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Kind: "target_not_found", Message: err.Error(),
		})
	case errors.Is(err, services.ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Kind: "not_found", Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Kind: "invalid_transition", Message: err.Error(),
		})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Kind: "conflict", Message: err.Error(),
		})
	case errors.Is(err, services.ErrDependency):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Kind: "dependency", Message: "a downstream service is unavailable, try again",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
