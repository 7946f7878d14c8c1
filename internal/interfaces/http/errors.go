package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stock-movements/internal/application/dto"
	"github.com/jhoicas/stock-movements/internal/domain"
)

// writeError traduce errores de dominio a status HTTP y dto.ErrorResponse.
// Las fallas del gateway conservan su mensaje original.
func writeError(c *fiber.Ctx, err error) error {
	var (
		capErr *domain.CapacityError
		valErr *domain.ValidationError
		subErr *domain.SubmissionError
	)
	switch {
	case errors.As(err, &capErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: capErr.Code, Message: capErr.Message})
	case errors.As(err, &subErr):
		return writeSubmissionError(c, subErr)
	case errors.As(err, &valErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: valErr.Code, Message: valErr.Message})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva"})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func writeSubmissionError(c *fiber.Ctx, err *domain.SubmissionError) error {
	status, code := fiber.StatusBadGateway, "SUBMISSION_FAILED"
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
