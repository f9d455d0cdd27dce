package serverutils

import (
	"errors"

	"edu-chat-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates domain errors into HTTP responses
// with stable shapes. Anything unrecognized becomes a 500 with a
// generic message so internals never leak.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var quotaErr *dto.QuotaExceededError
		if errors.As(err, &quotaErr) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": quotaErr.Error(),
				"error":   quotaErr,
			})
		}

		var modelErr *dto.UpstreamModelError
		if errors.As(err, &modelErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": modelErr.Error(),
				"error":   modelErr,
			})
		}

		var notFoundErr *dto.NotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": notFoundErr.Error(),
			})
		}

		var ownershipErr *dto.OwnershipError
		if errors.As(err, &ownershipErr) {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": ownershipErr.Error(),
			})
		}

		var validationErr *dto.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": validationErr.Error(),
			})
		}

		var conflictErr *dto.ConflictError
		if errors.As(err, &conflictErr) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": conflictErr.Error(),
			})
		}

		var extractionErr *dto.ExtractionError
		if errors.As(err, &extractionErr) {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": extractionErr.Error(),
			})
		}

		var storeErr *dto.EmbeddingStoreError
		if errors.As(err, &storeErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": storeErr.Error(),
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"message": fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}
