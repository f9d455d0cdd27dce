package serverutils

import (
	"net/http/httptest"
	"testing"

	"edu-chat-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"quota exceeded maps to 429", &dto.QuotaExceededError{Quota: 50, Used: 50, RetryAfterHours: 2}, fiber.StatusTooManyRequests},
		{"upstream model failure maps to 502", &dto.UpstreamModelError{StatusCode: 500, Message: "boom"}, fiber.StatusBadGateway},
		{"missing resource maps to 404", &dto.NotFoundError{Resource: "conversation"}, fiber.StatusNotFound},
		{"foreign resource maps to 403", &dto.OwnershipError{Resource: "conversation"}, fiber.StatusForbidden},
		{"validation failure maps to 400", &dto.ValidationError{Message: "message too long"}, fiber.StatusBadRequest},
		{"duplicate maps to 409", &dto.ConflictError{Message: "collection already exists"}, fiber.StatusConflict},
		{"extraction failure maps to 422", &dto.ExtractionError{FileName: "a.pdf", Reason: "no text"}, fiber.StatusUnprocessableEntity},
		{"vector store failure maps to 502", &dto.EmbeddingStoreError{Collection: "physics", Reason: "down"}, fiber.StatusBadGateway},
		{"fiber error keeps its code", fiber.ErrUnauthorized, fiber.StatusUnauthorized},
		{"unknown error maps to 500", assert.AnError, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/boom", func(ctx *fiber.Ctx) error {
				return tt.err
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}

	t.Run("successful handlers pass through", func(t *testing.T) {
		app := fiber.New()
		app.Use(ErrorHandlerMiddleware())
		app.Get("/ok", func(ctx *fiber.Ctx) error {
			return ctx.SendStatus(fiber.StatusNoContent)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})
}
