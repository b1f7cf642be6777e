package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"rtl-support-chatbot-be/pkg/bedrock"
	"rtl-support-chatbot-be/pkg/kb"
	"rtl-support-chatbot-be/pkg/rag"
)

// ErrorHandlerMiddleware turns domain errors escaping the controllers
// into the standard response envelope. Provider failures map onto the
// closest HTTP semantics; anything unrecognized is a plain 500 without
// internal detail.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ErrorResponse(ctx, fiberErr.Code, fiberErr.Message)
		}

		var (
			processingErr *rag.ProcessingFailedError
			retrievalErr  *kb.RetrievalError
			validationErr *bedrock.ValidationError
			permissionErr *bedrock.PermissionError
			notFoundErr   *bedrock.NotFoundError
			rateLimitErr  *bedrock.RateLimitError
		)
		switch {
		case errors.As(err, &processingErr):
			return ErrorResponse(ctx, fiber.StatusBadGateway, "Chat processing failed, please retry")
		case errors.As(err, &retrievalErr):
			return ErrorResponse(ctx, fiber.StatusBadGateway, "Knowledge base is unavailable")
		case errors.As(err, &rateLimitErr):
			return ErrorResponse(ctx, fiber.StatusTooManyRequests, "Model is throttling requests, slow down")
		case errors.As(err, &permissionErr):
			return ErrorResponse(ctx, fiber.StatusForbidden, "Not authorized to invoke the model")
		case errors.As(err, &notFoundErr):
			return ErrorResponse(ctx, fiber.StatusNotFound, "Configured model was not found")
		case errors.As(err, &validationErr):
			return ErrorResponse(ctx, fiber.StatusBadRequest, "Model rejected the request")
		}

		return ErrorResponse(ctx, fiber.StatusInternalServerError, "Internal server error")
	}
}
