package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"filedrop/internal/http/middleware"
	"filedrop/internal/upload"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorDetails(c, status, code, message, nil)
}

func writeErrorDetails(c *fiber.Ctx, status int, code, message string, details map[string]any) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps the upload/serving error taxonomy to HTTP responses.
// Every validation kind keeps its own machine-readable code; quota rejections
// carry the observed usage and limit so clients can show actionable feedback.
func writeServiceError(c *fiber.Ctx, err error) error {
	var quotaErr *upload.QuotaExceededError
	if errors.As(err, &quotaErr) {
		return writeErrorDetails(c, fiber.StatusRequestEntityTooLarge, "QUOTA_EXCEEDED", quotaErr.Error(),
			map[string]any{"usage": quotaErr.Usage, "limit": quotaErr.Limit})
	}
	var limitErr *upload.StorageLimitError
	if errors.As(err, &limitErr) {
		return writeErrorDetails(c, fiber.StatusRequestEntityTooLarge, "STORAGE_LIMIT", limitErr.Error(),
			map[string]any{"usage": limitErr.Usage, "limit": limitErr.Limit})
	}

	switch {
	case errors.Is(err, upload.ErrEmptyFile):
		return writeError(c, fiber.StatusBadRequest, "EMPTY_FILE", "file is empty")
	case errors.Is(err, upload.ErrFileTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the size limit")
	case errors.Is(err, upload.ErrNoExtension):
		return writeError(c, fiber.StatusBadRequest, "NO_EXTENSION", "filename has no extension")
	case errors.Is(err, upload.ErrHiddenBlockedExtension):
		return writeError(c, fiber.StatusUnprocessableEntity, "HIDDEN_BLOCKED_EXTENSION", err.Error())
	case errors.Is(err, upload.ErrBlockedExtension):
		return writeError(c, fiber.StatusUnprocessableEntity, "BLOCKED_EXTENSION", err.Error())
	case errors.Is(err, upload.ErrExtensionNotAllowed):
		return writeError(c, fiber.StatusUnprocessableEntity, "EXTENSION_NOT_ALLOWED", err.Error())
	case errors.Is(err, upload.ErrUploadsNotAllowed):
		return writeError(c, fiber.StatusForbidden, "UPLOADS_NOT_ALLOWED", "role is not allowed to upload")
	case errors.Is(err, upload.ErrPermanentNotAllowed):
		return writeError(c, fiber.StatusForbidden, "PERMANENT_NOT_ALLOWED", "permanent storage is admin-only")
	case errors.Is(err, upload.ErrInvalidExpiry):
		return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRY", "expiry must be a positive number of hours")
	case errors.Is(err, upload.ErrExpiryTooShort):
		return writeError(c, fiber.StatusBadRequest, "EXPIRY_TOO_SHORT", err.Error())
	case errors.Is(err, upload.ErrExpiryTooLong):
		return writeError(c, fiber.StatusBadRequest, "EXPIRY_TOO_LONG", err.Error())
	case errors.Is(err, upload.ErrDirectoryNotAllowed):
		return writeError(c, fiber.StatusBadRequest, "DIRECTORY_NOT_ALLOWED", "directory is not registered")
	case errors.Is(err, upload.ErrEmptySlug):
		return writeError(c, fiber.StatusBadRequest, "EMPTY_SLUG", "slug is empty")
	case errors.Is(err, upload.ErrSlugTooLong):
		return writeError(c, fiber.StatusBadRequest, "SLUG_TOO_LONG", "slug is too long")
	case errors.Is(err, upload.ErrInvalidSlugFormat):
		return writeError(c, fiber.StatusBadRequest, "INVALID_SLUG_FORMAT", "slug format is invalid")
	case errors.Is(err, upload.ErrSlugTaken):
		return writeError(c, fiber.StatusConflict, "SLUG_TAKEN", "slug is already in use")
	case errors.Is(err, upload.ErrContentNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "content not found")
	case errors.Is(err, upload.ErrContentExpired):
		// Deliberately distinct from NOT_FOUND: the content existed and has
		// expired, reported as 410 Gone.
		return writeError(c, fiber.StatusGone, "CONTENT_EXPIRED", "content has expired")
	case errors.Is(err, upload.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "forbidden")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
