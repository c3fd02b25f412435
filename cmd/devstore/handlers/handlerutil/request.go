package handlerutil

import (
	"errors"
	"strconv"

	"note-inbox/cmd/devstore/handlers/httperr"
	"note-inbox/internal/logger"
	"note-inbox/internal/services/notes"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ParseAndValidateBody parses request body and validates it
func ParseAndValidateBody(c *fiber.Ctx, req any, validator *validator.Validate, handlerName string) error {
	if err := c.BodyParser(req); err != nil {
		logger.L().Warn("failed to parse request body", "handler", handlerName, "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := validator.Struct(req); err != nil {
		logger.L().Warn("request validation failed", "handler", handlerName, "error", err)
		return validationFailure(err)
	}

	return nil
}

// ParseAndValidateQuery parses query parameters and validates them
func ParseAndValidateQuery(c *fiber.Ctx, req any, validator *validator.Validate, handlerName string) error {
	if err := c.QueryParser(req); err != nil {
		logger.L().Warn("failed to parse query params", "handler", handlerName, "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := validator.Struct(req); err != nil {
		logger.L().Warn("query validation failed", "handler", handlerName, "error", err)
		return httperr.InvalidInput(err)
	}

	return nil
}

// validationFailure answers 413 when only a max length rule failed.
func validationFailure(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		tooLong := true
		for _, fe := range verrs {
			if fe.Tag() != "max" {
				tooLong = false
				break
			}
		}
		if tooLong {
			return httperr.Fail(httperr.ErrPayloadTooLarge)
		}
	}
	return httperr.InvalidInput(err)
}

// ParseNoteID reads the numeric :id route parameter. Anything that is not a
// positive integer cannot name a note and answers 404.
func ParseNoteID(c *fiber.Ctx, handlerName string) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logger.L().Warn("invalid note ID parameter", "handler", handlerName, "noteIDStr", raw, "path", c.Path())
		return 0, httperr.NotFound(notes.ErrNoteNotFound)
	}
	return id, nil
}

// HandleServiceError maps service errors to HTTP responses
func HandleServiceError(err error, handlerName string, noteID *int64) error {
	logFields := []any{"handler", handlerName, "error", err}
	if noteID != nil {
		logFields = append(logFields, "noteID", *noteID)
	}

	e := httperr.FromService(err)
	if e.Status == fiber.StatusInternalServerError {
		logger.L().Error("service operation failed", logFields...)
	} else {
		logger.L().Info("request rejected", append(logFields, "status", e.Status)...)
	}
	return httperr.Fail(e)
}
