package httperr

import (
	"errors"

	"note-inbox/internal/services/notes"

	"github.com/gofiber/fiber/v2"
)

// E is the JSON error body of the dev store: {"error": "..."}.
type E struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e E) Error() string { return e.Message }

func (e E) send(c *fiber.Ctx) error {
	return c.Status(e.Status).JSON(e)
}

// Fail hands e to Handler.
func Fail(e E) error { return e }

// InvalidInput answers 400 for a body or query the validator rejected.
func InvalidInput(err error) error {
	return E{Status: fiber.StatusBadRequest, Message: "Invalid input: " + err.Error()}
}

// NotFound answers 404 with the message of err.
func NotFound(err error) error {
	return E{Status: fiber.StatusNotFound, Message: err.Error()}
}

// InternalError answers 500 with message.
func InternalError(message string) E {
	return E{Status: fiber.StatusInternalServerError, Message: message}
}

var (
	ErrBadRequest      = E{Status: fiber.StatusBadRequest, Message: "Bad Request"}
	ErrUpgradeRequired = E{Status: fiber.StatusBadRequest, Message: "WebSocket upgrade required"}
	ErrPayloadTooLarge = E{Status: fiber.StatusRequestEntityTooLarge, Message: "Content too long"}
	ErrInternal        = InternalError("Internal Server Error")
)

// FromService maps a notes service error onto the status the inbox client
// classifies: unknown ids are 404, rejected input is 400 and the rest 500.
func FromService(err error) E {
	switch {
	case errors.Is(err, notes.ErrNoteNotFound):
		return E{Status: fiber.StatusNotFound, Message: notes.ErrNoteNotFound.Error()}
	case errors.Is(err, notes.ErrEmptyContent), errors.Is(err, notes.ErrInvalidLimit):
		return E{Status: fiber.StatusBadRequest, Message: err.Error()}
	}
	return InternalError(err.Error())
}

// Handler is the fiber error handler. Errors that are neither E nor
// *fiber.Error leak no detail.
func Handler(c *fiber.Ctx, err error) error {
	var e E
	if errors.As(err, &e) {
		return e.send(c)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return E{Status: fe.Code, Message: fe.Message}.send(c)
	}
	return ErrInternal.send(c)
}
