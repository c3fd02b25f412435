package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"note-inbox/internal/services/notes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "custom error", err: ErrBadRequest, wantStatus: 400, wantMsg: "Bad Request"},
		{name: "not found", err: NotFound(errors.New("note not found")), wantStatus: 404, wantMsg: "note not found"},
		{name: "fiber error", err: fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), wantStatus: 405, wantMsg: "nope"},
		{name: "unknown error", err: errors.New("boom"), wantStatus: 500, wantMsg: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: Handler})
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var payload map[string]string
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, tt.wantMsg, payload["error"])
		})
	}
}

func TestFromService(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{notes.ErrNoteNotFound, fiber.StatusNotFound},
		{fmt.Errorf("update: %w", notes.ErrNoteNotFound), fiber.StatusNotFound},
		{notes.ErrEmptyContent, fiber.StatusBadRequest},
		{notes.ErrInvalidLimit, fiber.StatusBadRequest},
		{notes.ErrListNotes, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, FromService(tt.err).Status)
		})
	}
	assert.Equal(t, notes.ErrNoteNotFound.Error(), FromService(fmt.Errorf("x: %w", notes.ErrNoteNotFound)).Message)
}
