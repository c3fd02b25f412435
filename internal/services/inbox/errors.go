package inbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyContent is returned when submitted content is empty or whitespace only.
var ErrEmptyContent = errors.New("content is empty")

// ErrBusy is returned when an operation of the same guarded class is already in flight.
var ErrBusy = errors.New("operation already in progress")

// ErrNotFound is returned when the target note is absent, locally or on the store.
var ErrNotFound = errors.New("note not found")

// ErrNetwork is returned when the store timed out or could not be reached.
var ErrNetwork = errors.New("note store unreachable")

// ErrServer is returned for any non-2xx, non-404 store response.
var ErrServer = errors.New("note store error")

// ErrNoCommentTarget is returned when a comment is submitted with no note selected.
var ErrNoCommentTarget = errors.New("no note selected for comments")

// ErrNotEditing is returned when Submit is called with the editor closed.
var ErrNotEditing = errors.New("editor is not open")

// StatusError is a non-2xx answer from the store.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("note store responded %d", e.Status)
	}
	return fmt.Sprintf("note store responded %d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto the error taxonomy.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrServer
}

// classify folds any gateway error into the taxonomy. Deadline and
// cancellation count as network failures; unknown errors as server errors.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrServer), errors.Is(err, ErrNetwork):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	default:
		return fmt.Errorf("%w: %w", ErrServer, err)
	}
}

// UserMessage turns an operation error into text suitable for the person at the keyboard.
func UserMessage(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyContent):
		return "Note content cannot be empty"
	case errors.Is(err, ErrBusy):
		return "Still saving, please wait"
	case errors.Is(err, ErrNetwork):
		return "Network error, please check your connection"
	case errors.As(err, &se) && se.Status == http.StatusUnauthorized:
		return "Authentication failed, please sign in again"
	case errors.As(err, &se) && se.Status == http.StatusForbidden:
		return "You do not have permission to do this"
	case errors.As(err, &se) && se.Status == http.StatusRequestEntityTooLarge:
		return "Content exceeds the length limit"
	case errors.As(err, &se) && se.Status >= 500:
		return "The server had a problem, please try again later"
	case errors.Is(err, ErrNotFound):
		return "The note no longer exists"
	default:
		return "Something went wrong, please try again"
	}
}
