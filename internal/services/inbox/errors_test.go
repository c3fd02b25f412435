package inbox

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusErrorUnwrap(t *testing.T) {
	assert.ErrorIs(t, &StatusError{Status: http.StatusNotFound}, ErrNotFound)
	assert.ErrorIs(t, &StatusError{Status: http.StatusConflict}, ErrServer)
	assert.NotErrorIs(t, &StatusError{Status: http.StatusConflict}, ErrNotFound)
	assert.Equal(t, "note store responded 500: boom", (&StatusError{Status: 500, Message: "boom"}).Error())
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(context.Canceled), ErrNetwork)
	assert.ErrorIs(t, classify(errors.New("weird")), ErrServer)

	wrapped := classify(ErrNetwork)
	assert.Equal(t, ErrNetwork, wrapped)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrEmptyContent, "Note content cannot be empty"},
		{ErrBusy, "Still saving, please wait"},
		{classify(context.DeadlineExceeded), "Network error, please check your connection"},
		{&StatusError{Status: http.StatusUnauthorized}, "Authentication failed, please sign in again"},
		{&StatusError{Status: http.StatusForbidden}, "You do not have permission to do this"},
		{&StatusError{Status: http.StatusBadGateway}, "The server had a problem, please try again later"},
		{&StatusError{Status: http.StatusNotFound}, "The note no longer exists"},
		{errors.New("x"), "Something went wrong, please try again"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}
