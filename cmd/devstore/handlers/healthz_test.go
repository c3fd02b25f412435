package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	tests := []struct {
		name       string
		ping       Pinger
		wantStatus int
	}{
		{name: "in-process backend", ping: nil, wantStatus: 200},
		{name: "backend up", ping: func(context.Context) error { return nil }, wantStatus: 200},
		{name: "backend down", ping: func(context.Context) error { return errors.New("no route") }, wantStatus: 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/healthz", Healthz(tt.ping))

			resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
