package main

import (
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"note-inbox/cmd/devstore/testutil"
	"note-inbox/internal/config"
	"note-inbox/internal/logger"
	"note-inbox/internal/services/notes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggingConfig(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{
			name:     "request logging disabled",
			envValue: "false",
			expected: false,
		},
		{
			name:     "request logging enabled",
			envValue: "true",
			expected: true,
		},
		{
			name:     "default value (no env var)",
			envValue: "",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				_ = os.Unsetenv("REQUEST_LOGGING_ENABLED")
				config.ResetCache()
			}()

			if tt.envValue != "" {
				err := os.Setenv("REQUEST_LOGGING_ENABLED", tt.envValue)
				require.NoError(t, err)
			}

			config.ResetCache()

			cfg, err := config.Load()
			require.NoError(t, err)

			assert.Equal(t, tt.expected, cfg.RequestLoggingEnabled,
				"RequestLoggingEnabled should be %v when REQUEST_LOGGING_ENABLED=%s",
				tt.expected, tt.envValue)
		})
	}
}

func newTestRouter(t *testing.T, mutate func(*config.Config)) *fiber.App {
	t.Helper()
	cfg := config.Config{
		LogLevel:              "error",
		LogFormat:             "text",
		StoreResponseShape:    config.ShapeBare,
		WSMaxSessionSec:       60,
		RouteMetricsEnabled:   true,
		RequestLoggingEnabled: false,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	_, err := logger.Init(cfg)
	require.NoError(t, err)

	hub := notes.NewHub(8)
	svc := notes.NewService(notes.NewMemoryRepo(), hub, logger.Discard())
	return setupRouter(cfg, svc, hub, nil)
}

func TestRouterRoutes(t *testing.T) {
	app := newTestRouter(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(testutil.CreateJSONRequest("POST", "/inbox/notes", map[string]string{"content": "hi #there"}))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/inbox/notes", nil))
	require.NoError(t, err)
	var list []notes.Note
	testutil.DecodeJSON(t, resp, &list)
	assert.Len(t, list, 1)

	resp, err = app.Test(httptest.NewRequest("PATCH", "/inbox/notes/1", nil))
	require.NoError(t, err)
	assert.Equal(t, 405, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/ws/notes/stream", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRouterEnvelopeShape(t *testing.T) {
	app := newTestRouter(t, func(c *config.Config) { c.StoreResponseShape = config.ShapeEnvelope })

	resp, err := app.Test(httptest.NewRequest("GET", "/inbox/notes", nil))
	require.NoError(t, err)

	var env map[string]any
	testutil.DecodeJSON(t, resp, &env)
	assert.Contains(t, env, "notes")
	assert.Contains(t, env, "offset")
	assert.Equal(t, false, env["hasMore"])
}

func TestRouterMetricsToggle(t *testing.T) {
	enabled := newTestRouter(t, nil)
	resp, err := enabled.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	disabled := newTestRouter(t, func(c *config.Config) { c.RouteMetricsEnabled = false })
	resp, err = disabled.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRouterCORSPreflight(t *testing.T) {
	app := newTestRouter(t, nil)

	req := httptest.NewRequest("OPTIONS", "/inbox/notes/1", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.True(t, strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), "PUT"))
}
