package middlewares

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteLabel(t *testing.T) {
	app := fiber.New()
	var seen []string
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		seen = append(seen, routeLabel(c))
		return err
	})
	app.Get("/inbox/notes/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for _, path := range []string{"/inbox/notes/42", "/inbox/notes/43", "/nowhere"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	require.Len(t, seen, 3)
	assert.Equal(t, "/inbox/notes/:id", seen[0])
	assert.Equal(t, seen[0], seen[1])
	assert.NotEmpty(t, seen[2])
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{200: "2xx", 204: "2xx", 304: "304", 404: "4xx", 413: "4xx", 503: "5xx", 101: "101"}
	for code, want := range tests {
		assert.Equal(t, want, statusClass(code), "code %d", code)
	}
}

func TestAttachMetricsExposesCollectors(t *testing.T) {
	app := fiber.New()
	AttachMetrics(app, StreamCollectors(func() (int, uint64) { return 3, 7 })...)
	app.Get("/inbox/notes/:id", func(c *fiber.Ctx) error { return c.SendStatus(204) })

	resp, err := app.Test(httptest.NewRequest("GET", "/inbox/notes/5", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `devstore_http_requests_total{method="GET",path="/inbox/notes/:id",status="2xx"} 1`)
	assert.Contains(t, text, "devstore_stream_subscribers 3")
	assert.Contains(t, text, "devstore_stream_dropped_events_total 7")
}
