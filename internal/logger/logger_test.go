package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"note-inbox/internal/config"
)

func TestNewWritesJSONUnlessTextRequested(t *testing.T) {
	for _, format := range []string{"json", "", "logfmt"} {
		t.Run("format="+format, func(t *testing.T) {
			var buf bytes.Buffer
			New(config.Config{LogLevel: "info", LogFormat: format}, &buf).
				Info("page loaded", "offset", 50, "has_more", true)

			var rec map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
			assert.Equal(t, "page loaded", rec["msg"])
			assert.EqualValues(t, 50, rec["offset"])
			assert.Equal(t, true, rec["has_more"])
		})
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(config.Config{LogLevel: "info", LogFormat: "text"}, &buf).
		Warn("anomalous list response", "kind", "string")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="anomalous list response"`)
	assert.Contains(t, out, "kind=string")
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.Config{LogLevel: "warn", LogFormat: "text"}, &buf)

	log.Info("request sent")
	log.Debug("request sent")
	assert.Zero(t, buf.Len())

	log.Error("request failed")
	assert.Contains(t, buf.String(), "request failed")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	log := Discard()
	require.NotNil(t, log)
	log.Error("nobody hears this")
}

func TestInitKeepsFirstLogger(t *testing.T) {
	const callers = 8
	got := make([]*slog.Logger, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			format := "json"
			if i%2 == 1 {
				format = "text"
			}
			got[i], _ = Init(config.Config{LogLevel: "debug", LogFormat: format})
		}()
	}
	wg.Wait()

	require.NotNil(t, got[0])
	for _, l := range got[1:] {
		assert.Same(t, got[0], l)
	}
	assert.Same(t, got[0], L())
}
