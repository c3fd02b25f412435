package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"note-inbox/internal/services/inbox"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
)

const streamPath = "/ws/notes/stream"

type wireEvent struct {
	Type string    `json:"type"`
	Note *wireNote `json:"note"`
}

// streamURL maps the http(s) base onto the ws(s) change stream endpoint.
func (c *Client) streamURL() string {
	u := *c.base
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(c.base.Path, "/") + streamPath
	return u.String()
}

// Stream subscribes to the store's change events and calls fn for each one
// until ctx is done or the store closes the stream. It returns nil when ctx
// ended the stream.
func (c *Client) Stream(ctx context.Context, fn func(inbox.NoteEvent)) error {
	header := http.Header{}
	header.Set(headerRequestID, ulid.Make().String())

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.streamURL(), header)
	if err != nil {
		if resp != nil {
			return &inbox.StatusError{Status: resp.StatusCode, Message: "change stream upgrade refused"}
		}
		return fmt.Errorf("%w: %w", inbox.ErrNetwork, err)
	}
	defer conn.Close()

	c.log.Info("change stream connected", "url", c.streamURL())

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadlineSoon())
		_ = conn.Close()
	})
	defer stop()

	for {
		var ev wireEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				c.log.Info("change stream closed by store", "code", closeErr.Code, "reason", closeErr.Text)
				return fmt.Errorf("%w: stream closed: %w", inbox.ErrNetwork, err)
			}
			return fmt.Errorf("%w: %w", inbox.ErrNetwork, err)
		}

		out := inbox.NoteEvent{Type: ev.Type}
		if ev.Note != nil {
			n := ev.Note.toNote()
			out.Note = &n
		}
		fn(out)
	}
}
