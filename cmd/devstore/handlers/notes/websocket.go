package notes

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"note-inbox/cmd/devstore/handlers/httperr"
	"note-inbox/internal/logger"
	"note-inbox/internal/services/notes"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
)

// CloseSessionExpired is the close code sent when a watcher outlives the
// session limit.
const CloseSessionExpired = websocket.ClosePolicyViolation

const (
	eventWriteWait = 10 * time.Second
	pingWriteWait  = 5 * time.Second
	pingEvery      = 25 * time.Second

	requestCtxKey = "streamRequestCtx"
)

// Hub is the part of notes.Hub a stream needs.
type Hub interface {
	Subscribe(ctx context.Context, connULID ulid.ULID) (*notes.Subscriber, func())
	Unsubscribe(ctx context.Context, connULID ulid.ULID)
}

// StreamHandlers serve /ws/notes/stream: every change the store makes is
// pushed to each connected watcher as {"type": ..., "note": ...}.
type StreamHandlers struct {
	hub        Hub
	maxSession time.Duration
}

func NewStreamHandlers(hub Hub, maxSessionSec int) *StreamHandlers {
	return &StreamHandlers{hub: hub, maxSession: time.Duration(maxSessionSec) * time.Second}
}

// RequireUpgrade answers 400 to plain HTTP requests and stashes the request
// context for Serve.
func (h *StreamHandlers) RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		logger.L().Warn("stream requested without upgrade", "path", c.Path())
		return httperr.Fail(httperr.ErrUpgradeRequired)
	}
	c.Locals(requestCtxKey, c.UserContext())
	return c.Next()
}

// Serve runs one watcher session until the peer leaves or the session
// limit fires.
func (h *StreamHandlers) Serve(c *websocket.Conn) {
	parent, ok := c.Locals(requestCtxKey).(context.Context)
	if !ok {
		logger.L().Error("stream opened without request context")
		_ = c.Close()
		return
	}

	s := &streamSession{
		conn: c,
		id:   ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader),
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sub, leave := h.hub.Subscribe(ctx, s.id)
	defer leave()
	logger.L().Info("watcher joined", "conn_id", s.id.String())

	expiry := time.AfterFunc(h.maxSession, func() {
		logger.L().Info("watcher session expired", "conn_id", s.id.String())
		s.expire()
		cancel()
	})
	defer expiry.Stop()

	pings := time.NewTicker(pingEvery)
	defer pings.Stop()

	go s.pump(ctx, sub, pings.C)
	s.drainReads()

	logger.L().Info("watcher left", "conn_id", s.id.String())
}

type streamSession struct {
	conn *websocket.Conn
	id   ulid.ULID

	// serializes writes between pump and expire
	writeMu sync.Mutex
}

// pump writes hub events and keep-alive pings until the subscription ends.
func (s *streamSession) pump(ctx context.Context, sub *notes.Subscriber, pings <-chan time.Time) {
	for {
		select {
		case ev, ok := <-sub.Ch:
			if !ok {
				return
			}
			if err := s.write(eventWriteWait, func() error { return s.conn.WriteJSON(toWire(ev)) }); err != nil {
				logger.L().Warn("event write failed", "error", err, "conn_id", s.id.String())
				return
			}
		case <-pings:
			if err := s.write(pingWriteWait, func() error { return s.conn.WriteMessage(websocket.PingMessage, nil) }); err != nil {
				logger.L().Warn("ping write failed", "error", err, "conn_id", s.id.String())
				return
			}
		case <-sub.Done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *streamSession) write(wait time.Duration, send func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(wait)); err != nil {
		return err
	}
	return send()
}

func (s *streamSession) expire() {
	msg := websocket.FormatCloseMessage(CloseSessionExpired, "session timeout")
	if err := s.write(pingWriteWait, func() error { return s.conn.WriteMessage(websocket.CloseMessage, msg) }); err != nil {
		logger.L().Warn("close frame write failed", "error", err, "conn_id", s.id.String())
	}
	if err := s.conn.Close(); err != nil {
		logger.L().Warn("stream close failed", "error", err, "conn_id", s.id.String())
	}
}

// drainReads discards inbound frames so control frames are processed; it
// returns once the connection is gone.
func (s *streamSession) drainReads() {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logger.L().Warn("stream read failed", "error", err, "conn_id", s.id.String())
			}
			return
		}
	}
}

type wireEvent struct {
	Type string `json:"type"`
	Note any    `json:"note"`
}

type deletedRef struct {
	ID int64 `json:"id"`
}

// toWire reduces a deleted note to its id.
func toWire(ev notes.NoteEvent) wireEvent {
	if ev.Type == notes.EventDeleted {
		return wireEvent{Type: ev.Type, Note: deletedRef{ID: ev.Note.ID}}
	}
	return wireEvent{Type: ev.Type, Note: ev.Note}
}

// LogUpgrades logs every websocket handshake under the group it is mounted on.
func LogUpgrades() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			logger.L().Info("websocket handshake", "ip", c.IP(), "path", c.Path())
		}
		return c.Next()
	}
}
