package main

import (
	"note-inbox/cmd/devstore/handlers"
	"note-inbox/cmd/devstore/handlers/httperr"
	notesHandlers "note-inbox/cmd/devstore/handlers/notes"
	"note-inbox/cmd/devstore/middlewares"
	"note-inbox/internal/config"
	"note-inbox/internal/logger"
	notesServices "note-inbox/internal/services/notes"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// setupRouter configures and returns a Fiber app with all routes
func setupRouter(cfg config.Config, svc *notesServices.Service, hub *notesServices.Hub, ping handlers.Pinger) *fiber.App {
	v := validator.New()

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
		Immutable:    true, // make Fiber copy all request-derived strings
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, X-Request-ID",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	if cfg.RouteMetricsEnabled {
		middlewares.AttachMetrics(app, middlewares.StreamCollectors(hub.Stats)...)
	}

	// Health check endpoint, outside the inbox group to avoid logging
	app.Get("/healthz", handlers.Healthz(ping))

	var inbox fiber.Router
	if cfg.RequestLoggingEnabled {
		inbox = app.Group("/inbox", fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${status} ${method} ${path} ${reqHeader:X-Request-ID} ${latency}\n",
		}))
		logger.L().Info("request logging enabled")
	} else {
		inbox = app.Group("/inbox")
		logger.L().Info("request logging disabled")
	}

	notesH := notesHandlers.NewHandlers(svc, v, cfg.StoreResponseShape)

	inbox.Get("/notes", notesH.List)
	inbox.Post("/notes", notesH.Create)
	inbox.Put("/notes/:id", notesH.Update)
	inbox.Delete("/notes/:id", notesH.Delete)
	inbox.Get("/notes/:id/comments", notesH.Comments)
	inbox.Post("/notes/:id/comments", notesH.AddComment)
	inbox.Get("/tags", notesH.Tags)
	inbox.Get("/tags/detailed", notesH.DetailedTags)

	// WebSocket routes
	wsHandlers := notesHandlers.NewStreamHandlers(hub, cfg.WSMaxSessionSec)
	app.Use("/ws", notesHandlers.LogUpgrades())
	app.Get("/ws/notes/stream", wsHandlers.RequireUpgrade, websocket.New(wsHandlers.Serve))

	return app
}
