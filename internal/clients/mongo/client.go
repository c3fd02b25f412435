package mongo

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"note-inbox/internal/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

const appName = "note-inbox"

var (
	ErrNotInitialized = errors.New("mongo client not initialized")
	ErrShutdown       = errors.New("mongo client already shut down")
)

var (
	conn connector = liveConnector{}

	mu       sync.Mutex
	client   *mongo.Client
	db       *mongo.Database
	shutDown bool
)

// Init connects the dev store to MongoDB once. A failed attempt leaves
// nothing cached so the next call dials again.
func Init(ctx context.Context, cfg config.Config, log *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	mu.Lock()
	defer mu.Unlock()

	if client != nil {
		return client, db, nil
	}

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	cli, err := conn.dial(ctx, cfg.MongoURI, appName)
	if err != nil {
		log.Error("mongo dial failed", "err", err)
		return nil, nil, err
	}
	if err := conn.probe(ctx, cli); err != nil {
		log.Error("mongo probe failed", "err", err)
		_ = conn.hangUp(ctx, cli)
		return nil, nil, err
	}

	client = cli
	db = cli.Database(cfg.MongoDBName)
	shutDown = false
	log.Info("mongo ready", "db", cfg.MongoDBName)
	return client, db, nil
}

// Client returns the connected client or nil.
func Client() *mongo.Client {
	mu.Lock()
	defer mu.Unlock()
	return client
}

// DB returns the note store database or nil.
func DB() *mongo.Database {
	mu.Lock()
	defer mu.Unlock()
	return db
}

// Ping probes the connected client. It backs the dev store health route.
func Ping(ctx context.Context) error {
	mu.Lock()
	cli := client
	mu.Unlock()
	if cli == nil {
		return ErrNotInitialized
	}
	return conn.probe(ctx, cli)
}

// Shutdown disconnects the client. Later calls report ErrShutdown.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if client == nil {
		if shutDown {
			return ErrShutdown
		}
		shutDown = true
		return ErrNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := conn.hangUp(ctx, client)
	forget()
	shutDown = true
	return err
}

// forget drops the cached connection without closing it. Callers hold mu.
func forget() {
	client = nil
	db = nil
	shutDown = false
}
