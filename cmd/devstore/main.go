package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"note-inbox/cmd/devstore/handlers"
	mongo "note-inbox/internal/clients/mongo" // mongo client singleton
	"note-inbox/internal/config"
	"note-inbox/internal/logger"
	"note-inbox/internal/services/notes"

	"github.com/grafana/pyroscope-go"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Create bootstrap logger for early errors
	bootstrapLog := log.New(os.Stderr, "bootstrap: ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		bootstrapLog.Printf("config load failed: %v", err)
		os.Exit(1)
	}

	logg, err := logger.Init(cfg)
	if err != nil {
		bootstrapLog.Printf("logger init failed: %v", err)
		os.Exit(1)
	}

	if cfg.PyroscopeAddress != "" {
		profiler, err := startProfiling(cfg, logg)
		if err != nil {
			logg.Error("pyroscope start", "err", err)
			os.Exit(1)
		}
		defer func() { _ = profiler.Stop() }()
	}

	repo, ping, err := openRepository(ctx, cfg, logg)
	if err != nil {
		logg.Error("store init", "backend", cfg.StoreBackend, "err", err)
		os.Exit(1)
	}

	hub := notes.NewHub(cfg.WSOutboxBuffer)
	svc := notes.NewService(repo, hub, logg)

	logg.Info("starting note store", "port", cfg.AppPort, "backend", cfg.StoreBackend, "shape", cfg.StoreResponseShape)

	app := setupRouter(cfg, svc, hub, ping)
	portStr := fmt.Sprintf(":%d", cfg.AppPort)

	g.Go(func() error {
		err := app.Listen(portStr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	// Graceful shutdown
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		if cfg.StoreBackend == config.BackendMongo {
			return mongo.Shutdown(shutdownCtx)
		}
		return nil
	})

	// Wait and exit
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error("fatal", "err", err)
		os.Exit(1)
	}
	logg.Info("graceful shutdown complete")
}

// openRepository picks the storage backend. The health ping is nil for the
// in-process backend.
func openRepository(ctx context.Context, cfg config.Config, log *slog.Logger) (notes.Repository, handlers.Pinger, error) {
	if cfg.StoreBackend != config.BackendMongo {
		return notes.NewMemoryRepo(), nil, nil
	}

	_, db, err := mongo.Init(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info("connected to mongo", "db", db.Name())

	repo, err := mongo.NewNotesRepo(ctx, db)
	if err != nil {
		return nil, nil, err
	}

	return repo, mongo.Ping, nil
}

func startProfiling(cfg config.Config, log *slog.Logger) (*pyroscope.Profiler, error) {
	log.Info("continuous profiling enabled", "server", cfg.PyroscopeAddress)
	return pyroscope.Start(pyroscope.Config{
		ApplicationName: "note-inbox.devstore",
		ServerAddress:   cfg.PyroscopeAddress,
		Tags:            map[string]string{"backend": cfg.StoreBackend},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
}
