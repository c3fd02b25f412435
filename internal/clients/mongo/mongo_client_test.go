package mongo

import (
	"context"
	"sync"
	"testing"
	"time"

	"note-inbox/internal/config"
	"note-inbox/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	msgClientShouldBeNil = "client should be nil on connection failure"
	msgDBShouldBeNil     = "db should be nil on connection failure"
	MongoTestURI         = "mongodb://invalid/?connectTimeoutMS=1&serverSelectionTimeoutMS=1"
)

// stubConnector fails every dial immediately.
type stubConnector struct {
	mu    sync.Mutex
	dials int
}

func (s *stubConnector) dial(_ context.Context, _, _ string) (*mongo.Client, error) {
	s.mu.Lock()
	s.dials++
	s.mu.Unlock()
	return nil, context.DeadlineExceeded
}

func (*stubConnector) probe(_ context.Context, _ *mongo.Client) error {
	return context.DeadlineExceeded
}

func (*stubConnector) hangUp(_ context.Context, _ *mongo.Client) error { return nil }

func withStubConnector(t *testing.T) *stubConnector {
	t.Helper()
	old := conn
	stub := &stubConnector{}
	conn = stub
	mu.Lock()
	forget()
	mu.Unlock()
	t.Cleanup(func() {
		conn = old
		mu.Lock()
		forget()
		mu.Unlock()
	})
	return stub
}

func testConfig(t *testing.T) (config.Config, context.Context) {
	t.Helper()
	cfg := config.Config{
		MongoURI:    MongoTestURI,
		MongoDBName: "test",
		LogLevel:    "error",
		LogFormat:   "json",
	}
	_, err := logger.Init(cfg)
	require.NoError(t, err)
	return cfg, context.Background()
}

func TestMongoClientFailedInitIsNotCached(t *testing.T) {
	stub := withStubConnector(t)
	cfg, ctx := testConfig(t)

	client1, db1, err1 := Init(ctx, cfg, logger.Discard())
	client2, db2, err2 := Init(ctx, cfg, logger.Discard())

	assert.Nil(t, client1, msgClientShouldBeNil)
	assert.Nil(t, db1, msgDBShouldBeNil)
	assert.Nil(t, client2, msgClientShouldBeNil)
	assert.Nil(t, db2, msgDBShouldBeNil)
	assert.Error(t, err1)
	assert.Error(t, err2)
	assert.Equal(t, 2, stub.dials, "a failed attempt must be retried")

	assert.Nil(t, Client())
	assert.Nil(t, DB())
}

func TestMongoClientConcurrency(t *testing.T) {
	withStubConnector(t)
	cfg, ctx := testConfig(t)

	const goroutines = 10
	var wg sync.WaitGroup
	errs := make([]error, goroutines)

	wg.Add(goroutines)
	for i := range goroutines {
		go func(index int) {
			defer wg.Done()
			_, _, errs[index] = Init(ctx, cfg, logger.Discard())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.Error(t, err, "goroutine %d", i)
	}
}

func TestMongoClientShutdownIdempotency(t *testing.T) {
	withStubConnector(t)
	cfg, ctx := testConfig(t)

	_, _, err := Init(ctx, cfg, logger.Discard())
	require.Error(t, err)

	err1 := Shutdown(ctx) // client was never up
	err2 := Shutdown(ctx) // already shut down
	err3 := Shutdown(ctx)

	assert.ErrorIs(t, err1, ErrNotInitialized)
	assert.ErrorIs(t, err2, ErrShutdown)
	assert.ErrorIs(t, err3, ErrShutdown)

	assert.Nil(t, Client())
	assert.Nil(t, DB())
}

func TestPingWithoutClient(t *testing.T) {
	withStubConnector(t)
	assert.ErrorIs(t, Ping(context.Background()), ErrNotInitialized)
}

func TestRoundTrip(t *testing.T) {
	t.Run("bounds a context without deadline", func(t *testing.T) {
		ctx, cancel := roundTrip(context.Background())
		defer cancel()
		dl, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(roundTripTimeout), dl, time.Second)
	})

	t.Run("keeps a stricter parent deadline", func(t *testing.T) {
		parent, parentCancel := context.WithTimeout(context.Background(), roundTripTimeout/10)
		defer parentCancel()
		ctx, cancel := roundTrip(parent)
		defer cancel()
		assert.Equal(t, parent, ctx)
	})

	t.Run("returns a canceled parent unchanged", func(t *testing.T) {
		parent, parentCancel := context.WithCancel(context.Background())
		parentCancel()
		ctx, cancel := roundTrip(parent)
		cancel()
		assert.Equal(t, parent, ctx)
	})
}
