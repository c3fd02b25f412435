package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const dialTimeout = 10 * time.Second

// connector opens, probes and closes store connections. Tests replace it.
type connector interface {
	dial(ctx context.Context, uri, app string) (*mongo.Client, error)
	probe(ctx context.Context, cli *mongo.Client) error
	hangUp(ctx context.Context, cli *mongo.Client) error
}

type liveConnector struct{}

func (liveConnector) dial(_ context.Context, uri, app string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(dialTimeout).
		SetAppName(app)

	cli, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("dial note store database: %w", err)
	}
	return cli, nil
}

// probe asks the primary, so a lagging secondary never reports healthy.
func (liveConnector) probe(ctx context.Context, cli *mongo.Client) error {
	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("note store database unreachable: %w", err)
	}
	return nil
}

func (liveConnector) hangUp(ctx context.Context, cli *mongo.Client) error {
	if err := cli.Disconnect(ctx); err != nil {
		return fmt.Errorf("close note store database: %w", err)
	}
	return nil
}
