package mongo

import (
	"SecondBrain/internal/config"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client holds an established MongoDB connection. It is constructed once in
// main and injected into the stores that need it; there is no package-level
// singleton.
type Client struct {
	client *mongo.Client
	Config *config.MongoConfig
}

// Connect establishes and verifies a connection to MongoDB.
func Connect(ctx context.Context, cfg *config.MongoConfig) (*Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.Address)
	if cfg.Username != "" && cfg.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err = c.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{client: c, Config: cfg}, nil
}

// Database returns the configured database handle.
func (c *Client) Database() *mongo.Database {
	return c.client.Database(c.Config.Database)
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// HealthCheck verifies the connection is still alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}
