package neo4j

import (
	"SecondBrain/internal/config"
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Client holds the Neo4j driver instance together with its configuration.
type Client struct {
	Driver neo4j.DriverWithContext
	Config *config.Neo4jConfig
}

// Connect creates a Neo4j driver and verifies connectivity.
func Connect(ctx context.Context, cfg *config.Neo4jConfig) (*Client, error) {
	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")

	driver, err := neo4j.NewDriverWithContext(cfg.Uri, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	return &Client{Driver: driver, Config: cfg}, nil
}

// ExecuteWrite runs a cypher statement inside a write transaction.
func (c *Client) ExecuteWrite(ctx context.Context, query string, params map[string]interface{}) error {
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.Config.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return nil, result.Err()
	})
	return err
}

// ExecuteRead runs a cypher query inside a read transaction and collects all
// records before the session is closed.
func (c *Client) ExecuteRead(ctx context.Context, query string, params map[string]interface{}) ([]*neo4j.Record, error) {
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: c.Config.Database,
	})
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return records.([]*neo4j.Record), nil
}

// Close shuts down the driver.
func (c *Client) Close(ctx context.Context) error {
	return c.Driver.Close(ctx)
}

// HealthCheck verifies the connection is still alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.Driver == nil {
		return fmt.Errorf("neo4j driver is not initialized")
	}
	return c.Driver.VerifyConnectivity(ctx)
}
