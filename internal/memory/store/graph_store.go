package store

import (
	"SecondBrain/internal/database/neo4j"
	"SecondBrain/internal/models"
	"context"
	"fmt"
)

// RelationCoMentioned links two entities that appeared in the same memory.
const RelationCoMentioned = "CO_MENTIONED"

// GraphStore defines the interface for the entity relation graph.
type GraphStore interface {
	AddRelations(ctx context.Context, relations []*models.Relation) error
	GetRelations(ctx context.Context, userID string) ([]*models.Relation, error)
}

// Neo4jGraphStore is a GraphStore backed by Neo4j. Nodes are merged by
// (name, user_id), so repeated co-mentions reuse the same node.
type Neo4jGraphStore struct {
	client *neo4j.Client
}

// NewNeo4jGraphStore creates a new Neo4jGraphStore.
func NewNeo4jGraphStore(client *neo4j.Client) *Neo4jGraphStore {
	return &Neo4jGraphStore{client: client}
}

// AddRelations merges a list of relations into the graph.
func (s *Neo4jGraphStore) AddRelations(ctx context.Context, relations []*models.Relation) error {
	for _, rel := range relations {
		query := `
		MERGE (source {name: $source_name, user_id: $user_id})
		MERGE (target {name: $target_name, user_id: $user_id})
		MERGE (source)-[:` + rel.Type + `]->(target)
		`
		params := map[string]interface{}{
			"source_name": rel.Source,
			"target_name": rel.Target,
			"user_id":     rel.UserID,
		}
		if err := s.client.ExecuteWrite(ctx, query, params); err != nil {
			return fmt.Errorf("failed to add relation to neo4j: %w", err)
		}
	}
	return nil
}

// GetRelations retrieves all relations for a given user.
func (s *Neo4jGraphStore) GetRelations(ctx context.Context, userID string) ([]*models.Relation, error) {
	query := `
	MATCH (source {user_id: $user_id})-[r]->(target {user_id: $user_id})
	RETURN source.name AS source, type(r) AS type, target.name AS target
	`
	params := map[string]interface{}{"user_id": userID}

	records, err := s.client.ExecuteRead(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get relations from neo4j: %w", err)
	}

	var relations []*models.Relation
	for _, record := range records {
		source, _ := record.Get("source")
		target, _ := record.Get("target")
		relType, _ := record.Get("type")

		relations = append(relations, &models.Relation{
			Source: source.(string),
			Target: target.(string),
			Type:   relType.(string),
			UserID: userID,
		})
	}
	return relations, nil
}

var _ GraphStore = (*Neo4jGraphStore)(nil)
