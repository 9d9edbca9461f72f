package store

import (
	"SecondBrain/internal/models"
	"context"
)

// MemoryStore defines the interface for memory record persistence.
type MemoryStore interface {
	Insert(ctx context.Context, record *models.MemoryRecord) error
	GetByID(ctx context.Context, userID, id string) (*models.MemoryRecord, error)
	// Search runs a user-scoped, case-insensitive text search over record
	// content. Ordering is store-defined relevance; at most limit records are
	// returned.
	Search(ctx context.Context, userID, query string, limit int) ([]*models.MemoryRecord, error)
}

// KnowledgeStore defines the interface for per-user entity knowledge
// persistence. At most one record exists per (user, name, type).
type KnowledgeStore interface {
	// AddMention atomically appends a mention to the knowledge record for
	// (userID, entity.Name, entity.Type), creating the record if it does not
	// exist. Name matching is exact and case-sensitive.
	AddMention(ctx context.Context, userID string, entity models.ExtractedEntity, mention models.Mention) error
	// FindByName returns the store's first record whose entity name contains
	// name as a case-insensitive substring, or nil if none matches.
	FindByName(ctx context.Context, userID, name string) (*models.EntityKnowledge, error)
	// List returns up to limit knowledge records for the user, most-mentioned
	// first, optionally filtered by entity type.
	List(ctx context.Context, userID string, entityType models.EntityType, limit int) ([]*models.EntityKnowledge, error)
}
