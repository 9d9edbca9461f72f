package models

import "time"

// EntityType classifies an extracted entity.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntityLocation     EntityType = "location"
)

// ExtractedEntity is a candidate entity proposed by an extractor. It is a
// value type: it only exists embedded in a MemoryRecord or as extractor output.
type ExtractedEntity struct {
	Name       string     `bson:"name" json:"name"`
	Type       EntityType `bson:"type" json:"type"`
	Confidence float64    `bson:"confidence" json:"confidence"`
}

// MemoryRecord is a single ingested piece of text together with the entities
// extracted from it. Records are append-only: the core never mutates a record
// after creation.
type MemoryRecord struct {
	ID        string                 `bson:"_id" json:"id"`
	UserID    string                 `bson:"user_id" json:"user_id"`
	Content   string                 `bson:"content" json:"content"`
	Entities  []ExtractedEntity      `bson:"entities" json:"entities"`
	Metadata  map[string]interface{} `bson:"metadata" json:"metadata"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at" json:"updated_at"`
}

// Mention is one recorded occurrence of an entity: the source text snippet and
// when it was seen.
type Mention struct {
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// EntityKnowledge accumulates everything known about one entity for one user.
// At most one record exists per (user_id, entity_name, entity_type); the store
// enforces this with a unique compound index.
type EntityKnowledge struct {
	ID           string     `bson:"_id" json:"id"`
	UserID       string     `bson:"user_id" json:"user_id"`
	EntityName   string     `bson:"entity_name" json:"entity_name"`
	EntityType   EntityType `bson:"entity_type" json:"entity_type"`
	Mentions     []Mention  `bson:"mentions" json:"mentions"`
	MentionCount int        `bson:"mention_count" json:"mention_count"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// EntityKnowledgeView is the read model returned by knowledge queries. A query
// that matches nothing yields a view with empty mentions and a sentinel
// summary; that is a normal result, not an error.
type EntityKnowledgeView struct {
	EntityName   string     `json:"entity_name"`
	EntityType   EntityType `json:"entity_type,omitempty"`
	MentionCount int        `json:"mention_count,omitempty"`
	Mentions     []Mention  `json:"mentions"`
	Summary      string     `json:"summary"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}
