package models

import "time"

// DocumentStatus tracks where a document is in the ingestion pipeline.
type DocumentStatus string

const (
	DocumentPending   DocumentStatus = "pending"
	DocumentProcessed DocumentStatus = "processed"
	DocumentFailed    DocumentStatus = "failed"
)

// DocumentRecord describes an ingested file. The extracted text itself is not
// stored here; it flows into a MemoryRecord, and MemoryID links back to it.
type DocumentRecord struct {
	ID             string         `bson:"_id" json:"id"`
	UserID         string         `bson:"user_id" json:"user_id"`
	Title          string         `bson:"title" json:"title"`
	Path           string         `bson:"path" json:"path"`
	Status         DocumentStatus `bson:"status" json:"status"`
	MemoryID       string         `bson:"memory_id,omitempty" json:"memory_id,omitempty"`
	ContentPreview string         `bson:"content_preview,omitempty" json:"content_preview,omitempty"`
	Error          string         `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt      time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `bson:"updated_at" json:"updated_at"`
}

// IngestionEvent is the message published to the ingestion topic when a
// document is submitted for processing.
type IngestionEvent struct {
	UserID     string `json:"user_id"`
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Path       string `json:"path"`
}
