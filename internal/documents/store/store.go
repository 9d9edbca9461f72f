package store

import (
	"SecondBrain/internal/models"
	"context"
)

// DocumentStore defines the interface for document record persistence.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.DocumentRecord) error
	GetByID(ctx context.Context, userID, id string) (*models.DocumentRecord, error)
	MarkProcessed(ctx context.Context, id, memoryID, preview string) error
	MarkFailed(ctx context.Context, id, reason string) error
}
