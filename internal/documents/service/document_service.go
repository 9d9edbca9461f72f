package service

import (
	"SecondBrain/internal/documents/processor"
	"SecondBrain/internal/documents/store"
	memservice "SecondBrain/internal/memory/service"
	"SecondBrain/internal/models"
	"SecondBrain/pkg/logger"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const previewLimit = 200

// Publisher is the slice of the ingestion publisher this service needs.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// Service owns the document ingestion pipeline: it records submitted
// documents, extracts their text and feeds the result into the memory
// service. Document failures never block or fail memory operations.
type Service struct {
	docs      store.DocumentStore
	processor processor.Processor
	memories  *memservice.MemoryService
	publisher Publisher // optional; nil means process synchronously
	logger    *logger.Logger
}

// NewService creates a new document Service.
func NewService(docs store.DocumentStore, proc processor.Processor, memories *memservice.MemoryService, publisher Publisher, logger *logger.Logger) *Service {
	return &Service{
		docs:      docs,
		processor: proc,
		memories:  memories,
		publisher: publisher,
		logger:    logger,
	}
}

// Ingest registers a document and schedules it for processing. With a
// publisher configured the document is processed asynchronously via the
// ingestion topic; otherwise it is processed inline before returning.
func (s *Service) Ingest(ctx context.Context, userID, title, path string) (*models.DocumentRecord, error) {
	now := time.Now().UTC()
	doc := &models.DocumentRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Path:      path,
		Status:    models.DocumentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to create document record")
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	event := models.IngestionEvent{
		UserID:     userID,
		DocumentID: doc.ID,
		Title:      title,
		Path:       path,
	}

	if s.publisher == nil {
		if err := s.Process(ctx, event); err != nil {
			return nil, err
		}
		return doc, nil
	}

	if err := s.publisher.Publish(ctx, userID, event); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to publish ingestion event")
		s.markFailed(ctx, doc.ID, "failed to schedule processing")
		return nil, fmt.Errorf("failed to schedule document processing: %w", err)
	}
	return doc, nil
}

// GetDocument retrieves a document record by id, or nil if it does not exist
// or belongs to another user.
func (s *Service) GetDocument(ctx context.Context, userID, id string) (*models.DocumentRecord, error) {
	doc, err := s.docs.GetByID(ctx, userID, id)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to get document")
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// Process extracts text from the document and turns it into a memory.
// Extraction failure counts as "no content to process": the document is
// marked failed and no knowledge update happens, but no error propagates.
func (s *Service) Process(ctx context.Context, event models.IngestionEvent) error {
	text, err := s.processor.Extract(ctx, event.Path)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{
			"document_id": event.DocumentID,
			"path":        event.Path,
		}).Warn("document text extraction failed")
		s.markFailed(ctx, event.DocumentID, err.Error())
		return nil
	}

	if strings.TrimSpace(text) == "" {
		if err := s.docs.MarkProcessed(ctx, event.DocumentID, "", ""); err != nil {
			s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to mark empty document processed")
		}
		return nil
	}

	metadata := processor.FileMetadata(event.Path)
	metadata["source"] = "document"
	metadata["document_id"] = event.DocumentID
	if event.Title != "" {
		metadata["title"] = event.Title
	}

	record, err := s.memories.AddMemory(ctx, event.UserID, text, metadata)
	if err != nil {
		s.markFailed(ctx, event.DocumentID, "failed to store extracted content")
		return fmt.Errorf("failed to add memory for document %s: %w", event.DocumentID, err)
	}

	if err := s.docs.MarkProcessed(ctx, event.DocumentID, record.ID, preview(text)); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to mark document processed")
	}
	return nil
}

func (s *Service) markFailed(ctx context.Context, documentID, reason string) {
	if err := s.docs.MarkFailed(ctx, documentID, reason); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to mark document failed")
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "..."
}
