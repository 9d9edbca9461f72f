package service

import (
	"SecondBrain/internal/memory/extractor"
	"SecondBrain/internal/memory/store"
	"SecondBrain/internal/memory/summarizer"
	"SecondBrain/internal/models"
	"SecondBrain/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const entityViewCachePrefix = "entity_view:"

// MemoryService provides the core memory and entity knowledge functionality:
// ingesting text, accumulating per-entity knowledge and answering knowledge
// and search queries.
type MemoryService struct {
	extractor  extractor.Extractor
	memories   store.MemoryStore
	knowledge  store.KnowledgeStore
	graph      store.GraphStore // optional
	summarizer summarizer.Summarizer
	cache      *redis.Client // optional
	cacheTTL   time.Duration
	logger     *logger.Logger
}

// NewMemoryService creates a new MemoryService. graph and cache may be nil;
// the corresponding features are then skipped.
func NewMemoryService(ext extractor.Extractor, memories store.MemoryStore, knowledge store.KnowledgeStore, graph store.GraphStore, sum summarizer.Summarizer, cache *redis.Client, cacheTTL time.Duration, logger *logger.Logger) *MemoryService {
	return &MemoryService{
		extractor:  ext,
		memories:   memories,
		knowledge:  knowledge,
		graph:      graph,
		summarizer: sum,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// AddMemory ingests a piece of text for a user: extracts entities, persists
// the memory record and synchronously runs the knowledge update pass before
// returning, so callers observing success can rely on the knowledge store
// being up to date. Content is stored as given; empty content simply yields
// no entities.
func (s *MemoryService) AddMemory(ctx context.Context, userID, content string, metadata map[string]interface{}) (*models.MemoryRecord, error) {
	entities, err := s.extractor.Extract(content)
	if err != nil {
		// Extraction failure means "zero entities", never a failed ingest.
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("entity extraction failed, storing memory without entities")
		entities = []models.ExtractedEntity{}
	}

	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	now := time.Now().UTC()
	record := &models.MemoryRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		Entities:  entities,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.memories.Insert(ctx, record); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to store memory")
		return nil, fmt.Errorf("failed to store memory: %w", err)
	}

	s.updateEntityKnowledge(ctx, userID, entities, content)
	s.recordCoMentions(ctx, userID, entities)

	return record, nil
}

// updateEntityKnowledge runs the create-or-append pass for every extracted
// entity. A failure on one entity is logged and the rest of the batch is
// still attempted; nothing propagates to the AddMemory caller.
func (s *MemoryService) updateEntityKnowledge(ctx context.Context, userID string, entities []models.ExtractedEntity, content string) {
	for _, entity := range entities {
		mention := models.Mention{Content: content, Timestamp: time.Now().UTC()}
		if err := s.knowledge.AddMention(ctx, userID, entity, mention); err != nil {
			s.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{
				"entity_name": entity.Name,
				"entity_type": entity.Type,
			}).Error("failed to update entity knowledge")
			continue
		}
		s.invalidateEntityView(ctx, userID, entity.Name)
	}
}

// recordCoMentions links every pair of distinct entity names extracted from
// one memory in the relation graph. Best-effort: graph failures are logged,
// never surfaced.
func (s *MemoryService) recordCoMentions(ctx context.Context, userID string, entities []models.ExtractedEntity) {
	if s.graph == nil || len(entities) < 2 {
		return
	}

	seen := make(map[string]struct{}, len(entities))
	var names []string
	for _, entity := range entities {
		if _, ok := seen[entity.Name]; ok {
			continue
		}
		seen[entity.Name] = struct{}{}
		names = append(names, entity.Name)
	}

	var relations []*models.Relation
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			relations = append(relations, &models.Relation{
				Source: names[i],
				Target: names[j],
				Type:   store.RelationCoMentioned,
				UserID: userID,
			})
		}
	}

	if err := s.graph.AddRelations(ctx, relations); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to record co-mention relations")
	}
}

// SearchMemories runs a user-scoped text search over stored memories.
func (s *MemoryService) SearchMemories(ctx context.Context, userID, query string, limit int) ([]*models.MemoryRecord, error) {
	records, err := s.memories.Search(ctx, userID, query, limit)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to search memories")
		return nil, fmt.Errorf("failed to search memories: %w", err)
	}
	return records, nil
}

// GetMemory retrieves a single memory record by id, or nil if it does not
// exist or belongs to another user.
func (s *MemoryService) GetMemory(ctx context.Context, userID, id string) (*models.MemoryRecord, error) {
	record, err := s.memories.GetByID(ctx, userID, id)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to get memory")
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}
	return record, nil
}

// GetEntityKnowledge answers "what do I know about X". The lookup is a
// case-insensitive substring match; no match yields a view with empty
// mentions and a sentinel summary, which is a normal result. The summary
// always succeeds: if the configured summarizer fails, the deterministic
// template summary is used instead.
func (s *MemoryService) GetEntityKnowledge(ctx context.Context, userID, entityName string) (*models.EntityKnowledgeView, error) {
	if view := s.cachedEntityView(ctx, userID, entityName); view != nil {
		return view, nil
	}

	knowledge, err := s.knowledge.FindByName(ctx, userID, entityName)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to look up entity knowledge")
		return nil, fmt.Errorf("failed to look up entity knowledge: %w", err)
	}

	if knowledge == nil {
		return &models.EntityKnowledgeView{
			EntityName: entityName,
			Mentions:   []models.Mention{},
			Summary:    summarizer.NoInformationFound,
		}, nil
	}

	summary, err := s.summarizer.Summarize(ctx, knowledge.EntityName, knowledge.Mentions)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("summarizer failed, falling back to template summary")
		summary = summarizer.TemplateSummary(knowledge.EntityName, knowledge.Mentions)
	}

	lastUpdated := knowledge.UpdatedAt
	view := &models.EntityKnowledgeView{
		EntityName:   knowledge.EntityName,
		EntityType:   knowledge.EntityType,
		MentionCount: knowledge.MentionCount,
		Mentions:     knowledge.Mentions,
		Summary:      summary,
		LastUpdated:  &lastUpdated,
	}
	s.cacheEntityView(ctx, userID, entityName, view)
	return view, nil
}

// ListEntities returns the user's known entities, most-mentioned first,
// optionally filtered by type.
func (s *MemoryService) ListEntities(ctx context.Context, userID string, entityType models.EntityType, limit int) ([]*models.EntityKnowledge, error) {
	entities, err := s.knowledge.List(ctx, userID, entityType, limit)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to list entities")
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return entities, nil
}

func entityViewCacheKey(userID, entityName string) string {
	return entityViewCachePrefix + userID + ":" + strings.ToLower(entityName)
}

// cachedEntityView returns a cached view or nil. Cache problems only produce
// a debug log; the caller falls through to the store.
func (s *MemoryService) cachedEntityView(ctx context.Context, userID, entityName string) *models.EntityKnowledgeView {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, entityViewCacheKey(userID, entityName)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Debug("entity view cache read failed")
		}
		return nil
	}
	var view models.EntityKnowledgeView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil
	}
	return &view
}

func (s *MemoryService) cacheEntityView(ctx context.Context, userID, entityName string, view *models.EntityKnowledgeView) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, entityViewCacheKey(userID, entityName), data, s.cacheTTL).Err(); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Debug("entity view cache write failed")
	}
}

// invalidateEntityView drops the cached view for the exact entity name. Views
// cached under other substring queries age out via the TTL instead.
func (s *MemoryService) invalidateEntityView(ctx context.Context, userID, entityName string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, entityViewCacheKey(userID, entityName)).Err(); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error()}).Debug("entity view cache invalidation failed")
	}
}
