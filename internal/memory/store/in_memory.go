package store

import (
	"SecondBrain/internal/models"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryMemoryStore is a thread-safe, in-memory MemoryStore used for tests
// and local development. Search ordering is insertion order.
type InMemoryMemoryStore struct {
	mu      sync.RWMutex
	records []*models.MemoryRecord
	byID    map[string]*models.MemoryRecord
}

// NewInMemoryMemoryStore creates a new InMemoryMemoryStore.
func NewInMemoryMemoryStore() *InMemoryMemoryStore {
	return &InMemoryMemoryStore{byID: make(map[string]*models.MemoryRecord)}
}

// Insert stores a new memory record.
func (s *InMemoryMemoryStore) Insert(ctx context.Context, record *models.MemoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *record
	s.records = append(s.records, &clone)
	s.byID[record.ID] = &clone
	return nil
}

// GetByID retrieves a memory record by id, scoped to its owner.
func (s *InMemoryMemoryStore) GetByID(ctx context.Context, userID, id string) (*models.MemoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[id]
	if !ok || record.UserID != userID {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

// Search returns records whose content contains the query, case-insensitively.
func (s *InMemoryMemoryStore) Search(ctx context.Context, userID, query string, limit int) ([]*models.MemoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	var results []*models.MemoryRecord
	for _, record := range s.records {
		if record.UserID != userID {
			continue
		}
		if !strings.Contains(strings.ToLower(record.Content), needle) {
			continue
		}
		clone := *record
		results = append(results, &clone)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// InMemoryKnowledgeStore is a thread-safe, in-memory KnowledgeStore. The
// per-key mutation runs under one lock, so the uniqueness invariant holds
// here just as it does under the Mongo upsert.
type InMemoryKnowledgeStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*models.EntityKnowledge
}

// NewInMemoryKnowledgeStore creates a new InMemoryKnowledgeStore.
func NewInMemoryKnowledgeStore() *InMemoryKnowledgeStore {
	return &InMemoryKnowledgeStore{records: make(map[string]*models.EntityKnowledge)}
}

func knowledgeKey(userID, name string, entityType models.EntityType) string {
	return fmt.Sprintf("%s\x00%s\x00%s", userID, name, entityType)
}

// AddMention appends a mention to the knowledge record for the exact
// (user, name, type) key, creating it on first mention.
func (s *InMemoryKnowledgeStore) AddMention(ctx context.Context, userID string, entity models.ExtractedEntity, mention models.Mention) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := knowledgeKey(userID, entity.Name, entity.Type)
	now := time.Now().UTC()

	record, ok := s.records[key]
	if !ok {
		record = &models.EntityKnowledge{
			ID:         uuid.New().String(),
			UserID:     userID,
			EntityName: entity.Name,
			EntityType: entity.Type,
			CreatedAt:  now,
		}
		s.records[key] = record
		s.order = append(s.order, key)
	}
	record.Mentions = append(record.Mentions, mention)
	record.MentionCount++
	record.UpdatedAt = now
	return nil
}

// FindByName returns the first record, in insertion order, whose entity name
// contains name case-insensitively.
func (s *InMemoryKnowledgeStore) FindByName(ctx context.Context, userID, name string) (*models.EntityKnowledge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(name)
	for _, key := range s.order {
		record := s.records[key]
		if record.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(record.EntityName), needle) {
			clone := *record
			clone.Mentions = append([]models.Mention(nil), record.Mentions...)
			return &clone, nil
		}
	}
	return nil, nil
}

// List returns the user's records sorted by mention count descending.
func (s *InMemoryKnowledgeStore) List(ctx context.Context, userID string, entityType models.EntityType, limit int) ([]*models.EntityKnowledge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*models.EntityKnowledge
	for _, key := range s.order {
		record := s.records[key]
		if record.UserID != userID {
			continue
		}
		if entityType != "" && record.EntityType != entityType {
			continue
		}
		clone := *record
		clone.Mentions = append([]models.Mention(nil), record.Mentions...)
		results = append(results, &clone)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MentionCount > results[j].MentionCount
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

var (
	_ MemoryStore    = (*InMemoryMemoryStore)(nil)
	_ KnowledgeStore = (*InMemoryKnowledgeStore)(nil)
)
