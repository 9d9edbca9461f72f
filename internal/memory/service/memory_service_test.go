package service

import (
	"SecondBrain/internal/memory/extractor"
	"SecondBrain/internal/memory/store"
	"SecondBrain/internal/memory/summarizer"
	"SecondBrain/internal/models"
	"SecondBrain/pkg/logger"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const testUser = "user-test"

func newTestService(knowledge store.KnowledgeStore) (*MemoryService, *store.InMemoryMemoryStore) {
	memories := store.NewInMemoryMemoryStore()
	if knowledge == nil {
		knowledge = store.NewInMemoryKnowledgeStore()
	}
	svc := NewMemoryService(
		extractor.NewHeuristicExtractor(),
		memories,
		knowledge,
		nil,
		summarizer.NewTemplateSummarizer(),
		nil,
		0,
		logger.New("MemoryServiceTest", "", ""),
	)
	return svc, memories
}

func TestAddMemory_RoundTrip(t *testing.T) {
	svc, memories := newTestService(nil)
	ctx := context.Background()

	record, err := svc.AddMemory(ctx, testUser, "Maria Garcia met Bob in Paris Street", nil)
	if err != nil {
		t.Fatalf("AddMemory() error = %v", err)
	}
	if record.ID == "" {
		t.Fatal("AddMemory() returned record without id")
	}
	if record.CreatedAt.IsZero() || record.UpdatedAt.IsZero() {
		t.Error("AddMemory() returned record without timestamps")
	}

	stored, err := memories.GetByID(ctx, testUser, record.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored == nil {
		t.Fatal("stored record not found by id")
	}
	if stored.Content != record.Content {
		t.Errorf("content round-trip mismatch: %q != %q", stored.Content, record.Content)
	}
	if !reflect.DeepEqual(stored.Entities, record.Entities) {
		t.Errorf("entities round-trip mismatch:\nstored:   %v\nreturned: %v", stored.Entities, record.Entities)
	}
}

func TestAddMemory_SearchFindsMemory(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.AddMemory(ctx, testUser, "Maria Garcia met Bob in Paris Street", nil); err != nil {
		t.Fatalf("AddMemory() error = %v", err)
	}

	results, err := svc.SearchMemories(ctx, testUser, "Maria", 10)
	if err != nil {
		t.Fatalf("SearchMemories() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("SearchMemories() returned %d results, want 1", len(results))
	}
	if !strings.Contains(results[0].Content, "Maria Garcia") {
		t.Errorf("unexpected search result content: %q", results[0].Content)
	}

	// Another user must not see it.
	other, err := svc.SearchMemories(ctx, "someone-else", "Maria", 10)
	if err != nil {
		t.Fatalf("SearchMemories() error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("search leaked %d records across users", len(other))
	}
}

func TestAddMemory_UpdatesEntityKnowledge(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.AddMemory(ctx, testUser, "Maria Garcia met Bob in Paris Street", nil); err != nil {
		t.Fatalf("AddMemory() error = %v", err)
	}

	view, err := svc.GetEntityKnowledge(ctx, testUser, "Maria Garcia")
	if err != nil {
		t.Fatalf("GetEntityKnowledge() error = %v", err)
	}
	if view.MentionCount != 1 {
		t.Errorf("mention_count = %d, want 1", view.MentionCount)
	}
	if len(view.Mentions) != 1 {
		t.Fatalf("mentions length = %d, want 1", len(view.Mentions))
	}
	if view.Mentions[0].Content != "Maria Garcia met Bob in Paris Street" {
		t.Errorf("mention content = %q", view.Mentions[0].Content)
	}
	if !strings.Contains(view.Summary, "Maria Garcia") {
		t.Errorf("summary should name the entity: %q", view.Summary)
	}
}

func TestKnowledgeAccumulation_CountMatchesUpdates(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := svc.AddMemory(ctx, testUser, "Bob", nil); err != nil {
			t.Fatalf("AddMemory() error = %v", err)
		}
	}

	view, err := svc.GetEntityKnowledge(ctx, testUser, "Bob")
	if err != nil {
		t.Fatalf("GetEntityKnowledge() error = %v", err)
	}
	if view.MentionCount != n {
		t.Errorf("mention_count = %d, want %d", view.MentionCount, n)
	}
	if len(view.Mentions) != n {
		t.Errorf("mentions length = %d, want %d", len(view.Mentions), n)
	}

	// Exactly one knowledge record exists for the (user, name, type) triple.
	entities, err := svc.ListEntities(ctx, testUser, models.EntityPerson, 50)
	if err != nil {
		t.Fatalf("ListEntities() error = %v", err)
	}
	var bobs int
	for _, entity := range entities {
		if entity.EntityName == "Bob" {
			bobs++
		}
	}
	if bobs != 1 {
		t.Errorf("found %d knowledge records for Bob, want exactly 1", bobs)
	}
}

func TestGetEntityKnowledge_UnknownEntity(t *testing.T) {
	svc, _ := newTestService(nil)

	view, err := svc.GetEntityKnowledge(context.Background(), testUser, "Nobody Here")
	if err != nil {
		t.Fatalf("GetEntityKnowledge() error = %v", err)
	}
	if len(view.Mentions) != 0 {
		t.Errorf("mentions = %v, want empty", view.Mentions)
	}
	if view.Summary != summarizer.NoInformationFound {
		t.Errorf("summary = %q, want %q", view.Summary, summarizer.NoInformationFound)
	}
	if view.EntityType != "" {
		t.Errorf("entity_type = %q, want empty", view.EntityType)
	}
}

func TestGetEntityKnowledge_SubstringMatch(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.AddMemory(ctx, testUser, "He moved to New York City last year", nil); err != nil {
		t.Fatalf("AddMemory() error = %v", err)
	}

	view, err := svc.GetEntityKnowledge(ctx, testUser, "york")
	if err != nil {
		t.Fatalf("GetEntityKnowledge() error = %v", err)
	}
	if !strings.Contains(view.EntityName, "York") {
		t.Errorf("expected a match containing %q, got entity %q", "York", view.EntityName)
	}
	if view.MentionCount == 0 {
		t.Error("expected at least one mention for the matched entity")
	}
}

// failingKnowledgeStore errors on every mutation to exercise the best-effort
// batch behavior.
type failingKnowledgeStore struct {
	attempts int
}

func (s *failingKnowledgeStore) AddMention(ctx context.Context, userID string, entity models.ExtractedEntity, mention models.Mention) error {
	s.attempts++
	return errors.New("knowledge store down")
}

func (s *failingKnowledgeStore) FindByName(ctx context.Context, userID, name string) (*models.EntityKnowledge, error) {
	return nil, nil
}

func (s *failingKnowledgeStore) List(ctx context.Context, userID string, entityType models.EntityType, limit int) ([]*models.EntityKnowledge, error) {
	return nil, nil
}

func TestAddMemory_KnowledgeFailureDoesNotAbort(t *testing.T) {
	knowledge := &failingKnowledgeStore{}
	svc, memories := newTestService(knowledge)
	ctx := context.Background()

	record, err := svc.AddMemory(ctx, testUser, "Maria Garcia met Bob in Paris Street", nil)
	if err != nil {
		t.Fatalf("AddMemory() must succeed despite knowledge failures, got %v", err)
	}

	// Every entity in the batch was still attempted.
	if s := len(record.Entities); knowledge.attempts != s {
		t.Errorf("attempted %d knowledge updates, want %d", knowledge.attempts, s)
	}

	stored, err := memories.GetByID(ctx, testUser, record.ID)
	if err != nil || stored == nil {
		t.Fatalf("memory record should still be persisted, got (%v, %v)", stored, err)
	}
}

// errorExtractor always fails; the service must treat that as zero entities.
type errorExtractor struct{}

func (errorExtractor) Extract(text string) ([]models.ExtractedEntity, error) {
	return nil, errors.New("extractor exploded")
}

func TestAddMemory_ExtractorFailureMeansNoEntities(t *testing.T) {
	memories := store.NewInMemoryMemoryStore()
	svc := NewMemoryService(
		errorExtractor{},
		memories,
		store.NewInMemoryKnowledgeStore(),
		nil,
		summarizer.NewTemplateSummarizer(),
		nil,
		0,
		logger.New("MemoryServiceTest", "", ""),
	)

	record, err := svc.AddMemory(context.Background(), testUser, "Maria Garcia was here", nil)
	if err != nil {
		t.Fatalf("AddMemory() error = %v", err)
	}
	if len(record.Entities) != 0 {
		t.Errorf("entities = %v, want none after extractor failure", record.Entities)
	}
}

// failingSummarizer always errors so the template fallback kicks in.
type failingSummarizer struct{}

func (failingSummarizer) Summarize(ctx context.Context, entityName string, mentions []models.Mention) (string, error) {
	return "", errors.New("model unavailable")
}

func TestGetEntityKnowledge_SummarizerFallback(t *testing.T) {
	memories := store.NewInMemoryMemoryStore()
	svc := NewMemoryService(
		extractor.NewHeuristicExtractor(),
		memories,
		store.NewInMemoryKnowledgeStore(),
		nil,
		failingSummarizer{},
		nil,
		0,
		logger.New("MemoryServiceTest", "", ""),
	)
	ctx := context.Background()

	if _, err := svc.AddMemory(ctx, testUser, "Bob", nil); err != nil {
		t.Fatalf("AddMemory() error = %v", err)
	}

	view, err := svc.GetEntityKnowledge(ctx, testUser, "Bob")
	if err != nil {
		t.Fatalf("GetEntityKnowledge() must not fail when the summarizer does, got %v", err)
	}
	if want := summarizer.TemplateSummary("Bob", view.Mentions); view.Summary != want {
		t.Errorf("summary = %q, want template fallback %q", view.Summary, want)
	}
}
