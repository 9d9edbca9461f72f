package api

import (
	"SecondBrain/internal/memory/extractor"
	memservice "SecondBrain/internal/memory/service"
	"SecondBrain/internal/memory/store"
	"SecondBrain/internal/memory/summarizer"
	"SecondBrain/internal/models"
	"SecondBrain/pkg/logger"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	memoryService := memservice.NewMemoryService(
		extractor.NewHeuristicExtractor(),
		store.NewInMemoryMemoryStore(),
		store.NewInMemoryKnowledgeStore(),
		nil,
		summarizer.NewTemplateSummarizer(),
		nil,
		0,
		logger.New("APITest", "", ""),
	)

	router := gin.New()
	RegisterRoutes(router, NewAPI(memoryService, nil, logger.New("APITest", "", "")))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want 200", w.Code)
	}
}

func TestAddMemoryEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/memories", gin.H{
		"content":  "Maria Garcia met Bob in Paris Street",
		"metadata": gin.H{"source": "test"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /memories status = %d, want 201, body: %s", w.Code, w.Body.String())
	}

	var record models.MemoryRecord
	if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if record.ID == "" {
		t.Error("response record has no id")
	}
	if record.Content != "Maria Garcia met Bob in Paris Street" {
		t.Errorf("response content = %q", record.Content)
	}
	if len(record.Entities) == 0 {
		t.Error("response record has no extracted entities")
	}
}

func TestAddMemoryEndpoint_InvalidPayload(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/memories", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /memories with bad payload status = %d, want 400", w.Code)
	}
}

func TestSearchMemoriesEndpoint(t *testing.T) {
	router := newTestRouter()

	if w := doJSON(t, router, http.MethodPost, "/api/v1/memories", gin.H{"content": "Maria Garcia met Bob in Paris Street"}); w.Code != http.StatusCreated {
		t.Fatalf("setup POST failed: %d", w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/memories/search?query=Maria", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /memories/search status = %d, want 200", w.Code)
	}

	var resp struct {
		Query   string                 `json:"query"`
		Results []*models.MemoryRecord `json:"results"`
		Count   int                    `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Query != "Maria" {
		t.Errorf("query echoed as %q", resp.Query)
	}
	if resp.Count != 1 || len(resp.Results) != 1 {
		t.Fatalf("count = %d, results = %d, want 1 match", resp.Count, len(resp.Results))
	}
}

func TestGetMemoryEndpoint_NotFound(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/memories/no-such-id", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /memories/:id status = %d, want 404", w.Code)
	}
}

func TestGetEntityEndpoint(t *testing.T) {
	router := newTestRouter()

	if w := doJSON(t, router, http.MethodPost, "/api/v1/memories", gin.H{"content": "Maria Garcia met Bob in Paris Street"}); w.Code != http.StatusCreated {
		t.Fatalf("setup POST failed: %d", w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/entities/Maria%20Garcia", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /entities/:name status = %d, want 200", w.Code)
	}

	var view models.EntityKnowledgeView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if view.EntityName != "Maria Garcia" {
		t.Errorf("entity_name = %q", view.EntityName)
	}
	if view.MentionCount != 1 {
		t.Errorf("mention_count = %d, want 1", view.MentionCount)
	}
	if view.Summary == "" || view.Summary == summarizer.NoInformationFound {
		t.Errorf("summary = %q, want a generated summary", view.Summary)
	}
}

func TestGetEntityEndpoint_UnknownIsNotAnError(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/entities/Nobody", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /entities/:name for unknown entity status = %d, want 200", w.Code)
	}

	var view models.EntityKnowledgeView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if view.Summary != summarizer.NoInformationFound {
		t.Errorf("summary = %q, want %q", view.Summary, summarizer.NoInformationFound)
	}
	if view.MentionCount != 0 {
		t.Errorf("mention_count = %d, want 0", view.MentionCount)
	}
}

func TestListEntitiesEndpoint(t *testing.T) {
	router := newTestRouter()

	for _, content := range []string{
		"Maria Garcia met Bob in Paris Street",
		"Maria Garcia joined Acme Inc",
	} {
		if w := doJSON(t, router, http.MethodPost, "/api/v1/memories", gin.H{"content": content}); w.Code != http.StatusCreated {
			t.Fatalf("setup POST failed: %d", w.Code)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/entities?type=person", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /entities status = %d, want 200", w.Code)
	}

	var resp struct {
		EntityType string                    `json:"entity_type"`
		Entities   []*models.EntityKnowledge `json:"entities"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Entities) == 0 {
		t.Fatal("expected at least one person entity")
	}
	if resp.Entities[0].EntityName != "Maria Garcia" {
		t.Errorf("most-mentioned entity = %q, want Maria Garcia", resp.Entities[0].EntityName)
	}
	for _, entity := range resp.Entities {
		if entity.EntityType != models.EntityPerson {
			t.Errorf("type filter leaked %q entity %q", entity.EntityType, entity.EntityName)
		}
	}
}

func TestDocumentEndpoints_Unconfigured(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/documents/ingest", gin.H{"title": "t", "path": "/tmp/x.txt"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("POST /documents/ingest without document service status = %d, want 503", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/documents/some-id", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /documents/:id without document service status = %d, want 503", w.Code)
	}
}
