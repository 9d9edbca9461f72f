package api

import (
	docservice "SecondBrain/internal/documents/service"
	memservice "SecondBrain/internal/memory/service"
	"SecondBrain/internal/models"
	"SecondBrain/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultSearchLimit = 10
	defaultEntityLimit = 50
)

// API provides the HTTP handlers for the knowledge service. Error responses
// are deliberately generic; causes are logged, not exposed.
type API struct {
	memories  *memservice.MemoryService
	documents *docservice.Service
	logger    *logger.Logger
}

// NewAPI creates a new API handler. documents may be nil when document
// ingestion is not configured.
func NewAPI(memories *memservice.MemoryService, documents *docservice.Service, logger *logger.Logger) *API {
	return &API{
		memories:  memories,
		documents: documents,
		logger:    logger,
	}
}

// AddMemoryHandler handles the creation of a new memory.
func (a *API) AddMemoryHandler(c *gin.Context) {
	userID, _ := c.Get("userID")

	var payload struct {
		Content  string                 `json:"content"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		a.logger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	record, err := a.memories.AddMemory(c.Request.Context(), userID.(string), payload.Content, payload.Metadata)
	if err != nil {
		// The service layer already logged the detailed error
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add memory"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// SearchMemoriesHandler handles memory search requests.
func (a *API) SearchMemoriesHandler(c *gin.Context) {
	userID, _ := c.Get("userID")

	query := c.Query("query")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSearchLimit)))
	if err != nil || limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := a.memories.SearchMemories(c.Request.Context(), userID.(string), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search memories"})
		return
	}
	if results == nil {
		results = []*models.MemoryRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

// GetMemoryHandler handles requests for a single memory by id.
func (a *API) GetMemoryHandler(c *gin.Context) {
	userID, _ := c.Get("userID")

	record, err := a.memories.GetMemory(c.Request.Context(), userID.(string), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve memory"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Memory not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetEntityHandler answers "what do I know about X" for the named entity. An
// unknown entity is a normal empty result, not a 404.
func (a *API) GetEntityHandler(c *gin.Context) {
	userID, _ := c.Get("userID")

	view, err := a.memories.GetEntityKnowledge(c.Request.Context(), userID.(string), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entity knowledge"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// ListEntitiesHandler lists the user's known entities, most-mentioned first.
func (a *API) ListEntitiesHandler(c *gin.Context) {
	userID, _ := c.Get("userID")

	entityType := models.EntityType(c.Query("type"))
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultEntityLimit)))
	if err != nil || limit <= 0 {
		limit = defaultEntityLimit
	}

	entities, err := a.memories.ListEntities(c.Request.Context(), userID.(string), entityType, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entities"})
		return
	}
	if entities == nil {
		entities = []*models.EntityKnowledge{}
	}

	c.JSON(http.StatusOK, gin.H{
		"entity_type": entityType,
		"entities":    entities,
	})
}

// IngestDocumentHandler registers a document for text extraction and memory
// ingestion.
func (a *API) IngestDocumentHandler(c *gin.Context) {
	if a.documents == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Document ingestion is not configured"})
		return
	}

	userID, _ := c.Get("userID")

	var payload struct {
		Title string `json:"title"`
		Path  string `json:"path"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	doc, err := a.documents.Ingest(c.Request.Context(), userID.(string), payload.Title, payload.Path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest document"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"document_id": doc.ID, "status": doc.Status})
}

// GetDocumentHandler returns a document record, including processing status.
func (a *API) GetDocumentHandler(c *gin.Context) {
	if a.documents == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Document ingestion is not configured"})
		return
	}

	userID, _ := c.Get("userID")

	doc, err := a.documents.GetDocument(c.Request.Context(), userID.(string), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve document"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// HealthHandler reports liveness.
func (a *API) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
