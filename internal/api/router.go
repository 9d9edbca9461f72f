package api

import (
	"github.com/gin-gonic/gin"
)

// AuthMiddleware is a placeholder for the actual authentication middleware.
// In a real deployment this would validate a token and set the "userID" in
// the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// For demonstration purposes, we'll use a static user ID.
		// Replace this with actual token validation logic.
		c.Set("userID", "user-12345")
		c.Next()
	}
}

// RegisterRoutes registers all the routes for the knowledge service.
func RegisterRoutes(router *gin.Engine, api *API) {
	router.GET("/health", api.HealthHandler)

	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware())
	{
		memories := v1.Group("/memories")
		{
			memories.POST("", api.AddMemoryHandler)
			memories.GET("/search", api.SearchMemoriesHandler)
			memories.GET("/:id", api.GetMemoryHandler)
		}

		entities := v1.Group("/entities")
		{
			entities.GET("", api.ListEntitiesHandler)
			entities.GET("/:name", api.GetEntityHandler)
		}

		documents := v1.Group("/documents")
		{
			documents.POST("/ingest", api.IngestDocumentHandler)
			documents.GET("/:id", api.GetDocumentHandler)
		}
	}
}
