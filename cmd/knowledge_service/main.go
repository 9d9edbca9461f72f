package main

import (
	"SecondBrain/internal/api"
	"SecondBrain/internal/config"
	"SecondBrain/internal/database/mongo"
	"SecondBrain/internal/database/neo4j"
	"SecondBrain/internal/database/redis"
	"SecondBrain/internal/documents/processor"
	docservice "SecondBrain/internal/documents/service"
	docstore "SecondBrain/internal/documents/store"
	"SecondBrain/internal/ingest"
	"SecondBrain/internal/memory/extractor"
	memservice "SecondBrain/internal/memory/service"
	memstore "SecondBrain/internal/memory/store"
	"SecondBrain/internal/memory/summarizer"
	"SecondBrain/internal/models"
	"SecondBrain/pkg/logger"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.Init(logLevel)
	serviceLogger := logger.New("KnowledgeService", "", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MongoDB backs every core collection; without it there is no service.
	mongoClient, err := mongo.Connect(ctx, &cfg.Databases.MongoDB)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to connect to MongoDB")
	}
	defer mongoClient.Close(context.Background())
	db := mongoClient.Database()
	serviceLogger.Info("Successfully connected to MongoDB")

	if err := memstore.EnsureIndexes(ctx, db); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to create MongoDB indexes")
	}

	// The remaining collaborators are optional; the service degrades
	// gracefully without them.
	var cache *goredis.Client
	cacheTTL := 5 * time.Minute
	if cfg.Cache.Enabled && cfg.Databases.Redis.Address != "" {
		cache, err = redis.Connect(ctx, &cfg.Databases.Redis)
		if err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Failed to connect to Redis, continuing without cache")
			cache = nil
		} else {
			defer cache.Close()
			if ttl, err := time.ParseDuration(cfg.Cache.TTL); err == nil {
				cacheTTL = ttl
			}
			serviceLogger.Info("Successfully connected to Redis")
		}
	}

	var graph memstore.GraphStore
	if cfg.Databases.Neo4j.Uri != "" {
		neo4jClient, err := neo4j.Connect(ctx, &cfg.Databases.Neo4j)
		if err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Failed to connect to Neo4j, continuing without relation graph")
		} else {
			defer neo4jClient.Close(context.Background())
			graph = memstore.NewNeo4jGraphStore(neo4jClient)
			serviceLogger.Info("Successfully connected to Neo4j")
		}
	}

	sum := buildSummarizer(ctx, cfg, serviceLogger)

	memoryService := memservice.NewMemoryService(
		extractor.NewHeuristicExtractor(),
		memstore.NewMongoMemoryStore(db),
		memstore.NewMongoKnowledgeStore(db),
		graph,
		sum,
		cache,
		cacheTTL,
		serviceLogger,
	)

	var publisher *ingest.Publisher
	var consumer *ingest.Consumer
	kafkaCfg := cfg.Databases.Kafka
	if len(kafkaCfg.Brokers) > 0 {
		publisher = ingest.NewPublisher(kafkaCfg.Brokers, kafkaCfg.IngestionTopic, serviceLogger)
		defer publisher.Close()
		consumer = ingest.NewConsumer(kafkaCfg.Brokers, kafkaCfg.IngestionTopic, kafkaCfg.GroupID, serviceLogger)
		defer consumer.Close()
	}

	var docPublisher docservice.Publisher
	if publisher != nil {
		docPublisher = publisher
	}
	documentService := docservice.NewService(
		docstore.NewMongoDocumentStore(db),
		processor.NewFileProcessor(),
		memoryService,
		docPublisher,
		serviceLogger,
	)

	if consumer != nil {
		consumer.Start(ctx, documentService.Process)
		serviceLogger.Info("Ingestion consumer started")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	apiHandler := api.NewAPI(memoryService, documentService, serviceLogger)
	api.RegisterRoutes(router, apiHandler)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		serviceLogger.Info("Starting HTTP server on " + srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("HTTP server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	serviceLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Server forced to shutdown")
	}
	serviceLogger.Info("Server exited")
}

// buildSummarizer selects the configured summarizer, defaulting to the
// deterministic template when Gemini is unavailable or unconfigured.
func buildSummarizer(ctx context.Context, cfg *config.AppConfig, serviceLogger *logger.Logger) summarizer.Summarizer {
	if cfg.Summarizer.Provider == "gemini" && cfg.Summarizer.Gemini.APIKey != "" {
		gemini, err := summarizer.NewGeminiSummarizer(ctx, cfg.Summarizer.Gemini.Model, cfg.Summarizer.Gemini.APIKey)
		if err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Failed to initialize Gemini summarizer, using template summarizer")
		} else {
			return gemini
		}
	}
	return summarizer.NewTemplateSummarizer()
}
