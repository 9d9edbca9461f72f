package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppInfo holds basic information about the application.
type AppInfo struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"` // "development" or "production"
}

// LoggerConfig configures the structured logger.
type LoggerConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address string `yaml:"address"` // e.g. ":8080"
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	Address  string `yaml:"address"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig configures the Redis connection. An empty address disables the
// knowledge view cache.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Neo4jConfig configures the Neo4j connection. An empty URI disables the
// co-mention graph.
type Neo4jConfig struct {
	Uri      string `yaml:"uri"` // e.g. "bolt://localhost:7687"
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// KafkaConfig configures the document ingestion topic. Empty brokers disable
// asynchronous ingestion.
type KafkaConfig struct {
	Brokers        []string `yaml:"brokers"`
	IngestionTopic string   `yaml:"ingestionTopic"`
	GroupID        string   `yaml:"groupID"`
}

// DatabaseConfigs groups all backing store configurations.
type DatabaseConfigs struct {
	MongoDB MongoConfig `yaml:"mongodb"`
	Redis   RedisConfig `yaml:"redis"`
	Neo4j   Neo4jConfig `yaml:"neo4j"`
	Kafka   KafkaConfig `yaml:"kafka"`
}

// GeminiConfig holds credentials for the Gemini summarizer.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// SummarizerConfig selects how entity summaries are produced. The template
// summarizer needs no configuration and is always available as a fallback.
type SummarizerConfig struct {
	Provider string       `yaml:"provider"` // "template" or "gemini"
	Gemini   GeminiConfig `yaml:"gemini"`
}

// CacheConfig controls the Redis-backed entity knowledge view cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	TTL     string `yaml:"ttl"` // e.g. "5m"
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App        AppInfo          `yaml:"app"`
	Logger     LoggerConfig     `yaml:"logger"`
	Server     ServerConfig     `yaml:"server"`
	Databases  DatabaseConfigs  `yaml:"databases"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Cache      CacheConfig      `yaml:"cache"`
}

// LoadConfig reads and parses the YAML configuration file at path.
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}
