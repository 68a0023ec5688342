package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Graph sources
const (
	SourceMemory = "memory"
	SourceNeo4j  = "neo4j"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string

	// Graph
	GraphSource string // memory or neo4j
	DatasetPath string // JSON/YAML dataset for memory mode; sample data when empty
	EnrichLimit int

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Narration (optional)
	LiteLLMURL       string
	ModelID          string
	OpenRouterAPIKey string

	// Sessions and ingestion
	SessionTTL   time.Duration
	FetchTimeout time.Duration
	// FetchPrivate lets URL ingestion reach loopback and private addresses
	FetchPrivate bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", ""),
		GraphSource:      getEnv("GRAPH_SOURCE", SourceMemory),
		DatasetPath:      getEnv("DATASET_PATH", ""),
		EnrichLimit:      getEnvInt("ENRICH_LIMIT", 5),
		Neo4jURI:         getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:        getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:    getEnv("NEO4J_PASSWORD", ""),
		LiteLLMURL:       getEnv("LITELLM_URL", ""),
		ModelID:          getEnv("MODEL_ID", "openrouter/anthropic/claude-3.5-sonnet"),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		SessionTTL:       getEnvDuration("SESSION_TTL", 30*time.Minute),
		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		FetchPrivate:     getEnvBool("FETCH_ALLOW_PRIVATE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	switch c.GraphSource {
	case SourceMemory:
	case SourceNeo4j:
		if c.Neo4jURI == "" {
			return fmt.Errorf("NEO4J_URI is required")
		}
		if c.Neo4jUser == "" {
			return fmt.Errorf("NEO4J_USER is required")
		}
		if c.Neo4jPassword == "" {
			return fmt.Errorf("NEO4J_PASSWORD is required")
		}
	default:
		return fmt.Errorf("GRAPH_SOURCE must be %q or %q, got %q", SourceMemory, SourceNeo4j, c.GraphSource)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.EnrichLimit < 1 {
		return fmt.Errorf("ENRICH_LIMIT must be at least 1")
	}
	// LiteLLM is optional; narration is disabled without it
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// NarrationEnabled reports whether an LLM endpoint is configured
func (c *Config) NarrationEnabled() bool {
	return c.LiteLLMURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
