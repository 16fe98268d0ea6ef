package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment
// variables. It is built once at startup and treated as read-only.
type Config struct {
	HTTPPort string

	// Upstream RAG document service. The API key is a server-side secret
	// and must never be forwarded to or logged for any client.
	RAGBaseURL string
	RAGAPIKey  string
	CrawlURL   string

	// Upstream agent invocation service.
	AgentBaseURL   string
	DefaultAgentID string

	LogLevel  string
	LogFormat string

	// SeedSampleData preloads the audit log with demo entries at startup.
	SeedSampleData bool
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Not fatal, production deployments use real environment variables
	}

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		RAGBaseURL:     getEnv("RAG_API_BASE_URL", ""),
		RAGAPIKey:      getEnv("RAG_API_KEY", ""),
		CrawlURL:       getEnv("CRAWL_ENDPOINT_URL", ""),
		AgentBaseURL:   getEnv("AGENT_API_BASE_URL", ""),
		DefaultAgentID: getEnv("DEFAULT_AGENT_ID", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		SeedSampleData: getEnv("SEED_SAMPLE_DATA", "false") == "true",
	}

	// A missing key is not fatal for the process: the server still comes up
	// and every proxied operation fails with a configuration error instead.
	if cfg.RAGAPIKey == "" {
		log.Println("WARN: RAG_API_KEY is not set; knowledge-base and agent routes will reject all requests.")
	}

	log.Printf("Loaded config: Port=%s, RAGBaseURL=%s, AgentBaseURL=%s, APIKey=***", cfg.HTTPPort, cfg.RAGBaseURL, cfg.AgentBaseURL)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
