// Package config loads RAGScope's configuration from environment variables
// and validates it at startup, so missing credentials fail before the first
// comparison run instead of in the middle of one.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultModel          = "gpt-4o-mini"
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultTopK           = 4
	DefaultMaxRewrites    = 2
	DefaultMaxSteps       = 25
	DefaultChunkSize      = 500
	DefaultChunkOverlap   = 100
)

// Config holds the application configuration.
type Config struct {
	// Server configuration
	ListenAddr string

	// LLM configuration
	OpenAIKey      string
	OpenAIBaseURL  string
	Model          string
	EmbeddingModel string

	// Vector index configuration. An empty IndexPath selects the in-memory
	// backend; otherwise a persistent chromem database is opened there.
	IndexPath       string
	IndexCollection string

	// Corpus ingestion
	CorpusDir    string
	CorpusURLs   []string
	ChunkSize    int
	ChunkOverlap int

	// Strategy tuning
	TopK        int
	MaxRewrites int
	MaxSteps    int

	// Web search fallback (optional)
	BraveKey string

	// Result cache configuration
	CacheBackend  string // "memory", "redis", "sqlite" or "postgres"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLitePath    string
	PostgresDSN   string
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		ListenAddr:      getEnv("RAGSCOPE_LISTEN_ADDR", ":8080"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		Model:           getEnv("OPENAI_MODEL", DefaultModel),
		EmbeddingModel:  getEnv("OPENAI_EMBEDDING_MODEL", DefaultEmbeddingModel),
		IndexPath:       os.Getenv("RAGSCOPE_INDEX_PATH"),
		IndexCollection: getEnv("RAGSCOPE_INDEX_COLLECTION", "knowledge"),
		CorpusDir:       os.Getenv("RAGSCOPE_CORPUS_DIR"),
		CorpusURLs:      splitList(os.Getenv("RAGSCOPE_CORPUS_URLS")),
		ChunkSize:       getEnvInt("RAGSCOPE_CHUNK_SIZE", DefaultChunkSize),
		ChunkOverlap:    getEnvInt("RAGSCOPE_CHUNK_OVERLAP", DefaultChunkOverlap),
		TopK:            getEnvInt("RAGSCOPE_TOP_K", DefaultTopK),
		MaxRewrites:     getEnvInt("RAGSCOPE_MAX_REWRITES", DefaultMaxRewrites),
		MaxSteps:        getEnvInt("RAGSCOPE_MAX_STEPS", DefaultMaxSteps),
		BraveKey:        os.Getenv("BRAVE_API_KEY"),
		CacheBackend:    getEnv("RAGSCOPE_CACHE_BACKEND", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		SQLitePath:      getEnv("RAGSCOPE_SQLITE_PATH", "ragscope.db"),
		PostgresDSN:     os.Getenv("RAGSCOPE_POSTGRES_DSN"),
	}
}

// Validate checks that required settings are present and consistent.
func (c Config) Validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("config: OPENAI_API_KEY is required")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("config: RAGSCOPE_TOP_K must be positive, got %d", c.TopK)
	}
	if c.MaxRewrites < 0 {
		return fmt.Errorf("config: RAGSCOPE_MAX_REWRITES must not be negative, got %d", c.MaxRewrites)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("config: RAGSCOPE_MAX_STEPS must be positive, got %d", c.MaxSteps)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: RAGSCOPE_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config: RAGSCOPE_CHUNK_OVERLAP must be in [0, chunk size), got %d", c.ChunkOverlap)
	}

	switch c.CacheBackend {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("config: REDIS_ADDR is required for the redis cache backend")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("config: RAGSCOPE_SQLITE_PATH is required for the sqlite cache backend")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("config: RAGSCOPE_POSTGRES_DSN is required for the postgres cache backend")
		}
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.CacheBackend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
