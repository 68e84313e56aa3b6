package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the BioConsult server.
// Every pipeline tunable (chunk geometry, retrieval bounds, provider
// selection) lives here rather than as a package constant.
type Config struct {
	// HTTP server
	ListenAddr string

	// Document ingestion
	DataDir string

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Retrieval
	Collection  string
	DefaultTopK int
	MaxTopK     int

	// Conversation
	HistoryWindow int
	Persona       string

	// Embeddings
	EmbeddingBaseURL string
	EmbeddingModel   string
	OpenAIAPIKey     string

	// Generation
	Provider        string // "openai", "ollama" or "lmstudio"
	Model           string
	OllamaBaseURL   string
	LMStudioBaseURL string

	// ChromaDB
	ChromaHost     string
	ChromaPort     int
	ChromaTenant   string
	ChromaDatabase string
	ChromaTimeout  time.Duration

	// Redis ingest registry (optional)
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int
}

// DefaultPersona is the system prompt used when BIOCONSULT_PERSONA is unset.
// It must instruct the model to admit when the knowledge base has no answer
// instead of fabricating sourced claims.
const DefaultPersona = "You are BioConsult, a biology study assistant. " +
	"Answer clearly and concisely, structured as: a short answer first, then a brief explanation. " +
	"When a CONTEXT block is provided, treat it as your primary source and cite it with [#1], [#2] markers. " +
	"When the CONTEXT block is empty or does not cover the question, say explicitly that the knowledge base " +
	"has no answer for it and ask for more material. Never invent citations."

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		DataDir:          getEnv("DATA_DIR", "data/raw"),
		ChunkSize:        getEnvInt("CHUNK_SIZE", 900),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 150),
		Collection:       getEnv("CHROMA_COLLECTION", "bioconsult"),
		DefaultTopK:      getEnvInt("DEFAULT_TOP_K", 4),
		MaxTopK:          getEnvInt("MAX_TOP_K", 12),
		HistoryWindow:    getEnvInt("HISTORY_WINDOW", 8),
		Persona:          getEnv("BIOCONSULT_PERSONA", DefaultPersona),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		Provider:         getEnv("LLM_PROVIDER", "openai"),
		Model:            getEnv("LLM_MODEL", "gpt-4o-mini"),
		OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		LMStudioBaseURL:  getEnv("LMSTUDIO_BASE_URL", "http://localhost:1234/v1"),
		ChromaHost:       getEnv("CHROMA_HOST", "localhost"),
		ChromaPort:       getEnvInt("CHROMA_PORT", 8000),
		ChromaTenant:     getEnv("CHROMA_TENANT", "default_tenant"),
		ChromaDatabase:   getEnv("CHROMA_DATABASE", "default_database"),
		ChromaTimeout:    time.Duration(getEnvInt("CHROMA_TIMEOUT_SECONDS", 30)) * time.Second,
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnvInt("REDIS_PORT", 6379),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration invariants that would otherwise surface as
// runtime failures deep inside the pipeline.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap <= 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config: chunk overlap must be in (0, %d), got %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.MaxTopK < 1 {
		return fmt.Errorf("config: max top_k must be at least 1, got %d", c.MaxTopK)
	}
	if c.DefaultTopK < 1 || c.DefaultTopK > c.MaxTopK {
		return fmt.Errorf("config: default top_k must be in [1, %d], got %d", c.MaxTopK, c.DefaultTopK)
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("config: history window cannot be negative, got %d", c.HistoryWindow)
	}
	if c.Collection == "" {
		return fmt.Errorf("config: collection name is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
