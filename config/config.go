package config

import (
	"fmt"
	"os"
)

// Config holds all runtime settings, read from environment variables
type Config struct {
	Gemini GeminiConfig
	Qdrant QdrantConfig
	Port   string
}

type GeminiConfig struct {
	APIKey          string
	GenerationModel string
	EmbeddingModel  string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// Load reads configuration from the environment. Required variables missing
// from the environment produce an error rather than a partially usable config.
func Load() (Config, error) {
	cfg := Config{
		Gemini: GeminiConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			GenerationModel: getEnv("GEMINI_MODEL_NAME", "gemini-2.5-pro-exp-0801"),
			EmbeddingModel:  getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "contract_precedents"),
		},
		Port: getEnv("PORT", "8080"),
	}

	if cfg.Gemini.APIKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.Qdrant.URL == "" {
		return Config{}, fmt.Errorf("QDRANT_URL is required")
	}
	if cfg.Qdrant.APIKey == "" {
		return Config{}, fmt.Errorf("QDRANT_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
