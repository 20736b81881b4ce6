package app

import (
	"github.com/forumhive/forumhive-backend/internal/platform/envutil"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	// Optional integrations; empty disables the integration.
	OpenAIAPIKey   string
	PineconeAPIKey string
	RedisAddr      string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:           envutil.Str("PORT", "8080"),
		Environment:    envutil.Str("APP_ENV", "development"),
		Version:        envutil.Str("APP_VERSION", "dev"),
		OpenAIAPIKey:   envutil.Str("OPENAI_API_KEY", ""),
		PineconeAPIKey: envutil.Str("PINECONE_API_KEY", ""),
		RedisAddr:      envutil.Str("REDIS_ADDR", ""),
	}
	if cfg.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY not set; AI classification and embedding generation disabled")
	}
	if cfg.PineconeAPIKey == "" {
		log.Info("PINECONE_API_KEY not set; vector mirror disabled")
	}
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set; progress events are no-ops")
	}
	return cfg
}
