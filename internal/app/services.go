package app

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/modules/matching"
	"github.com/forumhive/forumhive-backend/internal/platform/envutil"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
	"github.com/forumhive/forumhive-backend/internal/platform/openai"
	"github.com/forumhive/forumhive-backend/internal/platform/pinecone"
	"github.com/forumhive/forumhive-backend/internal/realtime/bus"
	"github.com/forumhive/forumhive-backend/internal/services"
)

type Services struct {
	Auth  services.AuthService
	Rules services.MatchingRulesService
	Event services.EventService
	Match services.MatchService

	Matching matching.Usecases

	Bus bus.Bus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	var s Services

	auth, err := services.NewAuthService(log)
	if err != nil {
		return s, fmt.Errorf("init auth service: %w", err)
	}

	rulesSvc, err := services.NewMatchingRulesService(db, log, r.Rules)
	if err != nil {
		return s, fmt.Errorf("init rules service: %w", err)
	}

	var ai openai.Client
	if cfg.OpenAIAPIKey != "" {
		ai, err = openai.NewClient(log)
		if err != nil {
			return s, fmt.Errorf("init openai client: %w", err)
		}
	}

	var vectors pinecone.VectorStore
	if cfg.PineconeAPIKey != "" {
		pc, err := pinecone.New(log, pinecone.Config{
			APIKey:  cfg.PineconeAPIKey,
			Timeout: time.Duration(envutil.Int("PINECONE_TIMEOUT_SECONDS", 30)) * time.Second,
		})
		if err != nil {
			return s, fmt.Errorf("init pinecone client: %w", err)
		}
		vectors, err = pinecone.NewVectorStore(log, pc)
		if err != nil {
			return s, fmt.Errorf("init pinecone vector store: %w", err)
		}
	}

	var progressBus bus.Bus = bus.Noop{}
	if cfg.RedisAddr != "" {
		progressBus, err = bus.NewRedisBus(log)
		if err != nil {
			return s, fmt.Errorf("init redis bus: %w", err)
		}
	}

	s.Auth = auth
	s.Rules = rulesSvc
	s.Event = services.NewEventService(db, log, r.Events, r.Participants, rulesSvc)
	s.Match = services.NewMatchService(db, log, r.Matches)
	s.Bus = progressBus
	s.Matching = matching.New(matching.UsecasesDeps{
		DB:           db,
		Log:          log,
		AI:           ai,
		Vectors:      vectors,
		Participants: r.Participants,
		Rules:        r.Rules,
		Matches:      r.Matches,
		Embeddings:   r.Embeddings,
		Interactions: r.Interactions,
		Bus:          progressBus,
	})
	return s, nil
}
