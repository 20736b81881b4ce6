package app

import (
	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/handlers"
	"github.com/forumhive/forumhive-backend/internal/middleware"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
	"github.com/forumhive/forumhive-backend/internal/server"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Healthcheck *handlers.HealthcheckHandler
	Event       *handlers.EventHandler
	Matching    *handlers.MatchingHandler
	Match       *handlers.MatchHandler
	Rules       *handlers.RulesHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, s Services) Handlers {
	return Handlers{
		Auth:        handlers.NewAuthHandler(log, s.Auth),
		Healthcheck: handlers.NewHealthcheckHandler(log, db),
		Event:       handlers.NewEventHandler(log, s.Event),
		Matching:    handlers.NewMatchingHandler(log, s.Matching),
		Match:       handlers.NewMatchHandler(log, s.Match),
		Rules:       handlers.NewRulesHandler(log, s.Rules),
	}
}

func wireRouter(h Handlers, authMW *middleware.AuthMiddleware) server.RouterConfig {
	return server.RouterConfig{
		AuthHandler:        h.Auth,
		AuthMiddleware:     authMW,
		HealthcheckHandler: h.Healthcheck,
		EventHandler:       h.Event,
		MatchingHandler:    h.Matching,
		MatchHandler:       h.Match,
		RulesHandler:       h.Rules,
	}
}
