package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/forumhive/forumhive-backend/internal/handlers"
	"github.com/forumhive/forumhive-backend/internal/middleware"
	"github.com/forumhive/forumhive-backend/internal/platform/envutil"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	HealthcheckHandler *handlers.HealthcheckHandler
	EventHandler       *handlers.EventHandler
	MatchingHandler    *handlers.MatchingHandler
	MatchHandler       *handlers.MatchHandler
	RulesHandler       *handlers.RulesHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware("forumhive"))

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			envutil.Str("CORS_ORIGIN", "http://localhost:3000"),
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthz", cfg.HealthcheckHandler.Healthz)
	router.POST("/api/auth/login", cfg.AuthHandler.Login)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.POST("/events", cfg.EventHandler.Create)
		api.GET("/events/:eventId", cfg.EventHandler.Get)
		api.POST("/events/:eventId/participants", cfg.EventHandler.RegisterParticipant)
		api.GET("/events/:eventId/participants", cfg.EventHandler.ListParticipants)

		api.GET("/events/:eventId/matching-rules", cfg.RulesHandler.Get)
		api.PUT("/events/:eventId/matching-rules", cfg.RulesHandler.Update)
		api.POST("/events/:eventId/matching-rules/seed", cfg.RulesHandler.Seed)

		api.POST("/events/:eventId/matching/compute-intents", cfg.MatchingHandler.ComputeIntents)
		api.POST("/events/:eventId/matching/generate-embeddings", cfg.MatchingHandler.GenerateEmbeddings)
		api.POST("/events/:eventId/matching/generate", cfg.MatchingHandler.GenerateMatches)
		api.GET("/events/:eventId/matching/intent-stats", cfg.MatchingHandler.IntentStats)

		api.GET("/events/:eventId/participants/:participantId/matches", cfg.MatchHandler.ListForParticipant)
		api.PUT("/matches/:matchId/status", cfg.MatchHandler.UpdateStatus)
	}

	return router
}
