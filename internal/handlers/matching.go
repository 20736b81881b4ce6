package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forumhive/forumhive-backend/internal/modules/matching"
	"github.com/forumhive/forumhive-backend/internal/modules/matching/steps"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

// MatchingHandler exposes the engine's three operations plus the intent
// telemetry the organizer console reads.
type MatchingHandler struct {
	log      *logger.Logger
	usecases matching.Usecases
}

func NewMatchingHandler(log *logger.Logger, usecases matching.Usecases) *MatchingHandler {
	return &MatchingHandler{log: log.With("handler", "MatchingHandler"), usecases: usecases}
}

// POST /api/events/:eventId/matching/compute-intents
func (h *MatchingHandler) ComputeIntents(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	out, err := h.usecases.ComputeIntents(c.Request.Context(), matching.ComputeIntentsInput{EventID: eventID})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, out)
}

// POST /api/events/:eventId/matching/generate-embeddings
func (h *MatchingHandler) GenerateEmbeddings(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	var body struct {
		Force bool `json:"force"`
	}
	if !bindOptionalJSON(c, &body) {
		return
	}
	out, err := h.usecases.GenerateEmbeddings(c.Request.Context(), matching.GenerateEmbeddingsInput{
		EventID: eventID,
		Force:   body.Force,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, out)
}

// POST /api/events/:eventId/matching/generate
func (h *MatchingHandler) GenerateMatches(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	out, err := h.usecases.GenerateMatches(c.Request.Context(), matching.GenerateMatchesInput{EventID: eventID})
	if err != nil {
		if errors.Is(err, steps.ErrRulesMissing) {
			RespondError(c, http.StatusConflict, "rules_missing", err)
			return
		}
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, out)
}

// GET /api/events/:eventId/matching/intent-stats
func (h *MatchingHandler) IntentStats(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	out, err := h.usecases.IntentStats(c.Request.Context(), matching.IntentStatsInput{EventID: eventID})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, out)
}
