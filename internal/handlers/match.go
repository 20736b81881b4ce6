package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forumhive/forumhive-backend/internal/platform/logger"
	"github.com/forumhive/forumhive-backend/internal/services"
)

type MatchHandler struct {
	log      *logger.Logger
	matchSvc services.MatchService
}

func NewMatchHandler(log *logger.Logger, matchSvc services.MatchService) *MatchHandler {
	return &MatchHandler{log: log.With("handler", "MatchHandler"), matchSvc: matchSvc}
}

// GET /api/events/:eventId/participants/:participantId/matches
func (h *MatchHandler) ListForParticipant(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	participantID, ok := parseIDParam(c, "participantId")
	if !ok {
		return
	}
	rows, err := h.matchSvc.ListForParticipant(c.Request.Context(), eventID, participantID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"matches": rows})
}

type matchStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/matches/:matchId/status
func (h *MatchHandler) UpdateStatus(c *gin.Context) {
	matchID, ok := parseIDParam(c, "matchId")
	if !ok {
		return
	}
	var req matchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, err := h.matchSvc.UpdateStatus(c.Request.Context(), matchID, req.Status)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}
