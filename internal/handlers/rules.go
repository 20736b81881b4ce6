package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/forumhive/forumhive-backend/internal/domain"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
	"github.com/forumhive/forumhive-backend/internal/services"
)

type RulesHandler struct {
	log      *logger.Logger
	rulesSvc services.MatchingRulesService
}

func NewRulesHandler(log *logger.Logger, rulesSvc services.MatchingRulesService) *RulesHandler {
	return &RulesHandler{log: log.With("handler", "RulesHandler"), rulesSvc: rulesSvc}
}

// GET /api/events/:eventId/matching-rules
func (h *RulesHandler) Get(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	rules, err := h.rulesSvc.Get(c.Request.Context(), eventID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if rules == nil {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	RespondOK(c, rules)
}

// POST /api/events/:eventId/matching-rules/seed
//
// Recovers events created before rules seeding existed (or whose row was
// removed manually). No-op when a row is already present.
func (h *RulesHandler) Seed(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	rules, err := h.rulesSvc.SeedDefaults(c.Request.Context(), nil, eventID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, rules)
}

// PUT /api/events/:eventId/matching-rules
//
// Edits take effect on the next generation run; an in-flight run keeps the
// snapshot it started with.
func (h *RulesHandler) Update(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	var rules types.MatchingRules
	if err := c.ShouldBindJSON(&rules); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rules.EventID = eventID
	updated, err := h.rulesSvc.Update(c.Request.Context(), &rules)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, updated)
}
