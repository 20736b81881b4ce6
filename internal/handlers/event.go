package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/forumhive/forumhive-backend/internal/domain"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
	"github.com/forumhive/forumhive-backend/internal/services"
)

type EventHandler struct {
	log      *logger.Logger
	eventSvc services.EventService
}

func NewEventHandler(log *logger.Logger, eventSvc services.EventService) *EventHandler {
	return &EventHandler{log: log.With("handler", "EventHandler"), eventSvc: eventSvc}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	var ev types.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := h.eventSvc.Create(c.Request.Context(), &ev)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GET /api/events/:eventId
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	ev, err := h.eventSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if ev == nil {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	RespondOK(c, ev)
}

// POST /api/events/:eventId/participants
func (h *EventHandler) RegisterParticipant(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	var p types.Participant
	if err := c.ShouldBindJSON(&p); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	p.EventID = eventID
	created, err := h.eventSvc.RegisterParticipant(c.Request.Context(), &p)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GET /api/events/:eventId/participants
func (h *EventHandler) ListParticipants(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	rows, err := h.eventSvc.ListParticipants(c.Request.Context(), eventID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"participants": rows})
}
