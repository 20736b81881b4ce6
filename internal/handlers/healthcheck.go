package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

type HealthcheckHandler struct {
	log *logger.Logger
	db  *gorm.DB
}

func NewHealthcheckHandler(log *logger.Logger, db *gorm.DB) *HealthcheckHandler {
	return &HealthcheckHandler{log: log.With("handler", "HealthcheckHandler"), db: db}
}

// GET /healthz
func (h *HealthcheckHandler) Healthz(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		RespondError(c, http.StatusServiceUnavailable, "db_unavailable", err)
		return
	}
	RespondOK(c, gin.H{"status": "ok"})
}
