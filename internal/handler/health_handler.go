package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth reports service and database health.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	dbStatus := "ok"
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		dbStatus = "unavailable"
	}
	utils.Success(c, 200, "OK", gin.H{
		"status":   "ok",
		"database": dbStatus,
	})
}
