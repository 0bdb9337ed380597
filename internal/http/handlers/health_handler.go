package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

// NodePinger описывает проверку доступности ноды.
type NodePinger interface {
	NodeConfig(ctx context.Context) (*models.NodeConfig, error)
}

// HealthHandler — проверка живости шлюза и его связи с нодой.
type HealthHandler struct {
	node NodePinger
}

// NewHealthHandler создаёт хэндлер.
func NewHealthHandler(node NodePinger) *HealthHandler {
	return &HealthHandler{node: node}
}

// Health обрабатывает GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	nodeStatus := "ok"
	if _, err := h.node.NodeConfig(ctx); err != nil {
		nodeStatus = "unreachable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"node":   nodeStatus,
	})
}
