package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/service"
)

// ActivityLister описывает чтение журнала действий по заказам.
type ActivityLister interface {
	ListByOrder(ctx context.Context, orderID string) ([]models.ActivityRow, error)
	ListRecent(ctx context.Context, limit int) ([]models.ActivityRow, error)
}

// OrderHandler — HTTP слой работы с заказами: детали, команды жизненного
// цикла, журнал действий.
type OrderHandler struct {
	detail   *service.OrderDetailService
	actions  *service.OrderActions
	activity ActivityLister
}

// NewOrderHandler создаёт хэндлер.
func NewOrderHandler(detail *service.OrderDetailService, actions *service.OrderActions, activity ActivityLister) *OrderHandler {
	return &OrderHandler{detail: detail, actions: actions, activity: activity}
}

// GetOrder обрабатывает GET /orders/:id — открывает сделку и возвращает
// свежую проекцию.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	view, err := h.detail.Open(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetOrderCurrent обрабатывает GET /orders/:id/current — проекция без
// похода к ноде.
func (h *OrderHandler) GetOrderCurrent(c *gin.Context) {
	view, err := h.detail.Current(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CloseOrder обрабатывает DELETE /orders/:id — закрывает сессию сделки.
func (h *OrderHandler) CloseOrder(c *gin.Context) {
	h.detail.Close(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// Accept обрабатывает POST /orders/:id/accept.
func (h *OrderHandler) Accept(c *gin.Context) {
	h.runAction(c, func() error {
		return h.actions.Accept(c.Request.Context(), c.Param("id"))
	})
}

// Reject обрабатывает POST /orders/:id/reject.
func (h *OrderHandler) Reject(c *gin.Context) {
	h.runAction(c, func() error {
		return h.actions.Reject(c.Request.Context(), c.Param("id"))
	})
}

// Cancel обрабатывает POST /orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.runAction(c, func() error {
		return h.actions.Cancel(c.Request.Context(), c.Param("id"))
	})
}

// Fulfill обрабатывает POST /orders/:id/fulfill.
func (h *OrderHandler) Fulfill(c *gin.Context) {
	var req service.FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	req.OrderID = c.Param("id")

	h.runAction(c, func() error {
		return h.actions.Fulfill(c.Request.Context(), req)
	})
}

// Complete обрабатывает POST /orders/:id/complete.
func (h *OrderHandler) Complete(c *gin.Context) {
	var req service.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	req.OrderID = c.Param("id")

	h.runAction(c, func() error {
		return h.actions.Complete(c.Request.Context(), req)
	})
}

// Refund обрабатывает POST /orders/:id/refund.
func (h *OrderHandler) Refund(c *gin.Context) {
	h.runAction(c, func() error {
		return h.actions.Refund(c.Request.Context(), c.Param("id"))
	})
}

// ListPending обрабатывает GET /orders/:id/pending — команды, идущие
// сейчас по сделке.
func (h *OrderHandler) ListPending(c *gin.Context) {
	pending := h.actions.InFlight(c.Param("id"))
	if pending == nil {
		pending = []models.OrderAction{}
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

// ListActivity обрабатывает GET /orders/:id/activity.
func (h *OrderHandler) ListActivity(c *gin.Context) {
	rows, err := h.activity.ListByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": rows})
}

// ListRecentActivity обрабатывает GET /activity.
func (h *OrderHandler) ListRecentActivity(c *gin.Context) {
	rows, err := h.activity.ListRecent(c.Request.Context(), 50)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": rows})
}

// runAction исполняет команду и отвечает обновлённой проекцией сделки,
// если она открыта.
func (h *OrderHandler) runAction(c *gin.Context, action func() error) {
	if err := action(); err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.detail.Current(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	c.JSON(http.StatusOK, view)
}
