package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bazaar-gateway/internal/service"
)

// DisputeHandler — HTTP слой споров: открытие, кейс модератора, решение.
type DisputeHandler struct {
	disputes *service.DisputeFlow
}

// NewDisputeHandler создаёт хэндлер.
func NewDisputeHandler(disputes *service.DisputeFlow) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

// OpenDispute обрабатывает POST /orders/:id/dispute.
func (h *DisputeHandler) OpenDispute(c *gin.Context) {
	var req struct {
		Claim string `json:"claim"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	if err := h.disputes.Open(c.Request.Context(), c.Param("id"), req.Claim); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetCase обрабатывает GET /cases/:id — кейс глазами модератора.
func (h *DisputeHandler) GetCase(c *gin.Context) {
	view, err := h.disputes.OpenCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Resolve обрабатывает POST /cases/:id/resolve.
func (h *DisputeHandler) Resolve(c *gin.Context) {
	var req service.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}
	req.OrderID = c.Param("id")

	if err := h.disputes.Resolve(c.Request.Context(), req); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PayoutPreview обрабатывает GET /cases/:id/payout-preview.
func (h *DisputeHandler) PayoutPreview(c *gin.Context) {
	buyerPercentage, err := strconv.ParseFloat(c.Query("buyerPercentage"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректная доля покупателя"})
		return
	}
	vendorPercentage, err := strconv.ParseFloat(c.Query("vendorPercentage"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректная доля продавца"})
		return
	}

	preview, err := h.disputes.Preview(c.Param("id"), buyerPercentage, vendorPercentage)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, preview)
}
