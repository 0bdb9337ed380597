package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/service"
)

// WalletHandler — HTTP слой кошелька.
type WalletHandler struct {
	wallet *service.WalletService
}

// NewWalletHandler создаёт хэндлер.
func NewWalletHandler(wallet *service.WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

// Balance обрабатывает GET /wallet/balance.
func (h *WalletHandler) Balance(c *gin.Context) {
	balance, err := h.wallet.Balance(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// Spend обрабатывает POST /wallet/spend.
func (h *WalletHandler) Spend(c *gin.Context) {
	var req models.SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	result, err := h.wallet.Spend(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}
