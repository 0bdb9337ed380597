package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/shipping"
)

// ShippingHandler — HTTP слой проверки правил доставки.
type ShippingHandler struct{}

// NewShippingHandler создаёт хэндлер.
func NewShippingHandler() *ShippingHandler {
	return &ShippingHandler{}
}

// Validate обрабатывает POST /shipping/rules/validate.
func (h *ShippingHandler) Validate(c *gin.Context) {
	var set models.ShippingRuleSet
	if err := c.ShouldBindJSON(&set); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	if err := shipping.ValidateRuleSet(set); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// Price обрабатывает POST /shipping/rules/price — возвращает цену доставки
// для веса либо количества по диапазонным правилам.
func (h *ShippingHandler) Price(c *gin.Context) {
	var req struct {
		Set   models.ShippingRuleSet `json:"set"`
		Value int64                  `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	if err := shipping.ValidateRuleSet(req.Set); err != nil {
		_ = c.Error(err)
		return
	}

	price, ok := shipping.PriceFor(req.Set, req.Value)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"matched": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matched": true, "price": price})
}
