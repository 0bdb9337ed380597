package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/service"
)

// SearchHandler — HTTP слой поиска по провайдерам.
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler создаёт хэндлер.
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search обрабатывает GET /search?provider=...&q=...&p=...&ps=...
func (h *SearchHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("p"))
	pageSize, _ := strconv.Atoi(c.Query("ps"))

	query := models.SearchQuery{
		Provider: c.Query("provider"),
		Term:     c.Query("q"),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.search.Search(c.Request.Context(), query)
	if err != nil {
		// Вытеснение — не сбой: этот запрос уже никого не интересует.
		if errors.Is(err, service.ErrSearchSuperseded) {
			c.JSON(http.StatusConflict, gin.H{"superseded": true})
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Providers обрабатывает GET /search/providers.
func (h *SearchHandler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.search.Providers()})
}
