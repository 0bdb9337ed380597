package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bazaar-gateway/internal/profiles"
	"github.com/ignatzorin/bazaar-gateway/internal/service"
	"github.com/ignatzorin/bazaar-gateway/internal/storage"
)

// ProfileHandler — HTTP слой профилей участников сделок.
type ProfileHandler struct {
	resolver *profiles.Resolver
	avatars  *storage.AvatarCache
	detail   *service.OrderDetailService
}

// NewProfileHandler создаёт хэндлер.
func NewProfileHandler(resolver *profiles.Resolver, avatars *storage.AvatarCache, detail *service.OrderDetailService) *ProfileHandler {
	return &ProfileHandler{resolver: resolver, avatars: avatars, detail: detail}
}

// GetProfile обрабатывает GET /profiles/:peerId.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.resolver.Get(c.Request.Context(), c.Param("peerId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if profile == nil {
		_ = c.Error(apperror.New(apperror.ErrCodeNotFound, "профиль не найден"))
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetParticipants обрабатывает GET /orders/:id/participants — профили
// сторон открытой сделки.
func (h *ProfileHandler) GetParticipants(c *gin.Context) {
	view, err := h.detail.Current(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	participants := h.resolver.Resolve(c.Request.Context(), view.Contract)
	c.JSON(http.StatusOK, participants)
}

// GetAvatar обрабатывает GET /profiles/:peerId/avatar — отдаёт
// закэшированный аватар участника.
func (h *ProfileHandler) GetAvatar(c *gin.Context) {
	peerID := c.Param("peerId")

	profile, err := h.resolver.Get(c.Request.Context(), peerID)
	if err != nil || profile == nil || profile.AvatarURL == "" {
		_ = c.Error(apperror.New(apperror.ErrCodeNotFound, "аватар не найден"))
		return
	}

	path, err := h.avatars.Get(c.Request.Context(), peerID, profile.AvatarURL)
	if err != nil {
		_ = c.Error(apperror.Wrap(err, apperror.ErrCodeNotFound, "аватар недоступен"))
		return
	}
	c.File(path)
}
