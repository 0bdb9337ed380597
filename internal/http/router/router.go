package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/bazaar-gateway/internal/config"
	"github.com/ignatzorin/bazaar-gateway/internal/http/handlers"
	"github.com/ignatzorin/bazaar-gateway/internal/http/middleware"
	"github.com/ignatzorin/bazaar-gateway/internal/service"
)

// SetupRouter собирает все маршруты локального API шлюза.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	orderHandler *handlers.OrderHandler,
	disputeHandler *handlers.DisputeHandler,
	walletHandler *handlers.WalletHandler,
	shippingHandler *handlers.ShippingHandler,
	searchHandler *handlers.SearchHandler,
	notificationHandler *handlers.NotificationHandler,
	profileHandler *handlers.ProfileHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/orders/:id", orderHandler.GetOrder)
		protected.GET("/orders/:id/current", orderHandler.GetOrderCurrent)
		protected.DELETE("/orders/:id", orderHandler.CloseOrder)
		protected.POST("/orders/:id/accept", orderHandler.Accept)
		protected.POST("/orders/:id/reject", orderHandler.Reject)
		protected.POST("/orders/:id/cancel", orderHandler.Cancel)
		protected.POST("/orders/:id/fulfill", orderHandler.Fulfill)
		protected.POST("/orders/:id/complete", orderHandler.Complete)
		protected.POST("/orders/:id/refund", orderHandler.Refund)
		protected.GET("/orders/:id/pending", orderHandler.ListPending)
		protected.GET("/orders/:id/activity", orderHandler.ListActivity)
		protected.GET("/activity", orderHandler.ListRecentActivity)

		protected.POST("/orders/:id/dispute", disputeHandler.OpenDispute)
		protected.GET("/cases/:id", disputeHandler.GetCase)
		protected.POST("/cases/:id/resolve", disputeHandler.Resolve)
		protected.GET("/cases/:id/payout-preview", disputeHandler.PayoutPreview)

		protected.GET("/orders/:id/participants", profileHandler.GetParticipants)
		protected.GET("/profiles/:peerId", profileHandler.GetProfile)
		protected.GET("/profiles/:peerId/avatar", profileHandler.GetAvatar)

		protected.GET("/wallet/balance", walletHandler.Balance)
		protected.POST("/wallet/spend", walletHandler.Spend)

		protected.POST("/shipping/rules/validate", shippingHandler.Validate)
		protected.POST("/shipping/rules/price", shippingHandler.Price)

		protected.GET("/search", searchHandler.Search)
		protected.GET("/search/providers", searchHandler.Providers)

		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		protected.DELETE("/notifications/:id", notificationHandler.Delete)
	}

	return r
}
