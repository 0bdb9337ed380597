package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/bazaar-gateway/internal/config"
	"github.com/ignatzorin/bazaar-gateway/internal/db"
	"github.com/ignatzorin/bazaar-gateway/internal/events"
	"github.com/ignatzorin/bazaar-gateway/internal/goroutine"
	"github.com/ignatzorin/bazaar-gateway/internal/guard"
	httpHandlers "github.com/ignatzorin/bazaar-gateway/internal/http/handlers"
	httpRouter "github.com/ignatzorin/bazaar-gateway/internal/http/router"
	"github.com/ignatzorin/bazaar-gateway/internal/logger"
	"github.com/ignatzorin/bazaar-gateway/internal/node"
	"github.com/ignatzorin/bazaar-gateway/internal/profiles"
	"github.com/ignatzorin/bazaar-gateway/internal/repository"
	"github.com/ignatzorin/bazaar-gateway/internal/service"
	"github.com/ignatzorin/bazaar-gateway/internal/storage"
	"github.com/ignatzorin/bazaar-gateway/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к локальной базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	avatarCache, err := storage.NewAvatarCache(cfg.AvatarStoragePath)
	if err != nil {
		log.Fatalf("main: не удалось подготовить кэш аватаров: %v", err)
	}

	// Репозитории.
	activityRepo := repository.NewActivityRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Клиент ноды и внутренняя шина событий.
	nodeClient := node.NewClient(cfg.NodeBaseURL, cfg.NodeUsername, cfg.NodePassword)
	bus := events.NewBus()
	defer bus.Close()

	// Сервисы жизненного цикла заказов.
	sessions := service.NewSessionStore(nodeClient, bus)
	actionGuard := guard.NewActionGuard()
	orderActions := service.NewOrderActions(nodeClient, actionGuard, bus, sessions, activityRepo)
	orderDetail := service.NewOrderDetailService(sessions, orderActions)
	disputeFlow := service.NewDisputeFlow(orderDetail, orderActions)
	authService := service.NewAuthService(cfg.GatewayUsername, cfg.GatewayPasswordHash, tokenManager)
	walletService := service.NewWalletService(nodeClient, bus)
	searchService := service.NewSearchService(cfg.SearchProviders)
	profileResolver := profiles.NewResolver(nodeClient)
	notificationRouter := service.NewNotificationRouter(sessions, bus, notificationRepo)

	// Свой peerID нужен для определения роли в сделках; нода может быть
	// ещё не поднята, поэтому пробуем в фоне до первого успеха.
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		resolveOwnPeerID(ctx, nodeClient, orderDetail)
	})

	// Вебсокеты: push ноды внутрь, push интерфейсу наружу.
	hub := ws.NewHub()
	go hub.Run()
	goroutine.SafeGoWithContext(ctx, ws.NewBusAdapter(bus, hub).Run)

	socket := node.NewSocketConsumer(cfg.NodeSocketURL, cfg.NodeUsername, cfg.NodePassword, notificationRouter.HandleRaw)
	goroutine.SafeGoWithContext(ctx, socket.Run)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	orderHandler := httpHandlers.NewOrderHandler(orderDetail, orderActions, activityRepo)
	disputeHandler := httpHandlers.NewDisputeHandler(disputeFlow)
	walletHandler := httpHandlers.NewWalletHandler(walletService)
	shippingHandler := httpHandlers.NewShippingHandler()
	searchHandler := httpHandlers.NewSearchHandler(searchService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationRepo)
	profileHandler := httpHandlers.NewProfileHandler(profileResolver, avatarCache, orderDetail)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(nodeClient)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, orderHandler, disputeHandler, walletHandler,
		shippingHandler, searchHandler, notificationHandler, profileHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: шлюз запущен на порту %s, нода %s", cfg.HTTPPort, cfg.NodeBaseURL)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// resolveOwnPeerID опрашивает ноду, пока та не отдаст конфигурацию.
func resolveOwnPeerID(ctx context.Context, client *node.Client, detail *service.OrderDetailService) {
	for {
		nodeConfig, err := client.NodeConfig(ctx)
		if err == nil {
			detail.SetOwnPeerID(nodeConfig.PeerID)
			logger.Log.WithField("peer_id", nodeConfig.PeerID).Info("Нода доступна")
			return
		}
		logger.Log.WithError(err).Warn("Нода недоступна, повтор через 5 секунд")

		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
