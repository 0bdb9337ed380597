package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ignatzorin/bazaar-gateway/internal/events"
	"github.com/ignatzorin/bazaar-gateway/internal/goroutine"
	"github.com/ignatzorin/bazaar-gateway/internal/logger"
	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

// NotificationStore описывает журнал уведомлений.
type NotificationStore interface {
	Add(ctx context.Context, kind, orderID string) (*models.NotificationRow, error)
	List(ctx context.Context, limit int) ([]models.NotificationRow, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

// NotificationRouter разбирает push-сообщения ноды и превращает уведомления
// о заказах в перезагрузку сделки, запись в журнал и событие для
// интерфейса. Сообщения других видов и нечитаемые сообщения молча
// пропускаются.
type NotificationRouter struct {
	sessions *SessionStore
	bus      *events.Bus
	store    NotificationStore
}

// NewNotificationRouter создаёт маршрутизатор уведомлений.
func NewNotificationRouter(sessions *SessionStore, bus *events.Bus, store NotificationStore) *NotificationRouter {
	return &NotificationRouter{
		sessions: sessions,
		bus:      bus,
		store:    store,
	}
}

// HandleRaw обрабатывает одно сырое сообщение сокета ноды.
func (r *NotificationRouter) HandleRaw(raw []byte) {
	var envelope models.PushEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		logger.Log.WithError(err).Debug("Нечитаемое сообщение сокета ноды")
		return
	}
	if len(envelope.Notification) == 0 {
		return
	}

	for kind, notification := range envelope.Notification {
		if !models.OrderNotificationKinds[kind] {
			continue
		}
		if notification.OrderID == "" {
			logger.Log.WithField("kind", kind).Debug("Уведомление о заказе без orderId")
			continue
		}
		r.route(kind, notification.OrderID)
	}
}

func (r *NotificationRouter) route(kind, orderID string) {
	logger.Log.WithField("kind", kind).WithField("order_id", orderID).
		Debug("Уведомление о заказе от ноды")

	// У открытой сделки перезагружается документ; закрытую сделку
	// уведомление не заставляет загружать.
	if session := r.sessions.Get(orderID); session != nil {
		goroutine.SafeGo(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := session.Refresh(ctx); err != nil {
				logger.Log.WithError(err).WithField("order_id", orderID).
					Warn("Не удалось перезагрузить сделку по уведомлению")
			}
		})
	}

	// Запись в журнал уходит с горутины чтения сокета: медленная база
	// не должна задерживать приём следующих push-сообщений.
	goroutine.SafeGo(func() {
		var row *models.NotificationRow
		if r.store != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			saved, err := r.store.Add(ctx, kind, orderID)
			if err != nil {
				logger.Log.WithError(err).Warn("Не удалось сохранить уведомление в журнал")
			} else {
				row = saved
			}
		}

		r.bus.Publish(events.OrderEvent{
			Kind:    events.KindNotification,
			OrderID: orderID,
			Payload: map[string]any{
				"kind": kind,
				"row":  row,
			},
		})
	})
}
