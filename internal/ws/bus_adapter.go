package ws

import (
	"context"

	"github.com/ignatzorin/bazaar-gateway/internal/events"
	"github.com/ignatzorin/bazaar-gateway/internal/logger"
)

// BusAdapter переливает события внутренней шины в push-канал интерфейса.
type BusAdapter struct {
	bus *events.Bus
	hub *Hub
}

// NewBusAdapter создаёт адаптер шины.
func NewBusAdapter(bus *events.Bus, hub *Hub) *BusAdapter {
	return &BusAdapter{bus: bus, hub: hub}
}

// Run блокируется до отмены контекста либо закрытия шины.
func (a *BusAdapter) Run(ctx context.Context) {
	sub := a.bus.Subscribe(128)
	defer a.bus.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			if err := a.hub.Broadcast(string(event.Kind), event); err != nil {
				logger.Log.WithError(err).Error("Не удалось отправить событие интерфейсу")
			}
		}
	}
}
