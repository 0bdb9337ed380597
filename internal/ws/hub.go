// Package ws — push-канал шлюза к интерфейсу. Каждое событие жизненного
// цикла заказа доставляется всем открытым окнам интерфейса.
package ws

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ignatzorin/bazaar-gateway/internal/goroutine"
	"github.com/ignatzorin/bazaar-gateway/internal/logger"
)

// Hub управляет всеми WebSocket подключениями интерфейса.
// Шлюз однопользовательский, поэтому адресной доставки нет: каждое
// сообщение уходит во все подключения.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// Register добавляет подключение.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет подключение.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast отправляет событие всем подключениям. Поле "type" содержит имя
// события, "data" — полезную нагрузку.
func (h *Hub) Broadcast(event string, data any) error {
	payload := map[string]any{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	h.broadcast <- raw
	return nil
}

// ClientCount возвращает число открытых подключений.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Переполненный клиент закрывается, не задерживая остальных.
			goroutine.SafeGo(func() {
				client.Close()
			})
			logger.Log.Warn("Медленное подключение интерфейса закрыто")
		}
	}
}
