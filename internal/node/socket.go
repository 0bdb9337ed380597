package node

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ignatzorin/bazaar-gateway/internal/logger"
)

const (
	// Пауза между попытками переподключения к сокету ноды.
	reconnectDelay = 3 * time.Second

	// Предел времени ожидания сообщения, после которого соединение считается мёртвым.
	socketReadWait = 90 * time.Second

	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

// SocketConsumer держит websocket-соединение с нодой и передаёт каждое
// входящее сообщение обработчику. Разрыв соединения приводит к
// переподключению, а не к остановке.
type SocketConsumer struct {
	socketURL string
	username  string
	password  string
	handler   func(raw []byte)
}

// NewSocketConsumer создаёт потребителя push-сообщений ноды.
func NewSocketConsumer(socketURL, username, password string, handler func(raw []byte)) *SocketConsumer {
	return &SocketConsumer{
		socketURL: socketURL,
		username:  username,
		password:  password,
		handler:   handler,
	}
}

// Run блокируется до отмены контекста, поддерживая соединение живым.
func (s *SocketConsumer) Run(ctx context.Context) {
	for {
		if err := s.connectAndRead(ctx); err != nil {
			logger.Log.WithError(err).Warn("Соединение с сокетом ноды потеряно")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (s *SocketConsumer) connectAndRead(ctx context.Context) error {
	header := http.Header{}
	if s.username != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(s.username + ":" + s.password))
		header.Set("Authorization", "Basic "+credentials)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.socketURL, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Log.Info("Соединение с сокетом ноды установлено")

	conn.SetReadDeadline(time.Now().Add(socketReadWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(socketReadWait))
		return nil
	})

	// Закрываем соединение при отмене контекста, чтобы разблокировать ReadMessage.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	go s.pingLoop(ctx, conn)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		conn.SetReadDeadline(time.Now().Add(socketReadWait))
		s.handler(raw)
	}
}

func (s *SocketConsumer) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
