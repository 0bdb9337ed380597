package service

import (
	"context"
	"sync"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

// OrderDetailService собирает проекцию сделки для экрана деталей.
type OrderDetailService struct {
	sessions *SessionStore
	actions  *OrderActions

	mu        sync.RWMutex
	ownPeerID string
}

// NewOrderDetailService создаёт сервис деталей сделки.
func NewOrderDetailService(sessions *SessionStore, actions *OrderActions) *OrderDetailService {
	return &OrderDetailService{sessions: sessions, actions: actions}
}

// SetOwnPeerID задаёт peerID владельца шлюза. Вызывается после того, как
// нода стала доступна; до этого роль в сделках не определяется.
func (s *OrderDetailService) SetOwnPeerID(peerID string) {
	s.mu.Lock()
	s.ownPeerID = peerID
	s.mu.Unlock()
}

// OwnPeerID возвращает peerID владельца шлюза.
func (s *OrderDetailService) OwnPeerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ownPeerID
}

// Open открывает сделку: загружает свежий документ с ноды и строит проекцию.
func (s *OrderDetailService) Open(ctx context.Context, id string, isCase bool) (*DetailView, error) {
	if id == "" {
		return nil, apperror.MissingArgument("orderId")
	}

	session := s.sessions.GetOrCreate(id, isCase)
	record, err := session.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	view := BuildDetail(record, s.OwnPeerID(), s.actions.InFlight(id))
	return &view, nil
}

// Current возвращает проекцию уже открытой сделки без похода к ноде.
func (s *OrderDetailService) Current(id string) (*DetailView, error) {
	if id == "" {
		return nil, apperror.MissingArgument("orderId")
	}

	session := s.sessions.Get(id)
	if session == nil {
		return nil, apperror.MissingData("сделки")
	}
	record := session.Record()
	if record == nil {
		return nil, apperror.MissingData("сделки")
	}

	view := BuildDetail(record, s.OwnPeerID(), s.actions.InFlight(id))
	return &view, nil
}

// Close закрывает сессию сделки.
func (s *OrderDetailService) Close(id string) {
	s.sessions.Drop(id)
}

// InFlight возвращает команды, идущие сейчас по сделке.
func (s *OrderDetailService) InFlight(id string) []models.OrderAction {
	return s.actions.InFlight(id)
}
