package service

import (
	"context"
	"sync"

	"github.com/ignatzorin/bazaar-gateway/internal/events"
	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

// OrderFetcher описывает загрузку заказа либо кейса с ноды.
type OrderFetcher interface {
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	GetCase(ctx context.Context, caseID string) (*models.Case, error)
}

// OrderSession — живое состояние одной открытой сделки. Сессия допускает
// параллельные перезагрузки: документ замещается в порядке прихода
// ответов, так что побеждает перезагрузка, завершившаяся последней,
// даже если начата она была раньше.
type OrderSession struct {
	orderID string
	isCase  bool
	fetcher OrderFetcher
	bus     *events.Bus

	mu     sync.RWMutex
	record *models.OrderRecord
}

// NewOrderSession создаёт сессию без загруженного документа.
func NewOrderSession(orderID string, isCase bool, fetcher OrderFetcher, bus *events.Bus) *OrderSession {
	return &OrderSession{
		orderID: orderID,
		isCase:  isCase,
		fetcher: fetcher,
		bus:     bus,
	}
}

// Refresh загружает сделку с ноды и целиком замещает локальный документ.
// Слияния по полям нет: каждый пришедший ответ авторитетен и перекрывает
// предыдущий, в том числе записанный более поздней перезагрузкой.
func (s *OrderSession) Refresh(ctx context.Context) (*models.OrderRecord, error) {
	var record *models.OrderRecord
	if s.isCase {
		disputeCase, err := s.fetcher.GetCase(ctx, s.orderID)
		if err != nil {
			return nil, err
		}
		record = models.NewCaseRecord(disputeCase)
	} else {
		order, err := s.fetcher.GetOrder(ctx, s.orderID)
		if err != nil {
			return nil, err
		}
		record = models.NewOrderRecord(order)
	}

	s.mu.Lock()
	s.record = record
	s.mu.Unlock()

	s.bus.Publish(events.OrderEvent{
		Kind:    events.KindOrderUpdated,
		OrderID: s.orderID,
	})
	return record, nil
}

// ApplyState оптимистично записывает новое состояние в локальный документ,
// не дожидаясь подтверждающей перезагрузки с ноды.
func (s *OrderSession) ApplyState(state string) {
	s.mu.Lock()
	applied := s.record != nil
	if applied {
		s.record.SetState(state)
	}
	s.mu.Unlock()

	if applied {
		s.bus.Publish(events.OrderEvent{
			Kind:    events.KindOrderUpdated,
			OrderID: s.orderID,
		})
	}
}

// Record возвращает текущий документ сделки, nil если ещё не загружен.
func (s *OrderSession) Record() *models.OrderRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

// IsCase сообщает, открыта ли сессия как модераторский кейс.
func (s *OrderSession) IsCase() bool {
	return s.isCase
}

// SessionStore держит по одной сессии на сделку.
type SessionStore struct {
	fetcher OrderFetcher
	bus     *events.Bus

	mu       sync.Mutex
	sessions map[string]*OrderSession
}

// NewSessionStore создаёт пустое хранилище сессий.
func NewSessionStore(fetcher OrderFetcher, bus *events.Bus) *SessionStore {
	return &SessionStore{
		fetcher:  fetcher,
		bus:      bus,
		sessions: make(map[string]*OrderSession),
	}
}

// GetOrCreate возвращает сессию сделки, создавая её при первом обращении.
// Вид сделки (заказ или кейс) фиксируется при создании.
func (st *SessionStore) GetOrCreate(orderID string, isCase bool) *OrderSession {
	st.mu.Lock()
	defer st.mu.Unlock()

	if session, ok := st.sessions[orderID]; ok {
		return session
	}
	session := NewOrderSession(orderID, isCase, st.fetcher, st.bus)
	st.sessions[orderID] = session
	return session
}

// Get возвращает существующую сессию либо nil.
func (st *SessionStore) Get(orderID string) *OrderSession {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[orderID]
}

// Drop удаляет сессию сделки.
func (st *SessionStore) Drop(orderID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, orderID)
}
