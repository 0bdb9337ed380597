package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/bazaar-gateway/internal/events"
	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

type mockNotificationStore struct {
	mock.Mock
}

func (m *mockNotificationStore) Add(ctx context.Context, kind, orderID string) (*models.NotificationRow, error) {
	args := m.Called(ctx, kind, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationRow), args.Error(1)
}

func (m *mockNotificationStore) List(ctx context.Context, limit int) ([]models.NotificationRow, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NotificationRow), args.Error(1)
}

func (m *mockNotificationStore) UnreadCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationStore) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockNotificationStore) MarkAllRead(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockNotificationStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newRouterFixture(fetcher *stubFetcher) (*NotificationRouter, *mockNotificationStore, *SessionStore, *events.Subscriber) {
	store := new(mockNotificationStore)
	bus := events.NewBus()
	sub := bus.Subscribe(16)
	sessions := NewSessionStore(fetcher, bus)
	return NewNotificationRouter(sessions, bus, store), store, sessions, sub
}

func waitNotificationEvent(t *testing.T, sub *events.Subscriber) events.OrderEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-sub.C:
			if event.Kind == events.KindNotification {
				return event
			}
		case <-deadline:
			t.Fatal("ожидалось событие notification")
		}
	}
}

func TestOrderNotificationIsJournaledAndPublished(t *testing.T) {
	router, store, _, sub := newRouterFixture(&stubFetcher{})
	store.On("Add", mock.Anything, models.NotificationPayment, "order-1").
		Return(&models.NotificationRow{ID: "row-1", Kind: models.NotificationPayment, OrderID: "order-1"}, nil).
		Once()

	router.HandleRaw([]byte(`{"notification":{"payment":{"orderId":"order-1"}}}`))

	event := waitNotificationEvent(t, sub)
	assert.Equal(t, "order-1", event.OrderID)
	store.AssertExpectations(t)
}

func TestNotificationRefreshesOpenSession(t *testing.T) {
	fetcher := &stubFetcher{order: newTestOrder(models.StateFulfilled)}
	router, store, sessions, _ := newRouterFixture(fetcher)
	store.On("Add", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.NotificationRow{}, nil)

	session := sessions.GetOrCreate("order-1", false)
	router.HandleRaw([]byte(`{"notification":{"orderFulfillment":{"orderId":"order-1"}}}`))

	assert.Eventually(t, func() bool {
		record := session.Record()
		return record != nil && record.State() == models.StateFulfilled
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotificationDoesNotLoadClosedDeal(t *testing.T) {
	fetcher := &stubFetcher{order: newTestOrder(models.StateFulfilled)}
	router, store, _, _ := newRouterFixture(fetcher)
	store.On("Add", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.NotificationRow{}, nil)

	router.HandleRaw([]byte(`{"notification":{"order":{"orderId":"order-closed"}}}`))

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, fetcher.callCount(), "закрытая сделка не загружается по уведомлению")
}

func TestUnrelatedNotificationKindIsIgnored(t *testing.T) {
	router, store, _, _ := newRouterFixture(&stubFetcher{})

	router.HandleRaw([]byte(`{"notification":{"follow":{"orderId":"order-1"}}}`))
	router.HandleRaw([]byte(`{"notification":{"chatMessage":{"orderId":"order-1"}}}`))

	store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationWithoutOrderIDIsIgnored(t *testing.T) {
	router, store, _, _ := newRouterFixture(&stubFetcher{})

	router.HandleRaw([]byte(`{"notification":{"payment":{}}}`))

	store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestMalformedMessagesAreDropped(t *testing.T) {
	router, store, _, _ := newRouterFixture(&stubFetcher{})

	router.HandleRaw([]byte(`не json`))
	router.HandleRaw([]byte(`{}`))
	router.HandleRaw([]byte(`{"notification":{}}`))
	router.HandleRaw([]byte(`{"status":"publishing"}`))

	store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestSlowJournalDoesNotBlockSocketRead(t *testing.T) {
	router, store, _, sub := newRouterFixture(&stubFetcher{})
	release := make(chan struct{})
	store.On("Add", mock.Anything, models.NotificationPayment, "order-1").
		Run(func(mock.Arguments) { <-release }).
		Return(&models.NotificationRow{ID: "row-1"}, nil).
		Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		router.HandleRaw([]byte(`{"notification":{"payment":{"orderId":"order-1"}}}`))
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("чтение сокета не должно ждать записи в журнал")
	}

	close(release)
	event := waitNotificationEvent(t, sub)
	assert.Equal(t, "order-1", event.OrderID)
}

func TestJournalFailureStillPublishesEvent(t *testing.T) {
	router, store, _, sub := newRouterFixture(&stubFetcher{})
	store.On("Add", mock.Anything, models.NotificationDisputeOpen, "order-1").
		Return(nil, assert.AnError).Once()

	router.HandleRaw([]byte(`{"notification":{"disputeOpen":{"orderId":"order-1"}}}`))

	event := waitNotificationEvent(t, sub)
	assert.Equal(t, "order-1", event.OrderID)
}
