package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

func TestKindFor(t *testing.T) {
	assert.Equal(t, Kind("acceptingOrder"), KindFor(models.ActionAccept, PhaseStarted))
	assert.Equal(t, Kind("fulfillOrderComplete"), KindFor(models.ActionFulfill, PhaseComplete))
	assert.Equal(t, Kind("openDisputeFail"), KindFor(models.ActionOpenDispute, PhaseFail))
	assert.Equal(t, Kind("resolveDisputeComplete"), KindFor(models.ActionResolveDispute, PhaseComplete))
}

func TestKindForStartedNames(t *testing.T) {
	assert.Equal(t, Kind("rejectingOrder"), KindFor(models.ActionReject, PhaseStarted))
	assert.Equal(t, Kind("cancelingOrder"), KindFor(models.ActionCancel, PhaseStarted))
	assert.Equal(t, Kind("fulfillingOrder"), KindFor(models.ActionFulfill, PhaseStarted))
	assert.Equal(t, Kind("refundingOrder"), KindFor(models.ActionRefund, PhaseStarted))
	assert.Equal(t, Kind("completingOrder"), KindFor(models.ActionComplete, PhaseStarted))
	assert.Equal(t, Kind("openingDisputeOrder"), KindFor(models.ActionOpenDispute, PhaseStarted))
	assert.Equal(t, Kind("resolvingDispute"), KindFor(models.ActionResolveDispute, PhaseStarted))
}

func TestKindForCoversAllActions(t *testing.T) {
	for action := range models.ValidOrderActions {
		for _, phase := range []Phase{PhaseStarted, PhaseComplete, PhaseFail} {
			kind := KindFor(action, phase)
			assert.NotEmpty(t, kind, "нет имени события для команды %s", action)
			assert.NotEqual(t, Kind(string(phase)), kind, "нет глагола для команды %s", action)
		}
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()
	first := bus.Subscribe(4)
	second := bus.Subscribe(4)

	bus.Publish(OrderEvent{Kind: KindOrderUpdated, OrderID: "order-1"})

	assert.Equal(t, "order-1", (<-first.C).OrderID)
	assert.Equal(t, "order-1", (<-second.C).OrderID)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1)

	bus.Unsubscribe(sub)

	_, open := <-sub.C
	assert.False(t, open)

	// Повторный Unsubscribe не должен паниковать.
	assert.NotPanics(t, func() { bus.Unsubscribe(sub) })
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	bus := NewBus()
	slow := bus.Subscribe(1)

	bus.Publish(OrderEvent{Kind: KindOrderUpdated, OrderID: "order-1"})
	bus.Publish(OrderEvent{Kind: KindOrderUpdated, OrderID: "order-2"})

	assert.Equal(t, "order-1", (<-slow.C).OrderID)
	select {
	case event := <-slow.C:
		t.Fatalf("лишнее событие %s", event.OrderID)
	default:
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1)

	bus.Close()
	bus.Publish(OrderEvent{Kind: KindOrderUpdated, OrderID: "order-1"})

	_, open := <-sub.C
	assert.False(t, open)

	late := bus.Subscribe(1)
	_, open = <-late.C
	assert.False(t, open)
}
