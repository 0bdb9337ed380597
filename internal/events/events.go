// Package events — внутренняя шина событий жизненного цикла заказов.
// Каждая команда порождает тройку событий: стартовое ("acceptingOrder")
// строго до сетевого вызова, затем ровно одно из "<команда>Complete"
// либо "<команда>Fail".
package events

import (
	"sync"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

// Phase — фаза исполнения команды.
type Phase string

const (
	PhaseStarted  Phase = "started"
	PhaseComplete Phase = "Complete"
	PhaseFail     Phase = "Fail"
)

// Kind — имя события, например "acceptOrderComplete".
type Kind string

// KindFor возвращает имя события для команды и фазы. У стартовой фазы
// собственные имена ("acceptingOrder"), завершение и провал собираются
// по соглашению "<глагол действия><фаза>".
func KindFor(action models.OrderAction, phase Phase) Kind {
	if phase == PhaseStarted {
		return startedKinds[action]
	}
	return Kind(actionVerbs[action] + string(phase))
}

// Глаголы, из которых собираются имена событий завершения и провала.
var actionVerbs = map[models.OrderAction]string{
	models.ActionAccept:         "acceptOrder",
	models.ActionReject:         "rejectOrder",
	models.ActionCancel:         "cancelOrder",
	models.ActionFulfill:        "fulfillOrder",
	models.ActionRefund:         "refundOrder",
	models.ActionComplete:       "completeOrder",
	models.ActionOpenDispute:    "openDispute",
	models.ActionResolveDispute: "resolveDispute",
}

// Имена стартовых событий, по одному на команду.
var startedKinds = map[models.OrderAction]Kind{
	models.ActionAccept:         "acceptingOrder",
	models.ActionReject:         "rejectingOrder",
	models.ActionCancel:         "cancelingOrder",
	models.ActionFulfill:        "fulfillingOrder",
	models.ActionRefund:         "refundingOrder",
	models.ActionComplete:       "completingOrder",
	models.ActionOpenDispute:    "openingDisputeOrder",
	models.ActionResolveDispute: "resolvingDispute",
}

// Дополнительные события, не связанные с командами.
const (
	KindOrderUpdated  Kind = "orderUpdated"
	KindNotification  Kind = "notification"
	KindWalletUpdated Kind = "walletUpdated"
)

// OrderEvent — одно событие шины.
type OrderEvent struct {
	Kind    Kind               `json:"kind"`
	Action  models.OrderAction `json:"action,omitempty"`
	OrderID string             `json:"orderId"`
	Error   string             `json:"error,omitempty"`
	Payload any                `json:"payload,omitempty"`
}

// Subscriber получает события шины. Канал закрывается при Unsubscribe
// и при закрытии шины.
type Subscriber struct {
	C  <-chan OrderEvent
	ch chan OrderEvent
}

// Bus рассылает события всем подписчикам. Публикация не блокируется:
// событие для отставшего подписчика отбрасывается.
type Bus struct {
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	closed bool
}

// NewBus создаёт шину без подписчиков.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscriber]struct{})}
}

// Subscribe регистрирует нового подписчика с буфером на buffer событий.
func (b *Bus) Subscribe(buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan OrderEvent, buffer)
	sub := &Subscriber{C: ch, ch: ch}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe снимает подписчика с учёта и закрывает его канал.
func (b *Bus) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.ch)
}

// Publish рассылает событие всем текущим подписчикам.
func (b *Bus) Publish(event OrderEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// Close закрывает шину и каналы всех подписчиков.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.ch)
		delete(b.subs, sub)
	}
}
