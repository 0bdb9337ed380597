// Package guard не допускает параллельного исполнения одной и той же
// команды над одним и тем же заказом. Повторный вызов, пришедший пока
// команда в полёте, не порождает второй сетевой запрос, а разделяет исход
// первого.
package guard

import (
	"sync"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

// PendingAction — одна команда в полёте. Канал done закрывается ровно один
// раз, после чего Err() возвращает итог.
type PendingAction struct {
	Action  models.OrderAction
	OrderID string

	done chan struct{}

	mu  sync.Mutex
	err error
}

// Done возвращает канал, закрываемый по завершении команды.
func (p *PendingAction) Done() <-chan struct{} {
	return p.done
}

// Err возвращает итог команды. До закрытия Done() значение не определено.
func (p *PendingAction) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *PendingAction) settle(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	close(p.done)
}

// ActionGuard ведёт учёт команд в полёте по ключу (команда, заказ).
type ActionGuard struct {
	mu      sync.Mutex
	pending map[actionKey]*PendingAction
}

type actionKey struct {
	action  models.OrderAction
	orderID string
}

// NewActionGuard создаёт пустой реестр команд в полёте.
func NewActionGuard() *ActionGuard {
	return &ActionGuard{pending: make(map[actionKey]*PendingAction)}
}

// Begin пытается занять пару (команда, заказ). Первый возвращённый флаг
// истинен, если пара была свободна и вызывающий стал владельцем; иначе
// возвращается уже идущая команда, и вызывающий должен ждать её исход.
func (g *ActionGuard) Begin(action models.OrderAction, orderID string) (*PendingAction, bool) {
	key := actionKey{action: action, orderID: orderID}

	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.pending[key]; ok {
		return p, false
	}
	p := &PendingAction{
		Action:  action,
		OrderID: orderID,
		done:    make(chan struct{}),
	}
	g.pending[key] = p
	return p, true
}

// End снимает пару (команда, заказ) с учёта и оглашает исход всем ждущим.
// Вызывается владельцем строго до публикации завершающего события команды.
func (g *ActionGuard) End(action models.OrderAction, orderID string, err error) {
	key := actionKey{action: action, orderID: orderID}

	g.mu.Lock()
	p, ok := g.pending[key]
	if ok {
		delete(g.pending, key)
	}
	g.mu.Unlock()

	if ok {
		p.settle(err)
	}
}

// InFlight сообщает, идёт ли сейчас команда над заказом.
func (g *ActionGuard) InFlight(action models.OrderAction, orderID string) bool {
	key := actionKey{action: action, orderID: orderID}

	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.pending[key]
	return ok
}

// InFlightFor возвращает команды, идущие сейчас над заказом.
func (g *ActionGuard) InFlightFor(orderID string) []models.OrderAction {
	g.mu.Lock()
	defer g.mu.Unlock()

	var actions []models.OrderAction
	for key := range g.pending {
		if key.orderID == orderID {
			actions = append(actions, key.action)
		}
	}
	return actions
}
