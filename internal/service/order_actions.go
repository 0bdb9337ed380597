package service

import (
	"context"
	"errors"
	"time"

	"github.com/ignatzorin/bazaar-gateway/internal/events"
	"github.com/ignatzorin/bazaar-gateway/internal/goroutine"
	"github.com/ignatzorin/bazaar-gateway/internal/guard"
	"github.com/ignatzorin/bazaar-gateway/internal/logger"
	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

// NodeCommander описывает команды жизненного цикла, исполняемые нодой.
type NodeCommander interface {
	ConfirmOrder(ctx context.Context, orderID string, reject bool) error
	CancelOrder(ctx context.Context, orderID string) error
	FulfillOrder(ctx context.Context, fulfillment map[string]any) error
	CompleteOrder(ctx context.Context, completion map[string]any) error
	RefundOrder(ctx context.Context, orderID string) error
	OpenDispute(ctx context.Context, orderID, claim string) error
	CloseDispute(ctx context.Context, resolution map[string]any) error
}

// ActivityLog описывает журнал действий над заказами.
type ActivityLog interface {
	Add(ctx context.Context, orderID string, action models.OrderAction, outcome, detail string) error
}

// Оптимистичные переходы состояния: записываются локально сразу после
// успешной команды, до подтверждающей перезагрузки с ноды.
var optimisticStates = map[models.OrderAction]string{
	models.ActionAccept:         models.StateAwaitingFulfillment,
	models.ActionReject:         models.StateDeclined,
	models.ActionCancel:         models.StateCanceled,
	models.ActionFulfill:        models.StateFulfilled,
	models.ActionRefund:         models.StateRefunded,
	models.ActionComplete:       models.StateCompleted,
	models.ActionOpenDispute:    models.StateDisputed,
	models.ActionResolveDispute: models.StateResolved,
}

// OrderActions исполняет команды жизненного цикла заказов. Каждая команда
// публикует тройку событий и защищена от параллельного повторного запуска.
type OrderActions struct {
	node     NodeCommander
	guard    *guard.ActionGuard
	bus      *events.Bus
	sessions *SessionStore
	activity ActivityLog
}

// NewOrderActions создаёт сервис команд.
func NewOrderActions(node NodeCommander, g *guard.ActionGuard, bus *events.Bus, sessions *SessionStore, activity ActivityLog) *OrderActions {
	return &OrderActions{
		node:     node,
		guard:    g,
		bus:      bus,
		sessions: sessions,
		activity: activity,
	}
}

// InFlight возвращает команды, идущие сейчас по сделке.
func (s *OrderActions) InFlight(orderID string) []models.OrderAction {
	return s.guard.InFlightFor(orderID)
}

// Accept принимает заказ со стороны продавца.
func (s *OrderActions) Accept(ctx context.Context, orderID string) error {
	return s.run(ctx, models.ActionAccept, orderID, false, func(ctx context.Context) error {
		return s.node.ConfirmOrder(ctx, orderID, false)
	})
}

// Reject отклоняет заказ со стороны продавца.
func (s *OrderActions) Reject(ctx context.Context, orderID string) error {
	return s.run(ctx, models.ActionReject, orderID, false, func(ctx context.Context) error {
		return s.node.ConfirmOrder(ctx, orderID, true)
	})
}

// Cancel отменяет ещё не принятый заказ со стороны покупателя.
func (s *OrderActions) Cancel(ctx context.Context, orderID string) error {
	return s.run(ctx, models.ActionCancel, orderID, false, func(ctx context.Context) error {
		return s.node.CancelOrder(ctx, orderID)
	})
}

// FulfillRequest — данные отгрузки заказа.
type FulfillRequest struct {
	OrderID  string                   `json:"orderId"`
	Note     string                   `json:"note"`
	Physical *models.PhysicalDelivery `json:"physicalDelivery,omitempty"`
	Digital  *models.DigitalDelivery  `json:"digitalDelivery,omitempty"`
}

// Fulfill отмечает заказ отгруженным. Для цифровых товаров обязательна
// ссылка на получение.
func (s *OrderActions) Fulfill(ctx context.Context, req FulfillRequest) error {
	if req.OrderID == "" {
		return apperror.MissingArgument("orderId")
	}
	if err := s.validateFulfillment(req); err != nil {
		return err
	}

	payload := map[string]any{
		"orderId": req.OrderID,
		"note":    req.Note,
	}
	if req.Physical != nil {
		payload["physicalDelivery"] = []any{req.Physical}
	}
	if req.Digital != nil {
		payload["digitalDelivery"] = []any{req.Digital}
	}

	return s.run(ctx, models.ActionFulfill, req.OrderID, false, func(ctx context.Context) error {
		return s.node.FulfillOrder(ctx, payload)
	})
}

func (s *OrderActions) validateFulfillment(req FulfillRequest) error {
	vErr := apperror.NewValidationError()

	digitalGood := false
	if session := s.sessions.Get(req.OrderID); session != nil {
		if record := session.Record(); record != nil {
			if contract := record.FeaturedContract(); contract != nil {
				digitalGood = contract.Type == models.ContractTypeDigitalGood
			}
		}
	}

	if digitalGood && req.Digital == nil {
		vErr.Add("url", "укажите ссылку на получение цифрового товара")
	}
	if req.Digital != nil && req.Digital.URL == "" {
		vErr.Add("url", "укажите ссылку на получение цифрового товара")
	}
	return vErr.ErrOrNil()
}

// CompleteRequest — данные завершения заказа покупателем.
type CompleteRequest struct {
	OrderID string `json:"orderId"`
	Rating  int    `json:"rating"`
	Review  string `json:"review"`
}

// Complete завершает заказ со стороны покупателя, с оценкой и отзывом.
func (s *OrderActions) Complete(ctx context.Context, req CompleteRequest) error {
	if req.OrderID == "" {
		return apperror.MissingArgument("orderId")
	}
	if req.Rating < 1 || req.Rating > 5 {
		vErr := apperror.NewValidationError()
		vErr.Add("rating", "оценка должна быть от 1 до 5")
		return vErr
	}

	payload := map[string]any{
		"orderId": req.OrderID,
		"ratings": []any{
			map[string]any{"overall": req.Rating, "review": req.Review},
		},
	}
	return s.run(ctx, models.ActionComplete, req.OrderID, false, func(ctx context.Context) error {
		return s.node.CompleteOrder(ctx, payload)
	})
}

// Refund возвращает средства покупателю со стороны продавца.
func (s *OrderActions) Refund(ctx context.Context, orderID string) error {
	return s.run(ctx, models.ActionRefund, orderID, false, func(ctx context.Context) error {
		return s.node.RefundOrder(ctx, orderID)
	})
}

// OpenDispute открывает спор по заказу с текстом претензии.
func (s *OrderActions) OpenDispute(ctx context.Context, orderID, claim string) error {
	return s.run(ctx, models.ActionOpenDispute, orderID, false, func(ctx context.Context) error {
		return s.node.OpenDispute(ctx, orderID, claim)
	})
}

// ResolveDisputeRequest — решение модератора по спору.
type ResolveDisputeRequest struct {
	OrderID          string  `json:"orderId"`
	Resolution       string  `json:"resolution"`
	BuyerPercentage  float64 `json:"buyerPercentage"`
	VendorPercentage float64 `json:"vendorPercentage"`
}

// ResolveDispute разрешает спор со стороны модератора. Доли покупателя и
// продавца в сумме должны давать 100 процентов.
func (s *OrderActions) ResolveDispute(ctx context.Context, req ResolveDisputeRequest) error {
	if req.OrderID == "" {
		return apperror.MissingArgument("orderId")
	}
	vErr := apperror.NewValidationError()
	if req.BuyerPercentage < 0 || req.VendorPercentage < 0 {
		vErr.Add("percentage", "доля не может быть отрицательной")
	} else if req.BuyerPercentage+req.VendorPercentage != 100 {
		vErr.Add("percentage", "доли покупателя и продавца в сумме должны давать 100")
	}
	if err := vErr.ErrOrNil(); err != nil {
		return err
	}

	payload := map[string]any{
		"orderId":          req.OrderID,
		"resolution":       req.Resolution,
		"buyerPercentage":  req.BuyerPercentage,
		"vendorPercentage": req.VendorPercentage,
	}
	return s.run(ctx, models.ActionResolveDispute, req.OrderID, true, func(ctx context.Context) error {
		return s.node.CloseDispute(ctx, payload)
	})
}

// run — общий конвейер команды: занять пару (команда, заказ), объявить
// начало, выполнить сетевой вызов, оптимистично применить состояние,
// освободить пару и только затем огласить исход. Повторный вызов во время
// исполнения не шлёт второй запрос, а ждёт исход первого.
func (s *OrderActions) run(ctx context.Context, action models.OrderAction, orderID string, isCase bool, call func(context.Context) error) error {
	if orderID == "" {
		return apperror.MissingArgument("orderId")
	}

	pending, owner := s.guard.Begin(action, orderID)
	if !owner {
		select {
		case <-pending.Done():
			return pending.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.bus.Publish(events.OrderEvent{
		Kind:    events.KindFor(action, events.PhaseStarted),
		Action:  action,
		OrderID: orderID,
	})
	s.logActivity(orderID, action, models.OutcomeStarted, "")

	err := call(ctx)

	if err == nil {
		if state, ok := optimisticStates[action]; ok {
			if session := s.sessions.Get(orderID); session != nil {
				session.ApplyState(state)
			}
		}
		s.scheduleRefresh(orderID, isCase)
	}

	// Пара снимается с учёта до оглашения исхода: подписчик завершающего
	// события вправе сразу же запустить команду заново.
	s.guard.End(action, orderID, err)

	if err != nil {
		reason := failureReason(err)
		s.bus.Publish(events.OrderEvent{
			Kind:    events.KindFor(action, events.PhaseFail),
			Action:  action,
			OrderID: orderID,
			Error:   reason,
		})
		s.logActivity(orderID, action, models.OutcomeFailed, reason)
		return err
	}

	s.bus.Publish(events.OrderEvent{
		Kind:    events.KindFor(action, events.PhaseComplete),
		Action:  action,
		OrderID: orderID,
	})
	s.logActivity(orderID, action, models.OutcomeCompleted, "")
	return nil
}

// scheduleRefresh запускает авторитетную перезагрузку сделки с ноды,
// не задерживая ответ команды.
func (s *OrderActions) scheduleRefresh(orderID string, isCase bool) {
	session := s.sessions.GetOrCreate(orderID, isCase)
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := session.Refresh(ctx); err != nil {
			logger.Log.WithError(err).WithField("order_id", orderID).
				Warn("Не удалось перезагрузить сделку после команды")
		}
	})
}

func (s *OrderActions) logActivity(orderID string, action models.OrderAction, outcome, detail string) {
	if s.activity == nil {
		return
	}
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.activity.Add(ctx, orderID, action, outcome, detail); err != nil {
			logger.Log.WithError(err).Warn("Не удалось записать действие в журнал")
		}
	})
}

// failureReason возвращает формулировку причины для диалога об ошибке:
// для отказа ноды — её собственную причину, иначе текст ошибки.
func failureReason(err error) string {
	var remote *apperror.RemoteCommandError
	if errors.As(err, &remote) && remote.Reason != "" {
		return remote.Reason
	}
	return err.Error()
}
