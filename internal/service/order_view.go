package service

import (
	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

// ProgressView — проекция сделки на индикатор этапов. Для любого валидного
// состояния проекция определена: неизвестное состояние трактуется как
// первый этап обычного потока.
type ProgressView struct {
	Stages  []string `json:"stages"`
	Current int      `json:"current"`
	Failed  bool     `json:"failed"`
	Label   string   `json:"label"`
}

// Этикетки этапов трёх семейств шкалы: обычный поток, спор у заказа,
// спор у кейса. Досрочное завершение показывается двухэтапной шкалой
// "Оплачен → <исход>".
var (
	normalStages      = []string{"Оплачен", "Принят", "Отгружен", "Завершён"}
	disputeStages     = []string{"Спор открыт", "Решение вынесено", "Спор разрешён", "Завершён"}
	caseDisputeStages = []string{"Спор открыт", "Завершён"}
)

// Progress строит проекцию индикатора по состоянию сделки. Сделка,
// прошедшая через спор, показывается на шкале спора даже после его
// закрытия; досрочно прерванная — на шкале исхода.
func Progress(state string, isCase, hasDispute bool) ProgressView {
	switch state {
	case models.StateDisputed, models.StateDecided, models.StateResolved:
		return disputeProgress(state, isCase)
	case models.StateCompleted:
		if hasDispute {
			return disputeProgress(state, isCase)
		}
	case models.StateDeclined, models.StateCanceled, models.StateRefunded:
		return earlyExitProgress(state)
	}
	return normalProgress(state)
}

func normalProgress(state string) ProgressView {
	view := ProgressView{Stages: normalStages}
	switch state {
	case models.StateAwaitingPayment:
		view.Current = 0
		view.Label = "Ожидает оплаты"
	case models.StatePending:
		view.Current = 1
		view.Label = "Ожидает подтверждения продавца"
	case models.StateAwaitingFulfillment, models.StateAwaitingPickup:
		view.Current = 2
		view.Label = "Ожидает отгрузки"
	case models.StatePartiallyFulfilled:
		view.Current = 2
		view.Label = "Частично отгружен"
	case models.StateFulfilled:
		view.Current = 3
		view.Label = "Отгружен"
	case models.StateCompleted:
		view.Current = 4
		view.Label = "Завершён"
	default:
		view.Current = 0
		view.Label = "Ожидает оплаты"
	}
	return view
}

func earlyExitProgress(state string) ProgressView {
	view := ProgressView{Current: 2, Failed: true}
	switch state {
	case models.StateDeclined:
		view.Stages = []string{"Оплачен", "Отклонён"}
		view.Label = "Отклонён продавцом"
	case models.StateCanceled:
		view.Stages = []string{"Оплачен", "Отменён"}
		view.Label = "Отменён покупателем"
	default:
		view.Stages = []string{"Оплачен", "Возврат"}
		view.Label = "Средства возвращены"
	}
	return view
}

func disputeProgress(state string, isCase bool) ProgressView {
	if isCase {
		view := ProgressView{Stages: caseDisputeStages}
		switch state {
		case models.StateResolved, models.StateCompleted:
			view.Current = 2
			view.Label = "Спор закрыт"
		default:
			view.Current = 1
			view.Label = "Спор рассматривается"
		}
		return view
	}

	view := ProgressView{Stages: disputeStages}
	switch state {
	case models.StateDisputed:
		view.Current = 1
		view.Label = "Спор рассматривается"
	case models.StateDecided:
		view.Current = 2
		view.Label = "Модератор вынес решение"
	case models.StateResolved:
		view.Current = 3
		view.Label = "Спор разрешён"
	default:
		view.Current = 4
		view.Label = "Завершён"
	}
	return view
}

// ParticipantRole определяет роль владельца шлюза в сделке по его peerID.
// Кейс всегда смотрится глазами модератора.
func ParticipantRole(record *models.OrderRecord, ownPeerID string) string {
	if record == nil {
		return ""
	}
	if record.IsCase() {
		return models.RoleModerator
	}
	contract := record.FeaturedContract()
	switch ownPeerID {
	case "":
		return ""
	case contract.BuyerID():
		return models.RoleBuyer
	case contract.VendorID():
		return models.RoleVendor
	case contract.ModeratorID():
		return models.RoleModerator
	}
	return ""
}

// AvailableActions возвращает команды, доступные владельцу шлюза для сделки
// в её текущем состоянии. Команды, уже идущие по сделке, исключаются.
func AvailableActions(record *models.OrderRecord, role string, inFlight []models.OrderAction) []models.OrderAction {
	if record == nil {
		return nil
	}

	running := make(map[models.OrderAction]bool, len(inFlight))
	for _, action := range inFlight {
		running[action] = true
	}

	var actions []models.OrderAction
	add := func(action models.OrderAction) {
		if !running[action] {
			actions = append(actions, action)
		}
	}

	state := record.State()
	contract := record.FeaturedContract()
	moderated := contract.ModeratorID() != ""

	switch role {
	case models.RoleVendor:
		switch state {
		case models.StatePending:
			add(models.ActionAccept)
			add(models.ActionReject)
		case models.StateAwaitingFulfillment, models.StatePartiallyFulfilled:
			add(models.ActionFulfill)
			add(models.ActionRefund)
		case models.StateDisputed:
			add(models.ActionRefund)
		}
		if moderated && canOpenDispute(state) {
			add(models.ActionOpenDispute)
		}
	case models.RoleBuyer:
		switch state {
		case models.StatePending:
			add(models.ActionCancel)
		case models.StateFulfilled, models.StateResolved:
			add(models.ActionComplete)
		}
		if moderated && canOpenDispute(state) {
			add(models.ActionOpenDispute)
		}
	case models.RoleModerator:
		if record.IsCase() && state == models.StateDisputed {
			add(models.ActionResolveDispute)
		}
	}
	return actions
}

func canOpenDispute(state string) bool {
	switch state {
	case models.StateAwaitingFulfillment, models.StatePartiallyFulfilled, models.StateFulfilled:
		return true
	}
	return false
}

// DisputeView — данные спора для интерфейса, собранные из правильного
// источника: у кейса они лежат на самом кейсе, у заказа — в контракте.
// PayoutAcceptable истинно, когда вынесенное решение может принять
// смотрящая сторона: не кейс, состояние DECIDED и решение предложено
// не ею самой.
type DisputeView struct {
	Claim            string                    `json:"claim"`
	Resolution       *models.DisputeResolution `json:"resolution,omitempty"`
	PayoutAcceptable bool                      `json:"payoutAcceptable"`
}

// DetailView — полная проекция сделки для экрана деталей заказа.
// ShowPayment истинно, пока покупатель должен доплатить по заказу;
// у кейсов данных о транзакциях нет, секция оплаты не показывается.
// ShowAccepted истинно, когда продавец принял заказ и заказ полностью
// оплачен (для кейса — сразу при наличии подтверждения).
type DetailView struct {
	ID               string               `json:"id"`
	Kind             models.RecordKind    `json:"kind"`
	State            string               `json:"state"`
	Role             string               `json:"role"`
	Progress         ProgressView         `json:"progress"`
	Actions          []models.OrderAction `json:"actions"`
	Contract         *models.Contract     `json:"contract"`
	BalanceRemaining float64              `json:"balanceRemaining"`
	ShowPayment      bool                 `json:"showPayment"`
	ShowAccepted     bool                 `json:"showAccepted"`
	Dispute          *DisputeView         `json:"dispute,omitempty"`
	Order            *models.Order        `json:"order,omitempty"`
	Case             *models.Case         `json:"case,omitempty"`
}

// BuildDetail собирает проекцию сделки для интерфейса.
func BuildDetail(record *models.OrderRecord, ownPeerID string, inFlight []models.OrderAction) DetailView {
	role := ParticipantRole(record, ownPeerID)
	contract := record.FeaturedContract()
	balance := record.Order.BalanceRemaining()
	view := DetailView{
		ID:               record.ID(),
		Kind:             record.Kind,
		State:            record.State(),
		Role:             role,
		Progress:         Progress(record.State(), record.IsCase(), record.HasDispute()),
		Actions:          AvailableActions(record, role, inFlight),
		Contract:         contract,
		BalanceRemaining: balance,
		ShowPayment:      !record.IsCase() && role == models.RoleBuyer && balance > 0,
		ShowAccepted: contract != nil && contract.VendorOrderConfirmation != nil &&
			(record.IsCase() || balance <= 0),
		Order: record.Order,
		Case:  record.Case,
	}
	if record.HasDispute() {
		resolution := record.DisputeResolution()
		view.Dispute = &DisputeView{
			Claim:      record.DisputeClaim(),
			Resolution: resolution,
			PayoutAcceptable: !record.IsCase() &&
				record.State() == models.StateDecided &&
				resolution != nil &&
				ownPeerID != "" &&
				resolution.ProposedBy != ownPeerID,
		}
	}
	return view
}
