package service

import (
	"context"
	"math"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

// Доля модератора от суммы заказа при разрешении спора.
const moderatorFeePercentage = 5.0

// DisputeFlow ведёт спор от открытия до решения: претензия со стороны
// участника, кейс со стороны модератора, предварительный расчёт выплат.
type DisputeFlow struct {
	detail  *OrderDetailService
	actions *OrderActions
}

// NewDisputeFlow создаёт сервис споров.
func NewDisputeFlow(detail *OrderDetailService, actions *OrderActions) *DisputeFlow {
	return &DisputeFlow{detail: detail, actions: actions}
}

// Open открывает спор по заказу с текстом претензии.
func (s *DisputeFlow) Open(ctx context.Context, orderID, claim string) error {
	return s.actions.OpenDispute(ctx, orderID, claim)
}

// OpenCase загружает кейс глазами модератора.
func (s *DisputeFlow) OpenCase(ctx context.Context, caseID string) (*DetailView, error) {
	return s.detail.Open(ctx, caseID, true)
}

// Resolve выносит решение модератора по спору.
func (s *DisputeFlow) Resolve(ctx context.Context, req ResolveDisputeRequest) error {
	return s.actions.ResolveDispute(ctx, req)
}

// PayoutPreview — предварительный расчёт выплат по решению, в тех же
// единицах, что и сумма заказа.
type PayoutPreview struct {
	BuyerAmount     float64 `json:"buyerAmount"`
	VendorAmount    float64 `json:"vendorAmount"`
	ModeratorAmount float64 `json:"moderatorAmount"`
}

// Preview считает выплаты по долям: комиссия модератора снимается с суммы
// заказа, остаток делится между покупателем и продавцом.
func (s *DisputeFlow) Preview(orderID string, buyerPercentage, vendorPercentage float64) (*PayoutPreview, error) {
	view, err := s.detail.Current(orderID)
	if err != nil {
		return nil, err
	}
	if view.Contract == nil {
		return nil, apperror.MissingData("контракта сделки")
	}

	vErr := apperror.NewValidationError()
	if buyerPercentage < 0 || vendorPercentage < 0 {
		vErr.Add("percentage", "доля не может быть отрицательной")
	} else if buyerPercentage+vendorPercentage != 100 {
		vErr.Add("percentage", "доли покупателя и продавца в сумме должны давать 100")
	}
	if err := vErr.ErrOrNil(); err != nil {
		return nil, err
	}

	total := view.Contract.OrderPrice()
	moderatorAmount := roundAmount(total * moderatorFeePercentage / 100)
	remainder := total - moderatorAmount

	return &PayoutPreview{
		BuyerAmount:     roundAmount(remainder * buyerPercentage / 100),
		VendorAmount:    roundAmount(remainder * vendorPercentage / 100),
		ModeratorAmount: moderatorAmount,
	}, nil
}

// CanOpen сообщает, доступно ли открытие спора по сделке её текущему
// участнику: сделка модерируемая и находится в допускающем спор состоянии.
func (s *DisputeFlow) CanOpen(orderID string) (bool, error) {
	view, err := s.detail.Current(orderID)
	if err != nil {
		return false, err
	}
	for _, action := range view.Actions {
		if action == models.ActionOpenDispute {
			return true, nil
		}
	}
	return false, nil
}

func roundAmount(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
