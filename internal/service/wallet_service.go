package service

import (
	"context"
	"fmt"

	"github.com/ignatzorin/bazaar-gateway/internal/events"
	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

// WalletGateway описывает кошелёк ноды.
type WalletGateway interface {
	WalletBalance(ctx context.Context) (*models.WalletBalance, error)
	Spend(ctx context.Context, req models.SpendRequest) (*models.SpendResult, error)
}

// WalletService — баланс и траты кошелька ноды с локальной валидацией
// до отправки запроса.
type WalletService struct {
	wallet WalletGateway
	bus    *events.Bus
}

// NewWalletService создаёт сервис кошелька.
func NewWalletService(wallet WalletGateway, bus *events.Bus) *WalletService {
	return &WalletService{wallet: wallet, bus: bus}
}

// Balance возвращает баланс кошелька.
func (s *WalletService) Balance(ctx context.Context) (*models.WalletBalance, error) {
	balance, err := s.wallet.WalletBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallet: не удалось получить баланс: %w", err)
	}
	return balance, nil
}

// Spend проверяет и отправляет платёж. Сумма сверяется с подтверждённым
// балансом до обращения к ноде, чтобы заведомо неисполнимая трата не
// уходила в сеть.
func (s *WalletService) Spend(ctx context.Context, req models.SpendRequest) (*models.SpendResult, error) {
	if req.FeeLevel == "" {
		req.FeeLevel = models.FeeLevelNormal
	}

	vErr := apperror.NewValidationError()
	if req.Address == "" {
		vErr.Add("address", "укажите адрес получателя")
	}
	if req.Amount <= 0 {
		vErr.Add("amount", "сумма должна быть больше нуля")
	}
	if _, ok := models.ValidFeeLevels[req.FeeLevel]; !ok {
		vErr.Add("feeLevel", "неизвестный уровень комиссии")
	}
	if err := vErr.ErrOrNil(); err != nil {
		return nil, err
	}

	balance, err := s.wallet.WalletBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallet: не удалось проверить баланс перед тратой: %w", err)
	}
	if req.Amount > balance.Confirmed {
		vErr := apperror.NewValidationError()
		vErr.Add("amount", "недостаточно подтверждённых средств")
		return nil, vErr
	}

	result, err := s.wallet.Spend(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("wallet: не удалось отправить средства: %w", err)
	}

	// Интерфейс обновляет виджет баланса по этому событию.
	if s.bus != nil {
		s.bus.Publish(events.OrderEvent{
			Kind: events.KindWalletUpdated,
			Payload: &models.WalletBalance{
				Confirmed:   result.ConfirmedBalance,
				Unconfirmed: result.UnconfirmedBalance,
			},
		})
	}
	return result, nil
}
